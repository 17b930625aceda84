package attendance

import (
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/course"
)

type (
	SessionDetail struct {
		ID        int                    `json:"id"`
		Date      string                 `json:"date"`
		StartTime string                 `json:"start_time"`
		EndTime   string                 `json:"end_time"`
		Topic     string                 `json:"topic,omitempty"`
		Group     *course.GroupSummary   `json:"course_group,omitempty"`
		Schedule  *course.ScheduleDetail `json:"schedule,omitempty"`
	}

	RecordDetail struct {
		ID            int            `json:"id"`
		Status        string         `json:"status"`
		StatusDisplay string         `json:"status_display"`
		Notes         string         `json:"notes,omitempty"`
		Session       *SessionDetail `json:"session,omitempty"`
	}
)

func ShapeSession(s Session) SessionDetail {
	sd := SessionDetail{
		ID:        s.ID,
		Date:      s.Date.Format(dateLayout),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Topic:     s.Topic,
	}
	if s.Group != nil {
		g := course.ShapeGroup(*s.Group)
		sd.Group = &g
	}
	if s.Schedule != nil {
		sch := course.ShapeSchedule(*s.Schedule)
		sd.Schedule = &sch
	}
	return sd
}

func ShapeSessions(sessions []Session) []SessionDetail {
	out := make([]SessionDetail, len(sessions))
	for i, s := range sessions {
		out[i] = ShapeSession(s)
	}
	return out
}

func ShapeRecord(a Attendance) RecordDetail {
	rd := RecordDetail{
		ID:            a.ID,
		Status:        a.Status,
		StatusDisplay: StatusLabel(a.Status),
		Notes:         a.Notes,
	}
	if a.Session != nil {
		s := ShapeSession(*a.Session)
		rd.Session = &s
	}
	return rd
}

func ShapeRecords(records []Attendance) []RecordDetail {
	out := make([]RecordDetail, len(records))
	for i, a := range records {
		out[i] = ShapeRecord(a)
	}
	return out
}

package attendance

import (
	"time"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
)

type (
	// Summary aggregates a set of attendance records into counts and an
	// attendance percentage. Only present records count toward the
	// percentage; late, excused and absent all lower it.
	Summary struct {
		TotalSessions        int     `json:"total_sessions"`
		Present              int     `json:"present"`
		Absent               int     `json:"absent"`
		Late                 int     `json:"late"`
		Excused              int     `json:"excused"`
		AttendancePercentage float64 `json:"attendance_percentage"`
	}

	// SubjectSummary is a per-subject breakdown entry.
	SubjectSummary struct {
		Subject string  `json:"subject"`
		Summary Summary `json:"stats"`
	}

	// TrendPoint is one day of the weekly trend.
	TrendPoint struct {
		Date                 string  `json:"date"`
		DayName              string  `json:"day_name"`
		TotalSessions        int     `json:"total_sessions"`
		AttendancePercentage float64 `json:"attendance_percentage"`
	}
)

// Summarize folds records into a Summary. An empty input yields zero counts
// and a 0.0 percentage.
func Summarize(records []Attendance) Summary {
	var s Summary
	for _, rec := range records {
		s.TotalSessions++
		switch rec.Status {
		case StatusPresent:
			s.Present++
		case StatusAbsent:
			s.Absent++
		case StatusLate:
			s.Late++
		case StatusExcused:
			s.Excused++
		}
	}
	s.AttendancePercentage = core.CountPercent(s.Present, s.TotalSessions)
	return s
}

// SummarizeBySubject groups records by their session's schedule subject and
// summarizes each group. Records without a loaded session are skipped.
// Groups come back in first-seen order.
func SummarizeBySubject(records []Attendance) []SubjectSummary {
	var order []string
	bySubject := make(map[string][]Attendance)
	for _, rec := range records {
		if rec.Session == nil || rec.Session.Schedule == nil {
			continue
		}
		subject := rec.Session.Schedule.Subject
		if _, ok := bySubject[subject]; !ok {
			order = append(order, subject)
		}
		bySubject[subject] = append(bySubject[subject], rec)
	}

	out := make([]SubjectSummary, 0, len(order))
	for _, subject := range order {
		out = append(out, SubjectSummary{
			Subject: subject,
			Summary: Summarize(bySubject[subject]),
		})
	}
	return out
}

// WeeklyTrend builds the last seven days of attendance ending at today,
// oldest day first. Days without records yield a 0.0 percentage. Records
// without a loaded session are skipped.
func WeeklyTrend(records []Attendance, today time.Time) []TrendPoint {
	byDay := make(map[string][]Attendance)
	for _, rec := range records {
		if rec.Session == nil {
			continue
		}
		key := rec.Session.Date.Format("2006-01-02")
		byDay[key] = append(byDay[key], rec)
	}

	trend := make([]TrendPoint, 0, 7)
	for offset := 6; offset >= 0; offset-- {
		day := today.AddDate(0, 0, -offset)
		key := day.Format("2006-01-02")
		s := Summarize(byDay[key])
		trend = append(trend, TrendPoint{
			Date:                 key,
			DayName:              dayName(day.Weekday()),
			TotalSessions:        s.TotalSessions,
			AttendancePercentage: s.AttendancePercentage,
		})
	}
	return trend
}

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "Lunes",
	time.Tuesday:   "Martes",
	time.Wednesday: "Miércoles",
	time.Thursday:  "Jueves",
	time.Friday:    "Viernes",
	time.Saturday:  "Sábado",
	time.Sunday:    "Domingo",
}

func dayName(d time.Weekday) string { return weekdayNames[d] }

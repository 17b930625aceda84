package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/course"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

var ErrNotFound = core.ErrNotFound

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type (
	// NewSession contains the information needed to open a class session.
	// ScheduleID is optional; the group's first schedule is used when absent.
	NewSession struct {
		GroupID    int    `json:"course_group" validate:"required"`
		ScheduleID int    `json:"schedule"`
		Date       string `json:"date" validate:"required"`
		StartTime  string `json:"start_time" validate:"required"`
		EndTime    string `json:"end_time" validate:"required"`
		Topic      string `json:"topic"`
	}

	// HistoryFilter narrows a student's attendance history.
	HistoryFilter struct {
		GroupID  int
		DateFrom time.Time
		DateTo   time.Time
	}

	// StudentStats is a per-student rollup within a group.
	StudentStats struct {
		EnrollmentID int     `json:"enrollment_id"`
		StudentName  string  `json:"student_name"`
		Stats        Summary `json:"stats"`
	}

	// GroupStats is a teacher's view of one group's attendance.
	GroupStats struct {
		Group    course.GroupSummary `json:"course_group"`
		Overall  Summary             `json:"overall"`
		Students []StudentStats      `json:"students"`
	}

	// TeacherGroupStats is one group's rollup within a teacher's overview.
	TeacherGroupStats struct {
		Group    course.GroupSummary `json:"course_group"`
		Enrolled int                 `json:"enrolled_students"`
		Stats    Summary             `json:"stats"`
	}

	// TeacherStats aggregates attendance across all of a teacher's groups.
	// AveragePercentage is present/total over every record, not a mean of
	// per-group percentages.
	TeacherStats struct {
		AveragePercentage float64             `json:"average_percentage"`
		TotalSessions     int                 `json:"total_sessions"`
		TotalGroups       int                 `json:"total_groups"`
		Groups            []TeacherGroupStats `json:"groups"`
	}

	// StudentOverview is a student's own attendance dashboard.
	StudentOverview struct {
		Overall     Summary          `json:"overall"`
		BySubject   []SubjectSummary `json:"by_subject"`
		WeeklyTrend []TrendPoint     `json:"weekly_trend"`
	}

	Repository interface {
		CreateSession(ctx context.Context, sess *Session) error
		// GetSessionByID loads a session with its group and schedule.
		GetSessionByID(ctx context.Context, id int) (Session, error)
		FilterSessionsByGroup(ctx context.Context, groupID int) ([]Session, error)
		FilterSessionsByTeacher(ctx context.Context, teacherProfileID int) ([]Session, error)

		// UpsertAttendance creates the record or updates status and notes
		// when one already exists for the session and enrollment pair.
		UpsertAttendance(ctx context.Context, att *Attendance) error
		// FilterStudentAttendance returns a student's records with sessions
		// and schedules loaded, newest session first.
		FilterStudentAttendance(ctx context.Context, studentProfileID int, f HistoryFilter) ([]Attendance, error)
		// FilterGroupAttendance returns a group's records with enrollments
		// and their students loaded.
		FilterGroupAttendance(ctx context.Context, groupID int) ([]Attendance, error)
		// GetGroupEnrollment resolves an enrollment scoped to a group;
		// a foreign or inactive enrollment yields ErrNotFound.
		GetGroupEnrollment(ctx context.Context, enrollmentID, groupID int) (course.Enrollment, error)
	}

	// GroupGetter resolves course groups; satisfied by course.Service.
	GroupGetter interface {
		GetGroup(ctx context.Context, id int) (course.Group, error)
		GroupSchedules(ctx context.Context, groupID int) ([]course.Schedule, error)
		TeacherGroups(ctx context.Context, teacher user.TeacherProfile) ([]course.Group, error)
		CountGroupEnrollments(ctx context.Context, groupID int, activeOnly bool) (int, error)
	}

	Service interface {
		CreateSession(ctx context.Context, teacher user.User, ns NewSession) (Session, error)
		MarkBatch(ctx context.Context, teacher user.User, sessionID int, items []MarkItem) ([]MarkResult, []Attendance, error)
		TeacherSessions(ctx context.Context, teacherProfile user.TeacherProfile, groupID int) ([]Session, error)
		GroupStats(ctx context.Context, teacher user.User, groupID int) (GroupStats, error)
		TeacherStats(ctx context.Context, teacherProfile user.TeacherProfile) (TeacherStats, error)
		StudentHistory(ctx context.Context, student user.StudentProfile, f HistoryFilter) ([]Attendance, error)
		StudentOverview(ctx context.Context, student user.StudentProfile, today time.Time) (StudentOverview, error)
	}

	service struct {
		repo   Repository
		groups GroupGetter
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, groups GroupGetter) Service {
	return &service{repo: repo, groups: groups}
}

// ownedGroup resolves the group and enforces that the teacher owns it.
func (svc *service) ownedGroup(ctx context.Context, teacher user.User, groupID int) (course.Group, error) {
	group, err := svc.groups.GetGroup(ctx, groupID)
	if err != nil {
		return course.Group{}, err
	}
	if !group.OwnedBy(teacher.ID) {
		return course.Group{}, core.NewPermissionError("you do not manage this course group")
	}
	return group, nil
}

func (svc *service) CreateSession(ctx context.Context, teacher user.User, ns NewSession) (Session, error) {
	if err := core.Validate.Struct(ns); err != nil {
		return Session{}, err
	}

	date, err := time.Parse(dateLayout, ns.Date)
	if err != nil {
		return Session{}, core.NewValidationError(nil, core.FieldError{Field: "date", Error: "invalid date, expected YYYY-MM-DD"})
	}
	start, err := time.Parse(timeLayout, ns.StartTime)
	if err != nil {
		return Session{}, core.NewValidationError(nil, core.FieldError{Field: "start_time", Error: "invalid time, expected HH:MM"})
	}
	end, err := time.Parse(timeLayout, ns.EndTime)
	if err != nil {
		return Session{}, core.NewValidationError(nil, core.FieldError{Field: "end_time", Error: "invalid time, expected HH:MM"})
	}
	if !start.Before(end) {
		return Session{}, core.NewValidationError(nil, core.FieldError{Field: "end_time", Error: "end time must be after start time"})
	}

	if _, err = svc.ownedGroup(ctx, teacher, ns.GroupID); err != nil {
		return Session{}, err
	}

	scheduleID, err := svc.resolveSchedule(ctx, ns.GroupID, ns.ScheduleID)
	if err != nil {
		return Session{}, err
	}

	sess := Session{
		GroupID:    ns.GroupID,
		ScheduleID: scheduleID,
		Date:       date,
		StartTime:  ns.StartTime,
		EndTime:    ns.EndTime,
		Topic:      core.CleanString(ns.Topic),
	}
	if err = svc.repo.CreateSession(ctx, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// resolveSchedule picks the session's schedule within the group: the given
// one when it belongs to the group, otherwise the group's first. A group
// without schedules cannot hold sessions.
func (svc *service) resolveSchedule(ctx context.Context, groupID, scheduleID int) (int, error) {
	schedules, err := svc.groups.GroupSchedules(ctx, groupID)
	if err != nil {
		return 0, err
	}
	if len(schedules) == 0 {
		return 0, core.NewValidationError(nil, core.FieldError{Field: "course_group", Error: "no schedule defined for this course group"})
	}
	if scheduleID == 0 {
		return schedules[0].ID, nil
	}
	for _, sch := range schedules {
		if sch.ID == scheduleID {
			return scheduleID, nil
		}
	}
	return 0, core.NewValidationError(nil, core.FieldError{Field: "schedule", Error: "schedule does not belong to this course group"})
}

// MarkBatch records attendance for a session, one item at a time. A failing
// item is reported in its result and does not abort the remaining items.
func (svc *service) MarkBatch(ctx context.Context, teacher user.User, sessionID int, items []MarkItem) ([]MarkResult, []Attendance, error) {
	sess, err := svc.repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if _, err = svc.ownedGroup(ctx, teacher, sess.GroupID); err != nil {
		return nil, nil, err
	}

	results := make([]MarkResult, 0, len(items))
	var recorded []Attendance
	for _, item := range items {
		res := MarkResult{EnrollmentID: item.EnrollmentID}

		if err := core.Validate.Struct(item); err != nil {
			res.Error = "invalid status or enrollment"
			results = append(results, res)
			continue
		}
		enr, err := svc.repo.GetGroupEnrollment(ctx, item.EnrollmentID, sess.GroupID)
		if err != nil {
			res.Error = "enrollment not found in this course group"
			results = append(results, res)
			continue
		}

		att := Attendance{
			SessionID:    sess.ID,
			EnrollmentID: enr.ID,
			Status:       item.Status,
			Notes:        core.CleanString(item.Notes),
		}
		if err := svc.repo.UpsertAttendance(ctx, &att); err != nil {
			res.Error = errors.Cause(err).Error()
			results = append(results, res)
			continue
		}

		res.OK = true
		results = append(results, res)
		recorded = append(recorded, att)
	}
	return results, recorded, nil
}

func (svc *service) TeacherSessions(ctx context.Context, teacherProfile user.TeacherProfile, groupID int) ([]Session, error) {
	if groupID > 0 {
		group, err := svc.groups.GetGroup(ctx, groupID)
		if err != nil {
			return nil, err
		}
		if group.TeacherID != teacherProfile.ID {
			return nil, core.NewPermissionError("you do not manage this course group")
		}
		return svc.repo.FilterSessionsByGroup(ctx, groupID)
	}
	return svc.repo.FilterSessionsByTeacher(ctx, teacherProfile.ID)
}

func (svc *service) GroupStats(ctx context.Context, teacher user.User, groupID int) (GroupStats, error) {
	group, err := svc.ownedGroup(ctx, teacher, groupID)
	if err != nil {
		return GroupStats{}, err
	}
	records, err := svc.repo.FilterGroupAttendance(ctx, groupID)
	if err != nil {
		return GroupStats{}, err
	}

	// group per enrollment, first-seen order
	var order []int
	byEnrollment := make(map[int][]Attendance)
	names := make(map[int]string)
	for _, rec := range records {
		if _, ok := byEnrollment[rec.EnrollmentID]; !ok {
			order = append(order, rec.EnrollmentID)
		}
		byEnrollment[rec.EnrollmentID] = append(byEnrollment[rec.EnrollmentID], rec)
		if rec.Enrollment != nil && rec.Enrollment.StudentName != "" {
			names[rec.EnrollmentID] = rec.Enrollment.StudentName
		}
	}

	stats := GroupStats{
		Group:    course.ShapeGroup(group),
		Overall:  Summarize(records),
		Students: make([]StudentStats, 0, len(order)),
	}
	for _, enrID := range order {
		stats.Students = append(stats.Students, StudentStats{
			EnrollmentID: enrID,
			StudentName:  names[enrID],
			Stats:        Summarize(byEnrollment[enrID]),
		})
	}
	return stats, nil
}

func (svc *service) TeacherStats(ctx context.Context, teacherProfile user.TeacherProfile) (TeacherStats, error) {
	groups, err := svc.groups.TeacherGroups(ctx, teacherProfile)
	if err != nil {
		return TeacherStats{}, err
	}

	sessions, err := svc.repo.FilterSessionsByTeacher(ctx, teacherProfile.ID)
	if err != nil {
		return TeacherStats{}, err
	}

	stats := TeacherStats{
		TotalSessions: len(sessions),
		TotalGroups:   len(groups),
		Groups:        make([]TeacherGroupStats, 0, len(groups)),
	}
	var present, total int
	for _, group := range groups {
		records, err := svc.repo.FilterGroupAttendance(ctx, group.ID)
		if err != nil {
			return TeacherStats{}, err
		}
		enrolled, err := svc.groups.CountGroupEnrollments(ctx, group.ID, true)
		if err != nil {
			return TeacherStats{}, err
		}
		summary := Summarize(records)
		present += summary.Present
		total += summary.TotalSessions
		stats.Groups = append(stats.Groups, TeacherGroupStats{
			Group:    course.ShapeGroup(group),
			Enrolled: enrolled,
			Stats:    summary,
		})
	}
	stats.AveragePercentage = core.CountPercent(present, total)
	return stats, nil
}

func (svc *service) StudentHistory(ctx context.Context, student user.StudentProfile, f HistoryFilter) ([]Attendance, error) {
	return svc.repo.FilterStudentAttendance(ctx, student.ID, f)
}

func (svc *service) StudentOverview(ctx context.Context, student user.StudentProfile, today time.Time) (StudentOverview, error) {
	records, err := svc.repo.FilterStudentAttendance(ctx, student.ID, HistoryFilter{})
	if err != nil {
		return StudentOverview{}, err
	}
	return StudentOverview{
		Overall:     Summarize(records),
		BySubject:   SummarizeBySubject(records),
		WeeklyTrend: WeeklyTrend(records, today),
	}, nil
}

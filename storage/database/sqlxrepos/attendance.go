package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/attendance"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/course"
)

type attendanceRepository struct {
	db      *sqlx.DB
	courses *courseRepository
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db, courses: NewCourseRepository(db)}
}

type sessionRow struct {
	ID         int       `db:"id"`
	GroupID    int       `db:"group_id"`
	ScheduleID int       `db:"schedule_id"`
	Date       time.Time `db:"date"`
	StartTime  string    `db:"start_time"`
	EndTime    string    `db:"end_time"`
	Topic      string    `db:"topic"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r sessionRow) toSession() attendance.Session {
	return attendance.Session{
		ID:         r.ID,
		GroupID:    r.GroupID,
		ScheduleID: r.ScheduleID,
		Date:       r.Date,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Topic:      r.Topic,
		CreatedAt:  r.CreatedAt,
	}
}

const sessionCols = `id, group_id, schedule_id, date,
	to_char(start_time, 'HH24:MI') AS start_time,
	to_char(end_time, 'HH24:MI') AS end_time,
	topic, created_at`

func (repo attendanceRepository) CreateSession(ctx context.Context, sess *attendance.Session) error {
	err := repo.db.QueryRowContext(ctx, `
		INSERT INTO class_session (group_id, schedule_id, date, start_time, end_time, topic)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		sess.GroupID, sess.ScheduleID, sess.Date, sess.StartTime, sess.EndTime, sess.Topic,
	).Scan(&sess.ID, &sess.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.NewConflictError("a session already exists for this group, schedule and date")
		}
		return errors.Wrap(err, "inserting session")
	}
	return nil
}

// loadSessionRefs attaches the group graph and schedule to a session.
func (repo attendanceRepository) loadSessionRefs(ctx context.Context, sess *attendance.Session) error {
	group, err := repo.courses.GetGroupByID(ctx, sess.GroupID)
	if err != nil {
		return errors.Wrap(err, "loading session group")
	}
	sess.Group = &group

	schedules, err := repo.courses.FilterGroupSchedules(ctx, sess.GroupID)
	if err != nil {
		return errors.Wrap(err, "loading session schedules")
	}
	for i := range schedules {
		if schedules[i].ID == sess.ScheduleID {
			sess.Schedule = &schedules[i]
			break
		}
	}
	return nil
}

func (repo attendanceRepository) GetSessionByID(ctx context.Context, id int) (attendance.Session, error) {
	var row sessionRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+sessionCols+` FROM class_session WHERE id = $1`, id)
	if err != nil {
		return attendance.Session{}, trapNoRowsErr(err, "getting session")
	}
	sess := row.toSession()
	if err = repo.loadSessionRefs(ctx, &sess); err != nil {
		return attendance.Session{}, err
	}
	return sess, nil
}

func (repo attendanceRepository) filterSessions(ctx context.Context, where string, arg interface{}) ([]attendance.Session, error) {
	var rows []sessionRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT `+sessionCols+` FROM class_session `+where+` ORDER BY date DESC, start_time DESC`, arg)
	if err != nil {
		return nil, errors.Wrap(err, "filtering sessions")
	}
	sessions := make([]attendance.Session, len(rows))
	for i, row := range rows {
		sess := row.toSession()
		if err = repo.loadSessionRefs(ctx, &sess); err != nil {
			return nil, err
		}
		sessions[i] = sess
	}
	return sessions, nil
}

func (repo attendanceRepository) FilterSessionsByGroup(ctx context.Context, groupID int) ([]attendance.Session, error) {
	return repo.filterSessions(ctx, `WHERE group_id = $1`, groupID)
}

func (repo attendanceRepository) FilterSessionsByTeacher(ctx context.Context, teacherProfileID int) ([]attendance.Session, error) {
	return repo.filterSessions(ctx, `
		WHERE group_id IN (SELECT id FROM course_group WHERE teacher_id = $1)`, teacherProfileID)
}

func (repo attendanceRepository) UpsertAttendance(ctx context.Context, att *attendance.Attendance) error {
	err := repo.db.QueryRowContext(ctx, `
		INSERT INTO attendance (session_id, enrollment_id, status, notes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, enrollment_id)
		DO UPDATE SET status = EXCLUDED.status, notes = EXCLUDED.notes, recorded_at = now()
		RETURNING id, recorded_at`,
		att.SessionID, att.EnrollmentID, att.Status, att.Notes,
	).Scan(&att.ID, &att.RecordedAt)
	if err != nil {
		return errors.Wrap(err, "upserting attendance")
	}
	return nil
}

type attendanceRow struct {
	ID           int       `db:"id"`
	SessionID    int       `db:"session_id"`
	EnrollmentID int       `db:"enrollment_id"`
	Status       string    `db:"status"`
	Notes        string    `db:"notes"`
	RecordedAt   time.Time `db:"recorded_at"`

	SessionGroupID    int       `db:"session_group_id"`
	SessionScheduleID int       `db:"session_schedule_id"`
	SessionDate       time.Time `db:"session_date"`
	SessionStart      string    `db:"session_start_time"`
	SessionEnd        string    `db:"session_end_time"`
	SessionTopic      string    `db:"session_topic"`
	Subject           string    `db:"subject"`
	StudentName       string    `db:"student_name"`
}

func (r attendanceRow) toAttendance() attendance.Attendance {
	att := attendance.Attendance{
		ID:           r.ID,
		SessionID:    r.SessionID,
		EnrollmentID: r.EnrollmentID,
		Status:       r.Status,
		Notes:        r.Notes,
		RecordedAt:   r.RecordedAt,
		Session: &attendance.Session{
			ID:         r.SessionID,
			GroupID:    r.SessionGroupID,
			ScheduleID: r.SessionScheduleID,
			Date:       r.SessionDate,
			StartTime:  r.SessionStart,
			EndTime:    r.SessionEnd,
			Topic:      r.SessionTopic,
			Schedule: &course.Schedule{
				ID:      r.SessionScheduleID,
				GroupID: r.SessionGroupID,
				Subject: r.Subject,
			},
		},
	}
	if r.StudentName != "" {
		att.Enrollment = &course.Enrollment{ID: r.EnrollmentID, StudentName: r.StudentName}
	}
	return att
}

const attendanceQuery = `
	SELECT a.id, a.session_id, a.enrollment_id, a.status, a.notes, a.recorded_at,
	       cs.group_id AS session_group_id, cs.schedule_id AS session_schedule_id,
	       cs.date AS session_date,
	       to_char(cs.start_time, 'HH24:MI') AS session_start_time,
	       to_char(cs.end_time, 'HH24:MI') AS session_end_time,
	       cs.topic AS session_topic,
	       sch.subject AS subject,
	       u.nombre_completo AS student_name
	FROM attendance a
	JOIN class_session cs ON cs.id = a.session_id
	JOIN schedule sch ON sch.id = cs.schedule_id
	JOIN enrollment e ON e.id = a.enrollment_id
	JOIN student_profile sp ON sp.id = e.student_id
	JOIN app_user u ON u.id = sp.user_id`

func (repo attendanceRepository) FilterStudentAttendance(ctx context.Context, studentProfileID int, f attendance.HistoryFilter) ([]attendance.Attendance, error) {
	q := attendanceQuery + ` WHERE e.student_id = $1`
	args := []interface{}{studentProfileID}
	arg := func(v interface{}) string {
		args = append(args, v)
		return dollar(len(args))
	}

	if f.GroupID > 0 {
		q += ` AND cs.group_id = ` + arg(f.GroupID)
	}
	if !f.DateFrom.IsZero() {
		q += ` AND cs.date >= ` + arg(f.DateFrom)
	}
	if !f.DateTo.IsZero() {
		q += ` AND cs.date <= ` + arg(f.DateTo)
	}
	q += ` ORDER BY cs.date DESC, cs.start_time DESC`

	var rows []attendanceRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering student attendance")
	}
	records := make([]attendance.Attendance, len(rows))
	for i, row := range rows {
		records[i] = row.toAttendance()
	}
	return records, nil
}

func (repo attendanceRepository) FilterGroupAttendance(ctx context.Context, groupID int) ([]attendance.Attendance, error) {
	var rows []attendanceRow
	err := repo.db.SelectContext(ctx, &rows, attendanceQuery+`
		WHERE cs.group_id = $1
		ORDER BY cs.date DESC, a.enrollment_id`, groupID)
	if err != nil {
		return nil, errors.Wrap(err, "filtering group attendance")
	}
	records := make([]attendance.Attendance, len(rows))
	for i, row := range rows {
		records[i] = row.toAttendance()
	}
	return records, nil
}

func (repo attendanceRepository) GetGroupEnrollment(ctx context.Context, enrollmentID, groupID int) (course.Enrollment, error) {
	var row enrollmentRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT id, student_id, group_id, enrollment_date, is_active
		FROM enrollment
		WHERE id = $1 AND group_id = $2 AND is_active`, enrollmentID, groupID)
	if err != nil {
		return course.Enrollment{}, trapNoRowsErr(err, "getting group enrollment")
	}
	return row.toEnrollment(), nil
}

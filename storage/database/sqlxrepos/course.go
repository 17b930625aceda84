package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/course"
)

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

// groupRow flattens a course_group with its course, period and teacher joins.
type groupRow struct {
	ID          int    `db:"id"`
	CourseID    int    `db:"course_id"`
	PeriodID    int    `db:"period_id"`
	TeacherID   int    `db:"teacher_id"`
	Name        string `db:"name"`
	MaxStudents int    `db:"max_students"`

	CourseName    string    `db:"course_name"`
	CourseCode    string    `db:"course_code"`
	CourseDesc    string    `db:"course_description"`
	CourseLevel   string    `db:"course_level"`
	CourseMod     string    `db:"course_modality"`
	CourseWeeks   int       `db:"course_duration_weeks"`
	CourseHours   int       `db:"course_hours_per_week"`
	CourseActive  bool      `db:"course_is_active"`
	PeriodName    string    `db:"period_name"`
	PeriodStart   time.Time `db:"period_start_date"`
	PeriodEnd     time.Time `db:"period_end_date"`
	PeriodActive  bool      `db:"period_is_active"`
	TeacherUserID int       `db:"teacher_user_id"`
	TeacherName   string    `db:"teacher_name"`
	TeacherEmail  string    `db:"teacher_email"`
	TeacherSpec   string    `db:"teacher_specialization"`
}

func (r groupRow) toGroup() course.Group {
	return course.Group{
		ID:          r.ID,
		CourseID:    r.CourseID,
		PeriodID:    r.PeriodID,
		TeacherID:   r.TeacherID,
		Name:        r.Name,
		MaxStudents: r.MaxStudents,
		Course: &course.Course{
			ID:            r.CourseID,
			Name:          r.CourseName,
			Code:          r.CourseCode,
			Description:   r.CourseDesc,
			Level:         r.CourseLevel,
			Modality:      r.CourseMod,
			DurationWeeks: r.CourseWeeks,
			HoursPerWeek:  r.CourseHours,
			IsActive:      r.CourseActive,
		},
		Period: &course.Period{
			ID:        r.PeriodID,
			Name:      r.PeriodName,
			StartDate: r.PeriodStart,
			EndDate:   r.PeriodEnd,
			IsActive:  r.PeriodActive,
		},
		Teacher: &course.TeacherInfo{
			ProfileID:      r.TeacherID,
			UserID:         r.TeacherUserID,
			FullName:       r.TeacherName,
			Email:          r.TeacherEmail,
			Specialization: r.TeacherSpec,
		},
	}
}

const groupQuery = `
	SELECT g.id, g.course_id, g.period_id, g.teacher_id, g.name, g.max_students,
	       c.name AS course_name, c.code AS course_code, c.description AS course_description,
	       c.level AS course_level, c.modality AS course_modality,
	       c.duration_weeks AS course_duration_weeks, c.hours_per_week AS course_hours_per_week,
	       c.is_active AS course_is_active,
	       p.name AS period_name, p.start_date AS period_start_date, p.end_date AS period_end_date,
	       p.is_active AS period_is_active,
	       u.id AS teacher_user_id, u.nombre_completo AS teacher_name, u.correo AS teacher_email,
	       tp.especializacion AS teacher_specialization
	FROM course_group g
	JOIN course c ON c.id = g.course_id
	JOIN period p ON p.id = g.period_id
	JOIN teacher_profile tp ON tp.id = g.teacher_id
	JOIN app_user u ON u.id = tp.user_id`

func (repo courseRepository) GetGroupByID(ctx context.Context, id int) (course.Group, error) {
	var row groupRow
	err := repo.db.GetContext(ctx, &row, groupQuery+` WHERE g.id = $1`, id)
	if err != nil {
		return course.Group{}, trapNoRowsErr(err, "getting course group")
	}
	return row.toGroup(), nil
}

func (repo courseRepository) FilterGroupsByTeacher(ctx context.Context, teacherProfileID int) ([]course.Group, error) {
	var rows []groupRow
	err := repo.db.SelectContext(ctx, &rows, groupQuery+` WHERE g.teacher_id = $1 ORDER BY g.id`, teacherProfileID)
	if err != nil {
		return nil, errors.Wrap(err, "filtering teacher groups")
	}
	groups := make([]course.Group, len(rows))
	for i, row := range rows {
		groups[i] = row.toGroup()
	}
	return groups, nil
}

type enrollmentRow struct {
	ID             int       `db:"id"`
	StudentID      int       `db:"student_id"`
	GroupID        int       `db:"group_id"`
	EnrollmentDate time.Time `db:"enrollment_date"`
	IsActive       bool      `db:"is_active"`
}

func (r enrollmentRow) toEnrollment() course.Enrollment {
	return course.Enrollment{
		ID:             r.ID,
		StudentID:      r.StudentID,
		GroupID:        r.GroupID,
		EnrollmentDate: r.EnrollmentDate,
		IsActive:       r.IsActive,
	}
}

func (repo courseRepository) FilterStudentEnrollments(ctx context.Context, studentProfileID int) ([]course.Enrollment, error) {
	var rows []enrollmentRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT id, student_id, group_id, enrollment_date, is_active
		FROM enrollment
		WHERE student_id = $1 AND is_active
		ORDER BY enrollment_date DESC`, studentProfileID)
	if err != nil {
		return nil, errors.Wrap(err, "filtering student enrollments")
	}

	enrollments := make([]course.Enrollment, len(rows))
	for i, row := range rows {
		enr := row.toEnrollment()
		group, err := repo.GetGroupByID(ctx, enr.GroupID)
		if err != nil {
			return nil, errors.Wrap(err, "loading enrollment group")
		}
		enr.Group = &group
		enrollments[i] = enr
	}
	return enrollments, nil
}

func (repo courseRepository) GetStudentEnrollment(ctx context.Context, enrollmentID, studentProfileID int) (course.Enrollment, error) {
	var row enrollmentRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT id, student_id, group_id, enrollment_date, is_active
		FROM enrollment
		WHERE id = $1 AND student_id = $2`, enrollmentID, studentProfileID)
	if err != nil {
		return course.Enrollment{}, trapNoRowsErr(err, "getting student enrollment")
	}
	enr := row.toEnrollment()
	group, err := repo.GetGroupByID(ctx, enr.GroupID)
	if err != nil {
		return course.Enrollment{}, errors.Wrap(err, "loading enrollment group")
	}
	enr.Group = &group
	return enr, nil
}

func (repo courseRepository) HasActiveEnrollment(ctx context.Context, studentProfileID, groupID int) (bool, error) {
	var exists bool
	err := repo.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM enrollment WHERE student_id = $1 AND group_id = $2 AND is_active)`,
		studentProfileID, groupID,
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "checking active enrollment")
	}
	return exists, nil
}

func (repo courseRepository) CountGroupEnrollments(ctx context.Context, groupID int, activeOnly bool) (int, error) {
	var count int
	err := repo.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM enrollment WHERE group_id = $1 AND (NOT $2 OR is_active)`,
		groupID, activeOnly,
	).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "counting group enrollments")
	}
	return count, nil
}

type scheduleRow struct {
	ID          int         `db:"id"`
	GroupID     int         `db:"group_id"`
	DayOfWeek   int         `db:"day_of_week"`
	StartTime   string      `db:"start_time"`
	EndTime     string      `db:"end_time"`
	ClassroomID null.Int    `db:"classroom_id"`
	Subject     string      `db:"subject"`
	RoomName    null.String `db:"room_name"`
	RoomCap     null.Int    `db:"room_capacity"`
	RoomLoc     null.String `db:"room_location"`
}

func (r scheduleRow) toSchedule() course.Schedule {
	s := course.Schedule{
		ID:          r.ID,
		GroupID:     r.GroupID,
		DayOfWeek:   r.DayOfWeek,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		ClassroomID: r.ClassroomID.Int,
		Subject:     r.Subject,
	}
	if r.ClassroomID.Valid {
		s.Classroom = &course.Classroom{
			ID:       r.ClassroomID.Int,
			Name:     r.RoomName.String,
			Capacity: r.RoomCap.Int,
			Location: r.RoomLoc.String,
		}
	}
	return s
}

const scheduleQuery = `
	SELECT s.id, s.group_id, s.day_of_week,
	       to_char(s.start_time, 'HH24:MI') AS start_time,
	       to_char(s.end_time, 'HH24:MI') AS end_time,
	       s.classroom_id, s.subject,
	       r.name AS room_name, r.capacity AS room_capacity, r.location AS room_location
	FROM schedule s
	LEFT JOIN classroom r ON r.id = s.classroom_id`

func (repo courseRepository) FilterGroupSchedules(ctx context.Context, groupID int) ([]course.Schedule, error) {
	var rows []scheduleRow
	err := repo.db.SelectContext(ctx, &rows, scheduleQuery+`
		WHERE s.group_id = $1
		ORDER BY s.day_of_week, s.start_time`, groupID)
	if err != nil {
		return nil, errors.Wrap(err, "filtering group schedules")
	}
	schedules := make([]course.Schedule, len(rows))
	for i, row := range rows {
		schedules[i] = row.toSchedule()
	}
	return schedules, nil
}

type gradeRow struct {
	ID            int       `db:"id"`
	EnrollmentID  int       `db:"enrollment_id"`
	GradeType     string    `db:"grade_type"`
	Subject       string    `db:"subject"`
	ObtainedScore float64   `db:"obtained_score"`
	MaxScore      float64   `db:"max_score"`
	Date          time.Time `db:"date"`
	Comments      string    `db:"comments"`
}

func (repo courseRepository) FilterEnrollmentGrades(ctx context.Context, enrollmentID int) ([]course.Grade, error) {
	var rows []gradeRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT id, enrollment_id, grade_type, subject, obtained_score, max_score, date, comments
		FROM grade
		WHERE enrollment_id = $1
		ORDER BY date DESC, id DESC`, enrollmentID)
	if err != nil {
		return nil, errors.Wrap(err, "filtering enrollment grades")
	}
	grades := make([]course.Grade, len(rows))
	for i, row := range rows {
		grades[i] = course.Grade(row)
	}
	return grades, nil
}

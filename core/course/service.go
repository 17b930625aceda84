package course

import (
	"context"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

var ErrNotFound = core.ErrNotFound

type (
	Repository interface {
		// GetGroupByID loads a group with its course, period and teacher.
		GetGroupByID(ctx context.Context, id int) (Group, error)
		FilterGroupsByTeacher(ctx context.Context, teacherProfileID int) ([]Group, error)

		// FilterStudentEnrollments returns the student's active enrollments
		// with their group graphs, newest first.
		FilterStudentEnrollments(ctx context.Context, studentProfileID int) ([]Enrollment, error)
		// GetStudentEnrollment resolves an enrollment id scoped to the given
		// student; any other student's enrollment yields ErrNotFound.
		GetStudentEnrollment(ctx context.Context, enrollmentID, studentProfileID int) (Enrollment, error)
		// HasActiveEnrollment reports whether the student is actively enrolled
		// in the group.
		HasActiveEnrollment(ctx context.Context, studentProfileID, groupID int) (bool, error)
		CountGroupEnrollments(ctx context.Context, groupID int, activeOnly bool) (int, error)

		// FilterGroupSchedules returns schedules ordered by day then start time.
		FilterGroupSchedules(ctx context.Context, groupID int) ([]Schedule, error)
		// FilterEnrollmentGrades returns grades newest first.
		FilterEnrollmentGrades(ctx context.Context, enrollmentID int) ([]Grade, error)
	}

	// Detail bundles everything a student sees about one of their courses.
	Detail struct {
		Group      Group      `json:"course_group"`
		Schedules  []Schedule `json:"schedules"`
		Grades     []Grade    `json:"grades"`
		Enrollment Enrollment `json:"enrollment"`
	}

	Service interface {
		StudentEnrollments(ctx context.Context, student user.StudentProfile) ([]Enrollment, error)
		StudentGrades(ctx context.Context, student user.StudentProfile, enrollmentID int) ([]Grade, error)
		EnrollmentSchedules(ctx context.Context, student user.StudentProfile, enrollmentID int) ([]Schedule, error)
		CourseDetail(ctx context.Context, student user.StudentProfile, enrollmentID int) (Detail, error)
		TeacherGroups(ctx context.Context, teacher user.TeacherProfile) ([]Group, error)
		GetGroup(ctx context.Context, id int) (Group, error)
		GroupSchedules(ctx context.Context, groupID int) ([]Schedule, error)
		CountGroupEnrollments(ctx context.Context, groupID int, activeOnly bool) (int, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) StudentEnrollments(ctx context.Context, student user.StudentProfile) ([]Enrollment, error) {
	return svc.repo.FilterStudentEnrollments(ctx, student.ID)
}

func (svc *service) StudentGrades(ctx context.Context, student user.StudentProfile, enrollmentID int) ([]Grade, error) {
	enr, err := svc.repo.GetStudentEnrollment(ctx, enrollmentID, student.ID)
	if err != nil {
		return nil, err
	}
	return svc.repo.FilterEnrollmentGrades(ctx, enr.ID)
}

func (svc *service) EnrollmentSchedules(ctx context.Context, student user.StudentProfile, enrollmentID int) ([]Schedule, error) {
	enr, err := svc.repo.GetStudentEnrollment(ctx, enrollmentID, student.ID)
	if err != nil {
		return nil, err
	}
	return svc.repo.FilterGroupSchedules(ctx, enr.GroupID)
}

func (svc *service) CourseDetail(ctx context.Context, student user.StudentProfile, enrollmentID int) (Detail, error) {
	enr, err := svc.repo.GetStudentEnrollment(ctx, enrollmentID, student.ID)
	if err != nil {
		return Detail{}, err
	}
	group, err := svc.repo.GetGroupByID(ctx, enr.GroupID)
	if err != nil {
		return Detail{}, err
	}
	schedules, err := svc.repo.FilterGroupSchedules(ctx, group.ID)
	if err != nil {
		return Detail{}, err
	}
	grades, err := svc.repo.FilterEnrollmentGrades(ctx, enr.ID)
	if err != nil {
		return Detail{}, err
	}
	return Detail{
		Group:      group,
		Schedules:  schedules,
		Grades:     grades,
		Enrollment: enr,
	}, nil
}

func (svc *service) TeacherGroups(ctx context.Context, teacher user.TeacherProfile) ([]Group, error) {
	return svc.repo.FilterGroupsByTeacher(ctx, teacher.ID)
}

func (svc *service) GetGroup(ctx context.Context, id int) (Group, error) {
	return svc.repo.GetGroupByID(ctx, id)
}

func (svc *service) GroupSchedules(ctx context.Context, groupID int) ([]Schedule, error) {
	return svc.repo.FilterGroupSchedules(ctx, groupID)
}

func (svc *service) CountGroupEnrollments(ctx context.Context, groupID int, activeOnly bool) (int, error) {
	return svc.repo.CountGroupEnrollments(ctx, groupID, activeOnly)
}

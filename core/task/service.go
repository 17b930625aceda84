package task

import (
	"context"
	"time"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/course"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

var ErrNotFound = core.ErrNotFound

const dateLayout = "2006-01-02"

// parseDueDate accepts a full RFC 3339 datetime or a bare date, which reads
// as midnight UTC.
func parseDueDate(s string) (time.Time, error) {
	if due, err := time.Parse(time.RFC3339, s); err == nil {
		return due, nil
	}
	return time.Parse(dateLayout, s)
}

type (
	// NewTask contains the information a teacher provides to assign a task.
	NewTask struct {
		GroupID     int     `json:"course_group" validate:"required"`
		Title       string  `json:"title" validate:"required,max=200"`
		Description string  `json:"description"`
		DueDate     string  `json:"due_date" validate:"required"`
		MaxScore    float64 `json:"max_score" validate:"gte=0"`
	}

	// NewSubmission is a student's answer; resubmitting replaces the
	// previous one.
	NewSubmission struct {
		Content string `json:"content"`
		FileRef string `json:"file"`
	}

	// GradeSubmission carries a teacher's score and feedback.
	GradeSubmission struct {
		Score    float64 `json:"score" validate:"gte=0"`
		Feedback string  `json:"feedback"`
	}

	// StudentTask pairs a task with the student's own submission, if any.
	StudentTask struct {
		Task       Task
		Submission *Submission
	}

	// TeacherTask pairs a task with its submission progress.
	TeacherTask struct {
		Task          Task
		TotalStudents int
		Submitted     int
	}

	Repository interface {
		CreateTask(ctx context.Context, t *Task) error
		// GetTaskByID loads a task with its group.
		GetTaskByID(ctx context.Context, id int) (Task, error)
		// FilterStudentTasks returns active tasks of the student's active
		// enrollments, each with the student's submission when present,
		// soonest due first.
		FilterStudentTasks(ctx context.Context, studentProfileID int) ([]StudentTask, error)
		// GetStudentTask resolves a task scoped to the student's active
		// enrollments; anything else yields ErrNotFound.
		GetStudentTask(ctx context.Context, taskID, studentProfileID int) (StudentTask, error)
		// GetTaskEnrollment resolves the student's active enrollment in the
		// task's group; absence yields ErrNotFound.
		GetTaskEnrollment(ctx context.Context, taskID, studentProfileID int) (course.Enrollment, error)
		UpsertSubmission(ctx context.Context, sub *Submission) error
		// FilterTeacherTasks returns the teacher's tasks with enrollment and
		// submission counts, newest first.
		FilterTeacherTasks(ctx context.Context, teacherProfileID int) ([]TeacherTask, error)
		// FilterTaskSubmissions returns a task's submissions with student
		// names, newest first.
		FilterTaskSubmissions(ctx context.Context, taskID int) ([]Submission, error)
		GetSubmissionByID(ctx context.Context, id int) (Submission, error)
		UpdateSubmissionGrade(ctx context.Context, id int, score float64, feedback string) error
	}

	// GroupGetter resolves course groups; satisfied by course.Service.
	GroupGetter interface {
		GetGroup(ctx context.Context, id int) (course.Group, error)
	}

	Service interface {
		Create(ctx context.Context, teacher user.User, nt NewTask) (Task, error)
		StudentTasks(ctx context.Context, student user.StudentProfile) ([]StudentTask, error)
		StudentTaskDetail(ctx context.Context, student user.StudentProfile, taskID int) (StudentTask, error)
		Submit(ctx context.Context, student user.StudentProfile, taskID int, ns NewSubmission) (Submission, error)
		TeacherTasks(ctx context.Context, teacherProfile user.TeacherProfile) ([]TeacherTask, error)
		TaskSubmissions(ctx context.Context, teacher user.User, taskID int) (Task, []Submission, error)
		Grade(ctx context.Context, teacher user.User, submissionID int, gs GradeSubmission) error
	}

	service struct {
		repo   Repository
		groups GroupGetter
		nowFn  func() time.Time
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, groups GroupGetter) Service {
	return &service{repo: repo, groups: groups, nowFn: time.Now}
}

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

func (svc *service) Create(ctx context.Context, teacher user.User, nt NewTask) (Task, error) {
	if err := core.Validate.Struct(nt); err != nil {
		return Task{}, err
	}
	due, err := parseDueDate(nt.DueDate)
	if err != nil {
		return Task{}, core.NewValidationError(nil, core.FieldError{Field: "due_date", Error: "invalid date, expected RFC 3339 or YYYY-MM-DD"})
	}
	if _, err = svc.ownedGroup(ctx, teacher, nt.GroupID); err != nil {
		return Task{}, err
	}

	t := Task{
		GroupID:     nt.GroupID,
		Title:       core.CleanString(nt.Title),
		Description: core.CleanString(nt.Description),
		DueDate:     due,
		MaxScore:    nt.MaxScore,
		IsActive:    true,
	}
	if err = svc.repo.CreateTask(ctx, &t); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (svc *service) StudentTasks(ctx context.Context, student user.StudentProfile) ([]StudentTask, error) {
	return svc.repo.FilterStudentTasks(ctx, student.ID)
}

func (svc *service) StudentTaskDetail(ctx context.Context, student user.StudentProfile, taskID int) (StudentTask, error) {
	return svc.repo.GetStudentTask(ctx, taskID, student.ID)
}

// Submit records or replaces the student's submission. Submitting past the
// due date is allowed and surfaces as a late status.
func (svc *service) Submit(ctx context.Context, student user.StudentProfile, taskID int, ns NewSubmission) (Submission, error) {
	enr, err := svc.repo.GetTaskEnrollment(ctx, taskID, student.ID)
	if err != nil {
		return Submission{}, err
	}

	sub := Submission{
		TaskID:       taskID,
		EnrollmentID: enr.ID,
		Content:      core.CleanString(ns.Content),
		FileRef:      core.CleanString(ns.FileRef),
		SubmittedAt:  svc.nowFn().UTC(),
	}
	if err = svc.repo.UpsertSubmission(ctx, &sub); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

func (svc *service) TeacherTasks(ctx context.Context, teacherProfile user.TeacherProfile) ([]TeacherTask, error) {
	return svc.repo.FilterTeacherTasks(ctx, teacherProfile.ID)
}

func (svc *service) TaskSubmissions(ctx context.Context, teacher user.User, taskID int) (Task, []Submission, error) {
	t, err := svc.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		return Task{}, nil, err
	}
	if _, err = svc.ownedGroup(ctx, teacher, t.GroupID); err != nil {
		return Task{}, nil, err
	}
	subs, err := svc.repo.FilterTaskSubmissions(ctx, taskID)
	if err != nil {
		return Task{}, nil, err
	}
	return t, subs, nil
}

func (svc *service) Grade(ctx context.Context, teacher user.User, submissionID int, gs GradeSubmission) error {
	if err := core.Validate.Struct(gs); err != nil {
		return err
	}
	sub, err := svc.repo.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return err
	}
	t, err := svc.repo.GetTaskByID(ctx, sub.TaskID)
	if err != nil {
		return err
	}
	if _, err = svc.ownedGroup(ctx, teacher, t.GroupID); err != nil {
		return err
	}
	if gs.Score > t.MaxScore {
		return core.NewValidationError(nil, core.FieldError{Field: "score", Error: "score cannot exceed the task's max score"})
	}
	return svc.repo.UpdateSubmissionGrade(ctx, submissionID, gs.Score, core.CleanString(gs.Feedback))
}

package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/course"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/task"
)

type taskRepository struct {
	db      *sqlx.DB
	courses *courseRepository
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *sqlx.DB) *taskRepository {
	return &taskRepository{db: db, courses: NewCourseRepository(db)}
}

type taskRow struct {
	ID          int       `db:"id"`
	GroupID     int       `db:"group_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	DueDate     time.Time `db:"due_date"`
	MaxScore    float64   `db:"max_score"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r taskRow) toTask() task.Task {
	return task.Task{
		ID:          r.ID,
		GroupID:     r.GroupID,
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		MaxScore:    r.MaxScore,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
	}
}

type submissionRow struct {
	ID           int          `db:"id"`
	TaskID       int          `db:"task_id"`
	EnrollmentID int          `db:"enrollment_id"`
	Content      string       `db:"content"`
	FileRef      string       `db:"file_ref"`
	SubmittedAt  time.Time    `db:"submitted_at"`
	Score        null.Float64 `db:"score"`
	Feedback     string       `db:"feedback"`
	StudentName  null.String  `db:"student_name"`
}

func (r submissionRow) toSubmission() task.Submission {
	return task.Submission{
		ID:           r.ID,
		TaskID:       r.TaskID,
		EnrollmentID: r.EnrollmentID,
		Content:      r.Content,
		FileRef:      r.FileRef,
		SubmittedAt:  r.SubmittedAt,
		Score:        r.Score.Ptr(),
		Feedback:     r.Feedback,
		StudentName:  r.StudentName.String,
	}
}

const taskCols = `id, group_id, title, description, due_date, max_score, is_active, created_at`

func (repo taskRepository) CreateTask(ctx context.Context, t *task.Task) error {
	err := repo.db.QueryRowContext(ctx, `
		INSERT INTO task (group_id, title, description, due_date, max_score, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		t.GroupID, t.Title, t.Description, t.DueDate, t.MaxScore, t.IsActive,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "inserting task")
	}
	return nil
}

func (repo taskRepository) GetTaskByID(ctx context.Context, id int) (task.Task, error) {
	var row taskRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+taskCols+` FROM task WHERE id = $1`, id)
	if err != nil {
		return task.Task{}, trapNoRowsErr(err, "getting task")
	}
	t := row.toTask()
	group, err := repo.courses.GetGroupByID(ctx, t.GroupID)
	if err != nil {
		return task.Task{}, errors.Wrap(err, "loading task group")
	}
	t.Group = &group
	return t, nil
}

// studentTaskRow joins a task with the student's enrollment and submission.
type studentTaskRow struct {
	taskRow
	EnrollmentID int          `db:"enrollment_id"`
	SubID        null.Int     `db:"sub_id"`
	SubContent   null.String  `db:"sub_content"`
	SubFileRef   null.String  `db:"sub_file_ref"`
	SubTime      null.Time    `db:"sub_submitted_at"`
	SubScore     null.Float64 `db:"sub_score"`
	SubFeedback  null.String  `db:"sub_feedback"`
}

func (r studentTaskRow) toStudentTask() task.StudentTask {
	st := task.StudentTask{Task: r.toTask()}
	if r.SubID.Valid {
		st.Submission = &task.Submission{
			ID:           r.SubID.Int,
			TaskID:       r.ID,
			EnrollmentID: r.EnrollmentID,
			Content:      r.SubContent.String,
			FileRef:      r.SubFileRef.String,
			SubmittedAt:  r.SubTime.Time,
			Score:        r.SubScore.Ptr(),
			Feedback:     r.SubFeedback.String,
		}
	}
	return st
}

const studentTaskQuery = `
	SELECT t.id, t.group_id, t.title, t.description, t.due_date, t.max_score, t.is_active, t.created_at,
	       e.id AS enrollment_id,
	       s.id AS sub_id, s.content AS sub_content, s.file_ref AS sub_file_ref,
	       s.submitted_at AS sub_submitted_at, s.score AS sub_score, s.feedback AS sub_feedback
	FROM task t
	JOIN enrollment e ON e.group_id = t.group_id AND e.is_active
	LEFT JOIN submission s ON s.task_id = t.id AND s.enrollment_id = e.id
	WHERE t.is_active AND e.student_id = $1`

func (repo taskRepository) FilterStudentTasks(ctx context.Context, studentProfileID int) ([]task.StudentTask, error) {
	var rows []studentTaskRow
	err := repo.db.SelectContext(ctx, &rows, studentTaskQuery+` ORDER BY t.due_date, t.id`, studentProfileID)
	if err != nil {
		return nil, errors.Wrap(err, "filtering student tasks")
	}
	tasks := make([]task.StudentTask, len(rows))
	for i, row := range rows {
		st := row.toStudentTask()
		group, err := repo.courses.GetGroupByID(ctx, st.Task.GroupID)
		if err != nil {
			return nil, errors.Wrap(err, "loading task group")
		}
		st.Task.Group = &group
		tasks[i] = st
	}
	return tasks, nil
}

func (repo taskRepository) GetStudentTask(ctx context.Context, taskID, studentProfileID int) (task.StudentTask, error) {
	var row studentTaskRow
	err := repo.db.GetContext(ctx, &row, studentTaskQuery+` AND t.id = $2`, studentProfileID, taskID)
	if err != nil {
		return task.StudentTask{}, trapNoRowsErr(err, "getting student task")
	}
	st := row.toStudentTask()
	group, err := repo.courses.GetGroupByID(ctx, st.Task.GroupID)
	if err != nil {
		return task.StudentTask{}, errors.Wrap(err, "loading task group")
	}
	st.Task.Group = &group
	return st, nil
}

func (repo taskRepository) GetTaskEnrollment(ctx context.Context, taskID, studentProfileID int) (course.Enrollment, error) {
	var row enrollmentRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT e.id, e.student_id, e.group_id, e.enrollment_date, e.is_active
		FROM enrollment e
		JOIN task t ON t.group_id = e.group_id
		WHERE t.id = $1 AND t.is_active AND e.student_id = $2 AND e.is_active`, taskID, studentProfileID)
	if err != nil {
		return course.Enrollment{}, trapNoRowsErr(err, "getting task enrollment")
	}
	return row.toEnrollment(), nil
}

func (repo taskRepository) UpsertSubmission(ctx context.Context, sub *task.Submission) error {
	err := repo.db.QueryRowContext(ctx, `
		INSERT INTO submission (task_id, enrollment_id, content, file_ref, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (task_id, enrollment_id)
		DO UPDATE SET content = EXCLUDED.content, file_ref = EXCLUDED.file_ref,
		              submitted_at = EXCLUDED.submitted_at, score = NULL, feedback = ''
		RETURNING id`,
		sub.TaskID, sub.EnrollmentID, sub.Content, sub.FileRef, sub.SubmittedAt,
	).Scan(&sub.ID)
	if err != nil {
		return errors.Wrap(err, "upserting submission")
	}
	return nil
}

func (repo taskRepository) FilterTeacherTasks(ctx context.Context, teacherProfileID int) ([]task.TeacherTask, error) {
	type teacherTaskRow struct {
		taskRow
		TotalStudents int `db:"total_students"`
		Submitted     int `db:"submitted"`
	}
	var rows []teacherTaskRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT t.id, t.group_id, t.title, t.description, t.due_date, t.max_score, t.is_active, t.created_at,
		       (SELECT COUNT(*) FROM enrollment e WHERE e.group_id = t.group_id AND e.is_active) AS total_students,
		       (SELECT COUNT(*) FROM submission s WHERE s.task_id = t.id) AS submitted
		FROM task t
		JOIN course_group g ON g.id = t.group_id
		WHERE g.teacher_id = $1
		ORDER BY t.created_at DESC`, teacherProfileID)
	if err != nil {
		return nil, errors.Wrap(err, "filtering teacher tasks")
	}

	tasks := make([]task.TeacherTask, len(rows))
	for i, row := range rows {
		tt := task.TeacherTask{
			Task:          row.toTask(),
			TotalStudents: row.TotalStudents,
			Submitted:     row.Submitted,
		}
		group, err := repo.courses.GetGroupByID(ctx, tt.Task.GroupID)
		if err != nil {
			return nil, errors.Wrap(err, "loading task group")
		}
		tt.Task.Group = &group
		tasks[i] = tt
	}
	return tasks, nil
}

func (repo taskRepository) FilterTaskSubmissions(ctx context.Context, taskID int) ([]task.Submission, error) {
	var rows []submissionRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT s.id, s.task_id, s.enrollment_id, s.content, s.file_ref, s.submitted_at, s.score, s.feedback,
		       u.nombre_completo AS student_name
		FROM submission s
		JOIN enrollment e ON e.id = s.enrollment_id
		JOIN student_profile sp ON sp.id = e.student_id
		JOIN app_user u ON u.id = sp.user_id
		WHERE s.task_id = $1
		ORDER BY s.submitted_at DESC`, taskID)
	if err != nil {
		return nil, errors.Wrap(err, "filtering task submissions")
	}
	subs := make([]task.Submission, len(rows))
	for i, row := range rows {
		subs[i] = row.toSubmission()
	}
	return subs, nil
}

func (repo taskRepository) GetSubmissionByID(ctx context.Context, id int) (task.Submission, error) {
	var row submissionRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT id, task_id, enrollment_id, content, file_ref, submitted_at, score, feedback,
		       NULL AS student_name
		FROM submission WHERE id = $1`, id)
	if err != nil {
		return task.Submission{}, trapNoRowsErr(err, "getting submission")
	}
	return row.toSubmission(), nil
}

func (repo taskRepository) UpdateSubmissionGrade(ctx context.Context, id int, score float64, feedback string) error {
	res, err := repo.db.ExecContext(ctx, `
		UPDATE submission SET score = $2, feedback = $3 WHERE id = $1`, id, score, feedback)
	if err != nil {
		return errors.Wrap(err, "grading submission")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return task.ErrNotFound
	}
	return nil
}

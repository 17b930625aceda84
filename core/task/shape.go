package task

import (
	"time"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/course"
)

type (
	SubmissionDetail struct {
		ID          int      `json:"id"`
		Content     string   `json:"content,omitempty"`
		FileRef     string   `json:"file,omitempty"`
		SubmittedAt string   `json:"submitted_at"`
		Score       *float64 `json:"score,omitempty"`
		Feedback    string   `json:"feedback,omitempty"`
		StudentName string   `json:"student_name,omitempty"`
	}

	// StudentTaskDetail is a task as one student sees it, with the derived
	// status and their own submission.
	StudentTaskDetail struct {
		ID            int                  `json:"id"`
		Title         string               `json:"title"`
		Description   string               `json:"description,omitempty"`
		DueDate       string               `json:"due_date"`
		MaxScore      float64              `json:"max_score"`
		Status        string               `json:"status"`
		StatusDisplay string               `json:"status_display"`
		DaysRemaining int                  `json:"days_remaining"`
		IsOverdue     bool                 `json:"is_overdue"`
		Group         *course.GroupSummary `json:"course_group,omitempty"`
		Submission    *SubmissionDetail    `json:"submission,omitempty"`
	}

	// TeacherTaskDetail is a task with its submission progress counts.
	TeacherTaskDetail struct {
		ID            int                  `json:"id"`
		Title         string               `json:"title"`
		Description   string               `json:"description,omitempty"`
		DueDate       string               `json:"due_date"`
		MaxScore      float64              `json:"max_score"`
		IsActive      bool                 `json:"is_active"`
		TotalStudents int                  `json:"total_students"`
		Submitted     int                  `json:"submitted"`
		Pending       int                  `json:"pending"`
		Group         *course.GroupSummary `json:"course_group,omitempty"`
	}
)

func ShapeSubmission(s Submission) SubmissionDetail {
	return SubmissionDetail{
		ID:          s.ID,
		Content:     s.Content,
		FileRef:     s.FileRef,
		SubmittedAt: s.SubmittedAt.Format(time.RFC3339),
		Score:       s.Score,
		Feedback:    s.Feedback,
		StudentName: s.StudentName,
	}
}

func ShapeSubmissions(subs []Submission) []SubmissionDetail {
	out := make([]SubmissionDetail, len(subs))
	for i, s := range subs {
		out[i] = ShapeSubmission(s)
	}
	return out
}

// ShapeStudentTask derives the status against now and embeds the submission.
func ShapeStudentTask(st StudentTask, now time.Time) StudentTaskDetail {
	d := StudentTaskDetail{
		ID:            st.Task.ID,
		Title:         st.Task.Title,
		Description:   st.Task.Description,
		DueDate:       st.Task.DueDate.Format(time.RFC3339),
		MaxScore:      st.Task.MaxScore,
		Status:        DeriveStatus(st.Task.DueDate, now, st.Submission),
		DaysRemaining: DaysRemaining(st.Task.DueDate, now),
		IsOverdue:     IsOverdue(st.Task.DueDate, now),
	}
	d.StatusDisplay = StatusLabel(d.Status)
	if st.Task.Group != nil {
		g := course.ShapeGroup(*st.Task.Group)
		d.Group = &g
	}
	if st.Submission != nil {
		s := ShapeSubmission(*st.Submission)
		d.Submission = &s
	}
	return d
}

// ShapeStudentTasks always yields a non-nil slice so an empty result
// serializes as [].
func ShapeStudentTasks(tasks []StudentTask, now time.Time) []StudentTaskDetail {
	out := make([]StudentTaskDetail, len(tasks))
	for i, st := range tasks {
		out[i] = ShapeStudentTask(st, now)
	}
	return out
}

func ShapeTeacherTask(tt TeacherTask) TeacherTaskDetail {
	d := TeacherTaskDetail{
		ID:            tt.Task.ID,
		Title:         tt.Task.Title,
		Description:   tt.Task.Description,
		DueDate:       tt.Task.DueDate.Format(time.RFC3339),
		MaxScore:      tt.Task.MaxScore,
		IsActive:      tt.Task.IsActive,
		TotalStudents: tt.TotalStudents,
		Submitted:     tt.Submitted,
		Pending:       tt.TotalStudents - tt.Submitted,
	}
	if tt.Task.Group != nil {
		g := course.ShapeGroup(*tt.Task.Group)
		d.Group = &g
	}
	return d
}

func ShapeTeacherTasks(tasks []TeacherTask) []TeacherTaskDetail {
	out := make([]TeacherTaskDetail, len(tasks))
	for i, tt := range tasks {
		out[i] = ShapeTeacherTask(tt)
	}
	return out
}

package task

import (
	"time"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/course"
)

type Task struct {
	ID          int       `json:"id"`
	GroupID     int       `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	MaxScore    float64   `json:"max_score"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`

	Group *course.Group `json:"course_group,omitempty"`
}

// Submission is a student's answer to a Task; unique per task and
// enrollment, resubmitting replaces it in place.
type Submission struct {
	ID           int       `json:"id"`
	TaskID       int       `json:"-"`
	EnrollmentID int       `json:"-"`
	Content      string    `json:"content,omitempty"`
	FileRef      string    `json:"file,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`
	Score        *float64  `json:"score,omitempty"`
	Feedback     string    `json:"feedback,omitempty"`

	// populated on joined teacher queries
	StudentName string `json:"student_name,omitempty"`
}

// Late reports whether the submission arrived after the task's due date.
func (s Submission) Late(due time.Time) bool {
	return s.SubmittedAt.After(due)
}

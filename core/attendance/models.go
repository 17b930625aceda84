package attendance

import (
	"time"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/course"
)

// Attendance statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusExcused = "excused"
)

var (
	AllStatuses = []string{StatusPresent, StatusAbsent, StatusLate, StatusExcused}

	statusLabels = map[string]string{
		StatusPresent: "Presente",
		StatusAbsent:  "Ausente",
		StatusLate:    "Atrasado",
		StatusExcused: "Justificado",
	}
)

func StatusLabel(status string) string {
	return statusLabels[status]
}

// Session is one held class meeting; unique per group, schedule and date.
type Session struct {
	ID         int       `json:"id"`
	GroupID    int       `json:"-"`
	ScheduleID int       `json:"-"`
	Date       time.Time `json:"date"`
	StartTime  string    `json:"start_time"` // HH:MM
	EndTime    string    `json:"end_time"`   // HH:MM
	Topic      string    `json:"topic,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	Group    *course.Group    `json:"course_group,omitempty"`
	Schedule *course.Schedule `json:"schedule,omitempty"`
}

// Attendance is a student's status for one session; unique per session
// and enrollment.
type Attendance struct {
	ID           int       `json:"id"`
	SessionID    int       `json:"-"`
	EnrollmentID int       `json:"-"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
	RecordedAt   time.Time `json:"recorded_at"`

	Session    *Session           `json:"session,omitempty"`
	Enrollment *course.Enrollment `json:"enrollment,omitempty"`
}

// MarkItem is one row of a batch attendance submission.
type MarkItem struct {
	EnrollmentID int    `json:"enrollment_id" validate:"required"`
	Status       string `json:"status" validate:"required,attendance_status"`
	Notes        string `json:"notes"`
}

// MarkResult reports the outcome of one MarkItem; failed items carry Error
// and leave the batch's remaining items unaffected.
type MarkResult struct {
	EnrollmentID int    `json:"enrollment_id"`
	OK           bool   `json:"ok"`
	Error        string `json:"error,omitempty"`
}

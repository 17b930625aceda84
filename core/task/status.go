package task

import "time"

// Task statuses, derived per student at read time.
const (
	StatusOverdue       = "overdue"
	StatusDueToday      = "due_today"
	StatusUrgent        = "urgent"
	StatusPending       = "pending"
	StatusSubmitted     = "submitted"
	StatusSubmittedLate = "submitted_late"
)

// urgentWindowDays is the cutoff within which an unsubmitted task is urgent.
const urgentWindowDays = 3

var statusLabels = map[string]string{
	StatusOverdue:       "Vencida",
	StatusDueToday:      "Vence hoy",
	StatusUrgent:        "Urgente",
	StatusPending:       "Pendiente",
	StatusSubmitted:     "Entregada",
	StatusSubmittedLate: "Entregada con retraso",
}

func StatusLabel(status string) string {
	return statusLabels[status]
}

// DaysRemaining counts whole calendar days from now's date to due's date.
// Negative once the due date has passed.
func DaysRemaining(due, now time.Time) int {
	d := midnight(due)
	n := midnight(now)
	return int(d.Sub(n).Hours() / 24)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DeriveStatus resolves a task's status for one student. A submission always
// wins over deadline-based statuses; an unsubmitted task escalates as the
// due date approaches. The overdue cutoff is the full due datetime, so a
// task due earlier today is already overdue; the remaining rungs compare
// calendar days.
func DeriveStatus(due, now time.Time, sub *Submission) string {
	if sub != nil {
		if sub.Late(due) {
			return StatusSubmittedLate
		}
		return StatusSubmitted
	}

	if due.Before(now) {
		return StatusOverdue
	}
	switch days := DaysRemaining(due, now); {
	case days == 0:
		return StatusDueToday
	case days <= urgentWindowDays:
		return StatusUrgent
	default:
		return StatusPending
	}
}

// IsOverdue reports whether the due datetime has passed, submitted or not.
func IsOverdue(due, now time.Time) bool {
	return due.Before(now)
}

package task

import (
	"testing"
	"time"
)

func TestShapeStudentTask(t *testing.T) {
	due := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	tsk := Task{ID: 4, Title: "Essay", DueDate: due, MaxScore: 20}

	t.Run("past due", func(t *testing.T) {
		got := ShapeStudentTask(StudentTask{Task: tsk}, due.Add(2*time.Hour))
		if got.Status != StatusOverdue {
			t.Errorf("Status = %s, want %s", got.Status, StatusOverdue)
		}
		if !got.IsOverdue {
			t.Error("IsOverdue = false, want true")
		}
		if got.DaysRemaining != 0 {
			t.Errorf("DaysRemaining = %d, want 0", got.DaysRemaining)
		}
		if got.DueDate != due.Format(time.RFC3339) {
			t.Errorf("DueDate = %s", got.DueDate)
		}
	})

	t.Run("submitted", func(t *testing.T) {
		sub := &Submission{ID: 9, SubmittedAt: due.Add(-time.Hour)}
		got := ShapeStudentTask(StudentTask{Task: tsk, Submission: sub}, due.Add(2*time.Hour))
		if got.Status != StatusSubmitted {
			t.Errorf("Status = %s, want %s", got.Status, StatusSubmitted)
		}
		// is_overdue tracks the deadline alone, not the submission
		if !got.IsOverdue {
			t.Error("IsOverdue = false, want true")
		}
		if got.Submission == nil || got.Submission.ID != 9 {
			t.Errorf("Submission = %+v", got.Submission)
		}
	})

	t.Run("upcoming", func(t *testing.T) {
		got := ShapeStudentTask(StudentTask{Task: tsk}, due.AddDate(0, 0, -2))
		if got.Status != StatusUrgent {
			t.Errorf("Status = %s, want %s", got.Status, StatusUrgent)
		}
		if got.IsOverdue {
			t.Error("IsOverdue = true, want false")
		}
		if got.DaysRemaining != 2 {
			t.Errorf("DaysRemaining = %d, want 2", got.DaysRemaining)
		}
	})
}

package task

import (
	"testing"
	"time"
)

func TestDeriveStatus(t *testing.T) {
	due := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time { return due.AddDate(0, 0, -offset) }

	onTime := &Submission{SubmittedAt: due.Add(-time.Hour)}
	late := &Submission{SubmittedAt: due.Add(time.Hour)}

	tests := []struct {
		name string
		now  time.Time
		sub  *Submission
		want string
	}{
		{name: "submitted on time", now: day(0), sub: onTime, want: StatusSubmitted},
		{name: "submitted late", now: day(0), sub: late, want: StatusSubmittedLate},
		{name: "submission wins over overdue", now: due.AddDate(0, 0, 5), sub: onTime, want: StatusSubmitted},
		{name: "overdue", now: due.AddDate(0, 0, 1), want: StatusOverdue},
		// the full due datetime governs overdue, not the calendar date
		{name: "due earlier today is overdue", now: due.Add(time.Hour), want: StatusOverdue},
		{name: "due today", now: due.Add(-6 * time.Hour), want: StatusDueToday},
		{name: "urgent at one day", now: day(1), want: StatusUrgent},
		{name: "urgent at three days", now: day(3), want: StatusUrgent},
		{name: "pending at four days", now: day(4), want: StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveStatus(due, tt.now, tt.sub); got != tt.want {
				t.Errorf("DeriveStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDaysRemaining(t *testing.T) {
	due := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		// time of day never matters, only dates
		{name: "same day later hour", now: time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC), want: 0},
		{name: "day before", now: time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC), want: 1},
		{name: "day after", now: time.Date(2025, 3, 11, 0, 1, 0, 0, time.UTC), want: -1},
		{name: "week before", now: time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC), want: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysRemaining(due, tt.now); got != tt.want {
				t.Errorf("DaysRemaining() = %d, want %d", got, tt.want)
			}
		})
	}

	if !IsOverdue(due, due.AddDate(0, 0, 2)) {
		t.Error("IsOverdue() = false, want true")
	}
	if !IsOverdue(due, due.Add(time.Hour)) {
		t.Error("IsOverdue() an hour past due = false, want true")
	}
	if IsOverdue(due, due.Add(-time.Hour)) {
		t.Error("IsOverdue() before the due time = true, want false")
	}
}

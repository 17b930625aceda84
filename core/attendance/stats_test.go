package attendance

import (
	"testing"
	"time"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/course"
)

func record(status string, date time.Time, subject string) Attendance {
	return Attendance{
		Status: status,
		Session: &Session{
			Date:     date,
			Schedule: &course.Schedule{Subject: subject},
		},
	}
}

func TestSummarize(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		records []Attendance
		want    Summary
	}{
		{name: "empty", records: nil, want: Summary{}},
		{
			name: "only present counts toward the percentage",
			records: []Attendance{
				record(StatusPresent, day, "A"),
				record(StatusLate, day, "A"),
				record(StatusAbsent, day, "A"),
				record(StatusExcused, day, "A"),
			},
			want: Summary{TotalSessions: 4, Present: 1, Absent: 1, Late: 1, Excused: 1, AttendancePercentage: 25.0},
		},
		{
			name:    "a lone late record scores zero",
			records: []Attendance{record(StatusLate, day, "A")},
			want:    Summary{TotalSessions: 1, Late: 1, AttendancePercentage: 0.0},
		},
		{
			name: "rounds to one decimal",
			records: []Attendance{
				record(StatusPresent, day, "A"),
				record(StatusPresent, day, "A"),
				record(StatusAbsent, day, "A"),
			},
			want: Summary{TotalSessions: 3, Present: 2, Absent: 1, AttendancePercentage: 66.7},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summarize(tt.records); got != tt.want {
				t.Errorf("Summarize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSummarizeBySubject(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	records := []Attendance{
		record(StatusPresent, day, "Grammar"),
		record(StatusAbsent, day, "Listening"),
		record(StatusPresent, day, "Grammar"),
		{Status: StatusPresent}, // no session loaded, skipped
	}

	got := SummarizeBySubject(records)
	if len(got) != 2 {
		t.Fatalf("SummarizeBySubject() = %d entries, want 2", len(got))
	}
	// first-seen order
	if got[0].Subject != "Grammar" || got[1].Subject != "Listening" {
		t.Errorf("subjects = %q, %q; want Grammar, Listening", got[0].Subject, got[1].Subject)
	}
	if got[0].Summary.TotalSessions != 2 || got[0].Summary.AttendancePercentage != 100.0 {
		t.Errorf("Grammar summary = %+v", got[0].Summary)
	}
	if got[1].Summary.AttendancePercentage != 0.0 {
		t.Errorf("Listening percentage = %v, want 0.0", got[1].Summary.AttendancePercentage)
	}
}

func TestWeeklyTrend(t *testing.T) {
	// a Monday
	today := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
	records := []Attendance{
		record(StatusPresent, today, "A"),
		record(StatusAbsent, today, "A"),
		record(StatusPresent, today.AddDate(0, 0, -6), "A"),
		record(StatusPresent, today.AddDate(0, 0, -10), "A"), // outside the window
	}

	trend := WeeklyTrend(records, today)
	if len(trend) != 7 {
		t.Fatalf("WeeklyTrend() = %d entries, want 7", len(trend))
	}

	// oldest first
	if trend[0].Date != "2025-03-04" || trend[6].Date != "2025-03-10" {
		t.Errorf("trend range = %s..%s, want 2025-03-04..2025-03-10", trend[0].Date, trend[6].Date)
	}
	if trend[0].DayName != "Martes" || trend[6].DayName != "Lunes" {
		t.Errorf("day names = %s..%s, want Martes..Lunes", trend[0].DayName, trend[6].DayName)
	}

	if trend[0].TotalSessions != 1 || trend[0].AttendancePercentage != 100.0 {
		t.Errorf("oldest day = %+v", trend[0])
	}
	if trend[6].TotalSessions != 2 || trend[6].AttendancePercentage != 50.0 {
		t.Errorf("today = %+v", trend[6])
	}

	// empty days are zero entries, not gaps
	if trend[1].TotalSessions != 0 || trend[1].AttendancePercentage != 0.0 {
		t.Errorf("empty day = %+v, want zeroes", trend[1])
	}
}

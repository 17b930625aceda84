package course

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestShapeEnrollmentsEmpty(t *testing.T) {
	list, ok := ShapeEnrollments(nil).(EnrollmentList)
	if !ok {
		t.Fatalf("ShapeEnrollments(nil) = %T, want EnrollmentList", ShapeEnrollments(nil))
	}

	if list.Message != noEnrollmentsMessage {
		t.Errorf("Message = %q, want %q", list.Message, noEnrollmentsMessage)
	}
	if list.Enrollments == nil {
		t.Fatal("Enrollments = nil, want []")
	}

	// the wire shape must carry enrollments as [], never null
	raw, err := json.Marshal(list)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"enrollments":[]`) {
		t.Errorf("payload = %s, want enrollments:[]", raw)
	}
}

func TestShapeEnrollments(t *testing.T) {
	enrolled := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	shaped := ShapeEnrollments([]Enrollment{
		{
			ID:             1,
			EnrollmentDate: enrolled,
			IsActive:       true,
			Group: &Group{
				ID:     5,
				Name:   "A1",
				Course: &Course{ID: 3, Name: "Inglés Básico", Level: LevelA1, Modality: ModalityOnSite},
			},
		},
	})

	// non-empty results serialize as a bare array, not a wrapper object
	out, ok := shaped.([]EnrollmentDetail)
	if !ok {
		t.Fatalf("ShapeEnrollments() = %T, want []EnrollmentDetail", shaped)
	}
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	raw, err := json.Marshal(shaped)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(raw), "[") {
		t.Errorf("payload = %s, want a JSON array", raw)
	}

	ed := out[0]
	if ed.EnrollmentDate != "2025-02-01" {
		t.Errorf("EnrollmentDate = %q", ed.EnrollmentDate)
	}
	if ed.Group == nil || ed.Group.Course == nil {
		t.Fatal("group graph not shaped")
	}
	if ed.Group.Course.LevelDisplay == "" || ed.Group.Course.ModalityDisplay == "" {
		t.Errorf("display labels missing: %+v", ed.Group.Course)
	}
}

func TestGradePercent(t *testing.T) {
	tests := []struct {
		name  string
		grade Grade
		want  float64
	}{
		{name: "simple", grade: Grade{ObtainedScore: 8, MaxScore: 10}, want: 80.0},
		{name: "rounded", grade: Grade{ObtainedScore: 2, MaxScore: 3}, want: 66.7},
		{name: "zero max", grade: Grade{ObtainedScore: 5, MaxScore: 0}, want: 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.grade.Percent(); got != tt.want {
				t.Errorf("Percent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDayName(t *testing.T) {
	if DayName(0) != "Lunes" || DayName(6) != "Domingo" {
		t.Errorf("DayName(0)=%q DayName(6)=%q", DayName(0), DayName(6))
	}
	if DayName(7) != "" {
		t.Errorf("DayName(7) = %q, want empty", DayName(7))
	}
}

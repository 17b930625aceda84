package course

import (
	"time"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
)

// Course levels
const (
	LevelA1 = "A1"
	LevelA2 = "A2"
	LevelB1 = "B1"
	LevelB2 = "B2"
	LevelC1 = "C1"
	LevelC2 = "C2"
)

// Course modalities
const (
	ModalityOnSite = "presencial"
	ModalityOnline = "virtual"
	ModalityHybrid = "hibrido"
)

// Grade types
const (
	GradeQuiz          = "quiz"
	GradeExam          = "exam"
	GradeAssignment    = "assignment"
	GradeParticipation = "participation"
	GradeProject       = "project"
)

var (
	levelLabels = map[string]string{
		LevelA1: "Principiante A1",
		LevelA2: "Principiante A2",
		LevelB1: "Intermedio B1",
		LevelB2: "Intermedio B2",
		LevelC1: "Avanzado C1",
		LevelC2: "Avanzado C2",
	}

	modalityLabels = map[string]string{
		ModalityOnSite: "Presencial",
		ModalityOnline: "Virtual",
		ModalityHybrid: "Híbrido",
	}

	gradeTypeLabels = map[string]string{
		GradeQuiz:          "Quiz",
		GradeExam:          "Examen",
		GradeAssignment:    "Tarea",
		GradeParticipation: "Participación",
		GradeProject:       "Proyecto",
	}

	// ISO weekday numbering, Monday = 0.
	dayNames = [7]string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}
)

func LevelLabel(level string) string       { return levelLabels[level] }
func ModalityLabel(modality string) string { return modalityLabels[modality] }
func GradeTypeLabel(gt string) string      { return gradeTypeLabels[gt] }

// DayName returns the display name for a 0-based weekday (Monday first).
func DayName(day int) string {
	if day < 0 || day > 6 {
		return ""
	}
	return dayNames[day]
}

type Course struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Code          string    `json:"code"`
	Description   string    `json:"description"`
	Level         string    `json:"level"`
	Modality      string    `json:"modality"`
	DurationWeeks int       `json:"duration_weeks"`
	HoursPerWeek  int       `json:"hours_per_week"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

type Classroom struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	Location  string `json:"location"`
	Equipment string `json:"equipment,omitempty"`
}

type Period struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsActive  bool      `json:"is_active"`
}

// TeacherInfo is the slice of the owning teacher a group query carries along.
type TeacherInfo struct {
	ProfileID      int    `json:"id"`
	UserID         int    `json:"-"`
	FullName       string `json:"nombre_completo"`
	Email          string `json:"correo"`
	Specialization string `json:"especializacion"`
}

// Group is a scheduled, teacher-owned offering of a Course within a Period.
type Group struct {
	ID          int    `json:"id"`
	CourseID    int    `json:"-"`
	PeriodID    int    `json:"-"`
	TeacherID   int    `json:"-"` // teacher profile id
	Name        string `json:"name"`
	MaxStudents int    `json:"max_students"`

	// populated on joined queries
	Course  *Course      `json:"course,omitempty"`
	Period  *Period      `json:"period,omitempty"`
	Teacher *TeacherInfo `json:"teacher,omitempty"`
}

// OwnedBy reports whether the group belongs to the teacher behind the given user id.
func (g Group) OwnedBy(userID int) bool {
	return g.Teacher != nil && g.Teacher.UserID == userID
}

type Enrollment struct {
	ID             int       `json:"id"`
	StudentID      int       `json:"-"` // student profile id
	GroupID        int       `json:"-"`
	EnrollmentDate time.Time `json:"enrollment_date"`
	IsActive       bool      `json:"is_active"`

	// populated on joined queries
	StudentName string `json:"student_name,omitempty"`
	Group       *Group `json:"course_group,omitempty"`
}

type Schedule struct {
	ID          int    `json:"id"`
	GroupID     int    `json:"-"`
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time"` // HH:MM
	EndTime     string `json:"end_time"`   // HH:MM
	ClassroomID int    `json:"-"`
	Subject     string `json:"subject"`

	Classroom *Classroom `json:"classroom,omitempty"`
}

type Grade struct {
	ID            int       `json:"id"`
	EnrollmentID  int       `json:"-"`
	GradeType     string    `json:"grade_type"`
	Subject       string    `json:"subject"`
	ObtainedScore float64   `json:"obtained_score"`
	MaxScore      float64   `json:"max_score"`
	Date          time.Time `json:"date"`
	Comments      string    `json:"comments,omitempty"`
}

// Percent computes the obtained/max percentage safely.
func (g Grade) Percent() float64 {
	return core.ScorePercent(g.ObtainedScore, g.MaxScore)
}

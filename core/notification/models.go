package notification

import "time"

// Notification types
const (
	TypeInfo     = "info"
	TypeTask     = "task"
	TypeGrade    = "grade"
	TypePayment  = "payment"
	TypeAcademic = "academic"
)

// Priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var (
	typeLabels = map[string]string{
		TypeInfo:     "Información",
		TypeTask:     "Tarea",
		TypeGrade:    "Calificación",
		TypePayment:  "Pago",
		TypeAcademic: "Académico",
	}

	priorityLabels = map[string]string{
		PriorityLow:    "Baja",
		PriorityMedium: "Media",
		PriorityHigh:   "Alta",
	}
)

func TypeLabel(typ string) string          { return typeLabels[typ] }
func PriorityLabel(priority string) string { return priorityLabels[priority] }

type Notification struct {
	ID          int       `json:"id"`
	RecipientID int       `json:"-"`
	Type        string    `json:"type"`
	Priority    string    `json:"priority"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

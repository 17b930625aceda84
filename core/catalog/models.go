package catalog

import "time"

// Request statuses
const (
	RequestPending    = "pendiente"
	RequestInProgress = "en_proceso"
	RequestCompleted  = "completado"
	RequestRejected   = "rechazado"
)

var requestStatusLabels = map[string]string{
	RequestPending:    "Pendiente",
	RequestInProgress: "En proceso",
	RequestCompleted:  "Completado",
	RequestRejected:   "Rechazado",
}

func RequestStatusLabel(status string) string {
	return requestStatusLabels[status]
}

// Category groups the institutional services offered to students.
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Item is one orderable institutional service, certificates and the like.
type Item struct {
	ID           int       `json:"id"`
	CategoryID   int       `json:"-"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Requirements string    `json:"requirements,omitempty"`
	DeliveryDays int       `json:"delivery_days"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`

	Category *Category `json:"category,omitempty"`
}

// Request is a student's order for an Item.
type Request struct {
	ID          int       `json:"id"`
	ItemID      int       `json:"-"`
	StudentID   int       `json:"-"` // student profile id
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	RequestedAt time.Time `json:"requested_at"`

	Item *Item `json:"service,omitempty"`
}

// Certificate is a document issued to a student.
type Certificate struct {
	ID        int       `json:"id"`
	StudentID int       `json:"-"` // student profile id
	Type      string    `json:"certificate_type"`
	IssuedAt  time.Time `json:"issued_at"`
	FileRef   string    `json:"-"`
}

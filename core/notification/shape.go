package notification

import "time"

type Detail struct {
	ID              int    `json:"id"`
	Type            string `json:"type"`
	TypeDisplay     string `json:"type_display"`
	Priority        string `json:"priority"`
	PriorityDisplay string `json:"priority_display"`
	Title           string `json:"title"`
	Message         string `json:"message"`
	IsRead          bool   `json:"is_read"`
	CreatedAt       string `json:"created_at"`
}

func Shape(n Notification) Detail {
	return Detail{
		ID:              n.ID,
		Type:            n.Type,
		TypeDisplay:     TypeLabel(n.Type),
		Priority:        n.Priority,
		PriorityDisplay: PriorityLabel(n.Priority),
		Title:           n.Title,
		Message:         n.Message,
		IsRead:          n.IsRead,
		CreatedAt:       n.CreatedAt.Format(time.RFC3339),
	}
}

// ShapeAll always yields a non-nil slice so an empty result serializes as [].
func ShapeAll(items []Notification) []Detail {
	out := make([]Detail, len(items))
	for i, n := range items {
		out[i] = Shape(n)
	}
	return out
}

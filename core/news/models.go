package news

import (
	"time"
)

// News categories
const (
	CategoryGeneral  = "general"
	CategoryAcademic = "academico"
	CategoryEvents   = "eventos"
	CategoryNotices  = "avisos"
)

var (
	AllCategories = []string{CategoryGeneral, CategoryAcademic, CategoryEvents, CategoryNotices}

	categoryLabels = map[string]string{
		CategoryGeneral:  "General",
		CategoryAcademic: "Académico",
		CategoryEvents:   "Eventos",
		CategoryNotices:  "Avisos",
	}
)

func CategoryLabel(category string) string {
	return categoryLabels[category]
}

type News struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	ImageRef    string    `json:"-"`
	AuthorID    int       `json:"-"`
	IsPublished bool      `json:"is_published"`
	PublishedAt time.Time `json:"published_at"`
	ViewsCount  int       `json:"views_count"`
	CreatedAt   time.Time `json:"created_at"`

	// populated on joined queries
	AuthorName string `json:"author_name,omitempty"`
}

// View records that a user opened an article; unique per article and user.
type View struct {
	ID       int
	NewsID   int
	UserID   int
	ViewedAt time.Time
}

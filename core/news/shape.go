package news

import (
	"time"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
)

type (
	Summary struct {
		ID              int    `json:"id"`
		Title           string `json:"title"`
		Summary         string `json:"summary"`
		Category        string `json:"category"`
		CategoryDisplay string `json:"category_display"`
		ImageURL        string `json:"image_url,omitempty"`
		AuthorName      string `json:"author_name,omitempty"`
		PublishedAt     string `json:"published_at"`
		ViewsCount      int    `json:"views_count"`
	}

	Detail struct {
		Summary
		Content string `json:"content"`
	}
)

func ShapeSummary(n News) Summary {
	return Summary{
		ID:              n.ID,
		Title:           n.Title,
		Summary:         n.Summary,
		Category:        n.Category,
		CategoryDisplay: CategoryLabel(n.Category),
		ImageURL:        core.MediaURL(n.ImageRef),
		AuthorName:      n.AuthorName,
		PublishedAt:     n.PublishedAt.Format(time.RFC3339),
		ViewsCount:      n.ViewsCount,
	}
}

// ShapeSummaries always yields a non-nil slice so an empty result
// serializes as [].
func ShapeSummaries(items []News) []Summary {
	out := make([]Summary, len(items))
	for i, n := range items {
		out[i] = ShapeSummary(n)
	}
	return out
}

func ShapeDetail(n News) Detail {
	return Detail{Summary: ShapeSummary(n), Content: n.Content}
}

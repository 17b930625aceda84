package catalog

import (
	"time"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
)

type (
	ItemDetail struct {
		ID           int       `json:"id"`
		Name         string    `json:"name"`
		Description  string    `json:"description"`
		Price        float64   `json:"price"`
		Requirements string    `json:"requirements,omitempty"`
		DeliveryDays int       `json:"delivery_days"`
		Category     *Category `json:"category,omitempty"`
	}

	RequestDetail struct {
		ID            int         `json:"id"`
		Status        string      `json:"status"`
		StatusDisplay string      `json:"status_display"`
		Notes         string      `json:"notes,omitempty"`
		RequestedAt   string      `json:"requested_at"`
		Item          *ItemDetail `json:"service,omitempty"`
	}

	CertificateDetail struct {
		ID       int    `json:"id"`
		Type     string `json:"certificate_type"`
		IssuedAt string `json:"issued_at"`
		FileURL  string `json:"file_url,omitempty"`
	}
)

func ShapeItem(it Item) ItemDetail {
	return ItemDetail{
		ID:           it.ID,
		Name:         it.Name,
		Description:  it.Description,
		Price:        it.Price,
		Requirements: it.Requirements,
		DeliveryDays: it.DeliveryDays,
		Category:     it.Category,
	}
}

// ShapeItems always yields a non-nil slice so an empty result serializes as [].
func ShapeItems(items []Item) []ItemDetail {
	out := make([]ItemDetail, len(items))
	for i, it := range items {
		out[i] = ShapeItem(it)
	}
	return out
}

func ShapeRequest(r Request) RequestDetail {
	rd := RequestDetail{
		ID:            r.ID,
		Status:        r.Status,
		StatusDisplay: RequestStatusLabel(r.Status),
		Notes:         r.Notes,
		RequestedAt:   r.RequestedAt.Format(time.RFC3339),
	}
	if r.Item != nil {
		it := ShapeItem(*r.Item)
		rd.Item = &it
	}
	return rd
}

func ShapeRequests(requests []Request) []RequestDetail {
	out := make([]RequestDetail, len(requests))
	for i, r := range requests {
		out[i] = ShapeRequest(r)
	}
	return out
}

func ShapeCertificate(c Certificate) CertificateDetail {
	return CertificateDetail{
		ID:       c.ID,
		Type:     c.Type,
		IssuedAt: c.IssuedAt.Format("2006-01-02"),
		FileURL:  core.MediaURL(c.FileRef),
	}
}

func ShapeCertificates(certs []Certificate) []CertificateDetail {
	out := make([]CertificateDetail, len(certs))
	for i, c := range certs {
		out[i] = ShapeCertificate(c)
	}
	return out
}

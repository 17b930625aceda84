package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/catalog"
)

type catalogRepository struct {
	db *sqlx.DB
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *sqlx.DB) *catalogRepository {
	return &catalogRepository{db: db}
}

type catalogItemRow struct {
	ID           int       `db:"id"`
	CategoryID   int       `db:"category_id"`
	Name         string    `db:"name"`
	Description  string    `db:"description"`
	Price        float64   `db:"price"`
	Requirements string    `db:"requirements"`
	DeliveryDays int       `db:"delivery_days"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	CategoryName string    `db:"category_name"`
	CategoryDesc string    `db:"category_description"`
}

func (r catalogItemRow) toItem() catalog.Item {
	return catalog.Item{
		ID:           r.ID,
		CategoryID:   r.CategoryID,
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		Requirements: r.Requirements,
		DeliveryDays: r.DeliveryDays,
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt,
		Category: &catalog.Category{
			ID:          r.CategoryID,
			Name:        r.CategoryName,
			Description: r.CategoryDesc,
		},
	}
}

const itemQuery = `
	SELECT s.id, s.category_id, s.name, s.description, s.price, s.requirements,
	       s.delivery_days, s.is_active, s.created_at,
	       c.name AS category_name, c.description AS category_description
	FROM service s
	JOIN service_category c ON c.id = s.category_id`

func (repo catalogRepository) FilterActiveItems(ctx context.Context, categoryID int) ([]catalog.Item, error) {
	q := itemQuery + ` WHERE s.is_active`
	var args []interface{}
	if categoryID > 0 {
		args = append(args, categoryID)
		q += ` AND s.category_id = $1`
	}
	q += ` ORDER BY c.name, s.name`

	var rows []catalogItemRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering catalog items")
	}
	items := make([]catalog.Item, len(rows))
	for i, row := range rows {
		items[i] = row.toItem()
	}
	return items, nil
}

func (repo catalogRepository) GetActiveItemByID(ctx context.Context, id int) (catalog.Item, error) {
	var row catalogItemRow
	err := repo.db.GetContext(ctx, &row, itemQuery+` WHERE s.id = $1 AND s.is_active`, id)
	if err != nil {
		return catalog.Item{}, trapNoRowsErr(err, "getting catalog item")
	}
	return row.toItem(), nil
}

func (repo catalogRepository) FilterCategories(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	err := repo.db.SelectContext(ctx, &categories, `
		SELECT id, name, description FROM service_category ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "filtering service categories")
	}
	return categories, nil
}

func (repo catalogRepository) CreateRequest(ctx context.Context, r *catalog.Request) error {
	err := repo.db.QueryRowContext(ctx, `
		INSERT INTO service_request (service_id, student_id, status, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, requested_at`,
		r.ItemID, r.StudentID, r.Status, r.Notes,
	).Scan(&r.ID, &r.RequestedAt)
	if err != nil {
		return errors.Wrap(err, "inserting service request")
	}
	return nil
}

func (repo catalogRepository) FilterStudentRequests(ctx context.Context, studentProfileID int) ([]catalog.Request, error) {
	type requestRow struct {
		ID          int       `db:"id"`
		ItemID      int       `db:"service_id"`
		StudentID   int       `db:"student_id"`
		Status      string    `db:"status"`
		Notes       string    `db:"notes"`
		RequestedAt time.Time `db:"requested_at"`
		catalogItemRow
	}
	var rows []requestRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT r.id, r.service_id, r.student_id, r.status, r.notes, r.requested_at,
		       s.category_id, s.name, s.description, s.price, s.requirements,
		       s.delivery_days, s.is_active, s.created_at,
		       c.name AS category_name, c.description AS category_description
		FROM service_request r
		JOIN service s ON s.id = r.service_id
		JOIN service_category c ON c.id = s.category_id
		WHERE r.student_id = $1
		ORDER BY r.requested_at DESC`, studentProfileID)
	if err != nil {
		return nil, errors.Wrap(err, "filtering student service requests")
	}

	requests := make([]catalog.Request, len(rows))
	for i, row := range rows {
		item := row.catalogItemRow
		item.ID = row.ItemID
		it := item.toItem()
		requests[i] = catalog.Request{
			ID:          row.ID,
			ItemID:      row.ItemID,
			StudentID:   row.StudentID,
			Status:      row.Status,
			Notes:       row.Notes,
			RequestedAt: row.RequestedAt,
			Item:        &it,
		}
	}
	return requests, nil
}

func (repo catalogRepository) FilterStudentCertificates(ctx context.Context, studentProfileID int) ([]catalog.Certificate, error) {
	type certRow struct {
		ID        int       `db:"id"`
		StudentID int       `db:"student_id"`
		Type      string    `db:"certificate_type"`
		IssuedAt  time.Time `db:"issued_at"`
		FileRef   string    `db:"file_ref"`
	}
	var rows []certRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT id, student_id, certificate_type, issued_at, file_ref
		FROM certificate
		WHERE student_id = $1
		ORDER BY issued_at DESC`, studentProfileID)
	if err != nil {
		return nil, errors.Wrap(err, "filtering student certificates")
	}
	certs := make([]catalog.Certificate, len(rows))
	for i, row := range rows {
		certs[i] = catalog.Certificate(row)
	}
	return certs, nil
}

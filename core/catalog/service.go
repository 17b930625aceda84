package catalog

import (
	"context"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

var ErrNotFound = core.ErrNotFound

type (
	// NewRequest is a student's order for a catalog item.
	NewRequest struct {
		ItemID int    `json:"service" validate:"required"`
		Notes  string `json:"notes"`
	}

	Repository interface {
		// FilterActiveItems returns orderable items with their categories,
		// optionally narrowed to one category.
		FilterActiveItems(ctx context.Context, categoryID int) ([]Item, error)
		// GetActiveItemByID yields ErrNotFound for inactive items too.
		GetActiveItemByID(ctx context.Context, id int) (Item, error)
		FilterCategories(ctx context.Context) ([]Category, error)
		CreateRequest(ctx context.Context, r *Request) error
		// FilterStudentRequests returns the student's requests with items
		// loaded, newest first.
		FilterStudentRequests(ctx context.Context, studentProfileID int) ([]Request, error)
		FilterStudentCertificates(ctx context.Context, studentProfileID int) ([]Certificate, error)
	}

	Service interface {
		AvailableItems(ctx context.Context, categoryID int) ([]Item, error)
		Categories(ctx context.Context) ([]Category, error)
		RequestItem(ctx context.Context, student user.StudentProfile, nr NewRequest) (Request, error)
		StudentRequests(ctx context.Context, student user.StudentProfile) ([]Request, error)
		StudentCertificates(ctx context.Context, student user.StudentProfile) ([]Certificate, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) AvailableItems(ctx context.Context, categoryID int) ([]Item, error) {
	return svc.repo.FilterActiveItems(ctx, categoryID)
}

func (svc *service) Categories(ctx context.Context) ([]Category, error) {
	return svc.repo.FilterCategories(ctx)
}

func (svc *service) RequestItem(ctx context.Context, student user.StudentProfile, nr NewRequest) (Request, error) {
	if err := core.Validate.Struct(nr); err != nil {
		return Request{}, err
	}
	item, err := svc.repo.GetActiveItemByID(ctx, nr.ItemID)
	if err != nil {
		return Request{}, err
	}

	req := Request{
		ItemID:    item.ID,
		StudentID: student.ID,
		Status:    RequestPending,
		Notes:     core.CleanString(nr.Notes),
	}
	if err = svc.repo.CreateRequest(ctx, &req); err != nil {
		return Request{}, err
	}
	req.Item = &item
	return req, nil
}

func (svc *service) StudentRequests(ctx context.Context, student user.StudentProfile) ([]Request, error) {
	return svc.repo.FilterStudentRequests(ctx, student.ID)
}

func (svc *service) StudentCertificates(ctx context.Context, student user.StudentProfile) ([]Certificate, error) {
	return svc.repo.FilterStudentCertificates(ctx, student.ID)
}

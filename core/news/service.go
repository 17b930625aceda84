package news

import (
	"context"
	"time"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

var ErrNotFound = core.ErrNotFound

type (
	// NewNews contains the information an admin provides to publish an article.
	NewNews struct {
		Title    string `json:"title" validate:"required,max=200"`
		Summary  string `json:"summary" validate:"required,max=500"`
		Content  string `json:"content" validate:"required"`
		Category string `json:"category" validate:"omitempty,news_category"`
		ImageRef string `json:"image"`
	}

	Repository interface {
		CreateNews(ctx context.Context, n *News) error
		// FilterPublished returns published articles with author names,
		// newest first, optionally narrowed to a category.
		FilterPublished(ctx context.Context, category string) ([]News, error)
		// GetPublishedByID yields ErrNotFound for drafts as well as for
		// missing ids.
		GetPublishedByID(ctx context.Context, id int) (News, error)
		// RecordView inserts the view once per article and user and bumps
		// the article's counter on first view.
		RecordView(ctx context.Context, newsID, userID int) error
	}

	Service interface {
		List(ctx context.Context, category string) ([]News, error)
		// Detail returns the article and records the reader's view. View
		// bookkeeping is best effort and never fails the read.
		Detail(ctx context.Context, reader user.User, id int) (News, error)
		Create(ctx context.Context, author user.User, nn NewNews) (News, error)
		Categories() []CategoryOption
	}

	CategoryOption struct {
		Value string `json:"value"`
		Label string `json:"label"`
	}

	service struct {
		repo   Repository
		logger core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, logger core.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (svc *service) List(ctx context.Context, category string) ([]News, error) {
	return svc.repo.FilterPublished(ctx, core.CleanString(category, true /* lower */))
}

func (svc *service) Detail(ctx context.Context, reader user.User, id int) (News, error) {
	n, err := svc.repo.GetPublishedByID(ctx, id)
	if err != nil {
		return News{}, err
	}
	if err := svc.repo.RecordView(ctx, n.ID, reader.ID); err != nil {
		svc.logger.Warn("failed to record news view", "news_id", n.ID, "user_id", reader.ID, "err", err)
	}
	return n, nil
}

func (svc *service) Create(ctx context.Context, author user.User, nn NewNews) (News, error) {
	nn.Title = core.CleanString(nn.Title)
	nn.Summary = core.CleanString(nn.Summary)
	nn.Category = core.CleanString(nn.Category, true /* lower */)
	if nn.Category == "" {
		nn.Category = CategoryGeneral
	}
	if err := core.Validate.Struct(nn); err != nil {
		return News{}, err
	}

	n := News{
		Title:       nn.Title,
		Summary:     nn.Summary,
		Content:     nn.Content,
		Category:    nn.Category,
		ImageRef:    core.CleanString(nn.ImageRef),
		AuthorID:    author.ID,
		IsPublished: true,
		PublishedAt: time.Now().UTC(),
	}
	if err := svc.repo.CreateNews(ctx, &n); err != nil {
		return News{}, err
	}
	n.AuthorName = author.FullName
	return n, nil
}

func (svc *service) Categories() []CategoryOption {
	opts := make([]CategoryOption, len(AllCategories))
	for i, c := range AllCategories {
		opts[i] = CategoryOption{Value: c, Label: CategoryLabel(c)}
	}
	return opts
}

package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/news"
)

type newsRepository struct {
	db *sqlx.DB
}

var _ news.Repository = (*newsRepository)(nil) // interface compliance check

func NewNewsRepository(db *sqlx.DB) *newsRepository {
	return &newsRepository{db: db}
}

type newsRow struct {
	ID          int       `db:"id"`
	Title       string    `db:"title"`
	Summary     string    `db:"summary"`
	Content     string    `db:"content"`
	Category    string    `db:"category"`
	ImageRef    string    `db:"image_ref"`
	AuthorID    int       `db:"author_id"`
	IsPublished bool      `db:"is_published"`
	PublishedAt time.Time `db:"published_at"`
	ViewsCount  int       `db:"views_count"`
	CreatedAt   time.Time `db:"created_at"`
	AuthorName  string    `db:"author_name"`
}

func (r newsRow) toNews() news.News {
	return news.News{
		ID:          r.ID,
		Title:       r.Title,
		Summary:     r.Summary,
		Content:     r.Content,
		Category:    r.Category,
		ImageRef:    r.ImageRef,
		AuthorID:    r.AuthorID,
		IsPublished: r.IsPublished,
		PublishedAt: r.PublishedAt,
		ViewsCount:  r.ViewsCount,
		CreatedAt:   r.CreatedAt,
		AuthorName:  r.AuthorName,
	}
}

const newsQuery = `
	SELECT n.id, n.title, n.summary, n.content, n.category, n.image_ref, n.author_id,
	       n.is_published, n.published_at, n.views_count, n.created_at,
	       u.nombre_completo AS author_name
	FROM news n
	JOIN app_user u ON u.id = n.author_id`

func (repo newsRepository) CreateNews(ctx context.Context, n *news.News) error {
	err := repo.db.QueryRowContext(ctx, `
		INSERT INTO news (title, summary, content, category, image_ref, author_id, is_published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		n.Title, n.Summary, n.Content, n.Category, n.ImageRef, n.AuthorID, n.IsPublished, n.PublishedAt,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "inserting news")
	}
	return nil
}

func (repo newsRepository) FilterPublished(ctx context.Context, category string) ([]news.News, error) {
	q := newsQuery + ` WHERE n.is_published`
	var args []interface{}
	if category != "" {
		args = append(args, category)
		q += ` AND n.category = $1`
	}
	q += ` ORDER BY n.published_at DESC`

	var rows []newsRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering published news")
	}
	items := make([]news.News, len(rows))
	for i, row := range rows {
		items[i] = row.toNews()
	}
	return items, nil
}

func (repo newsRepository) GetPublishedByID(ctx context.Context, id int) (news.News, error) {
	var row newsRow
	err := repo.db.GetContext(ctx, &row, newsQuery+` WHERE n.id = $1 AND n.is_published`, id)
	if err != nil {
		return news.News{}, trapNoRowsErr(err, "getting news")
	}
	return row.toNews(), nil
}

func (repo newsRepository) RecordView(ctx context.Context, newsID, userID int) error {
	res, err := repo.db.ExecContext(ctx, `
		INSERT INTO news_view (news_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (news_id, user_id) DO NOTHING`, newsID, userID)
	if err != nil {
		return errors.Wrap(err, "recording news view")
	}
	// bump the counter only on first view
	if n, _ := res.RowsAffected(); n > 0 {
		if _, err = repo.db.ExecContext(ctx, `
			UPDATE news SET views_count = views_count + 1 WHERE id = $1`, newsID); err != nil {
			return errors.Wrap(err, "bumping news views count")
		}
	}
	return nil
}

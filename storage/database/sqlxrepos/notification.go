package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/notification"
)

type notificationRepository struct {
	db *sqlx.DB
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *sqlx.DB) *notificationRepository {
	return &notificationRepository{db: db}
}

type notificationRow struct {
	ID          int       `db:"id"`
	RecipientID int       `db:"recipient_id"`
	Type        string    `db:"type"`
	Priority    string    `db:"priority"`
	Title       string    `db:"title"`
	Message     string    `db:"message"`
	IsRead      bool      `db:"is_read"`
	CreatedAt   time.Time `db:"created_at"`
}

const notificationCols = `id, recipient_id, type, priority, title, message, is_read, created_at`

func (repo notificationRepository) CreateNotification(ctx context.Context, n *notification.Notification) error {
	err := repo.db.QueryRowContext(ctx, `
		INSERT INTO notification (recipient_id, type, priority, title, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		n.RecipientID, n.Type, n.Priority, n.Title, n.Message,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "inserting notification")
	}
	return nil
}

func (repo notificationRepository) FilterByRecipient(ctx context.Context, recipientID int) ([]notification.Notification, error) {
	var rows []notificationRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT `+notificationCols+` FROM notification
		WHERE recipient_id = $1
		ORDER BY created_at DESC`, recipientID)
	if err != nil {
		return nil, errors.Wrap(err, "filtering notifications")
	}
	items := make([]notification.Notification, len(rows))
	for i, row := range rows {
		items[i] = notification.Notification(row)
	}
	return items, nil
}

func (repo notificationRepository) GetByID(ctx context.Context, id, recipientID int) (notification.Notification, error) {
	var row notificationRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT `+notificationCols+` FROM notification
		WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return notification.Notification{}, trapNoRowsErr(err, "getting notification")
	}
	return notification.Notification(row), nil
}

func (repo notificationRepository) MarkRead(ctx context.Context, id, recipientID int) error {
	res, err := repo.db.ExecContext(ctx, `
		UPDATE notification SET is_read = TRUE
		WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return errors.Wrap(err, "marking notification read")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notification.ErrNotFound
	}
	return nil
}

func (repo notificationRepository) MarkAllRead(ctx context.Context, recipientID int) (int, error) {
	res, err := repo.db.ExecContext(ctx, `
		UPDATE notification SET is_read = TRUE
		WHERE recipient_id = $1 AND NOT is_read`, recipientID)
	if err != nil {
		return 0, errors.Wrap(err, "marking all notifications read")
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (repo notificationRepository) CountUnread(ctx context.Context, recipientID int) (int, error) {
	var count int
	err := repo.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM notification WHERE recipient_id = $1 AND NOT is_read`, recipientID,
	).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "counting unread notifications")
	}
	return count, nil
}

package notification

import (
	"context"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

var ErrNotFound = core.ErrNotFound

type (
	Repository interface {
		CreateNotification(ctx context.Context, n *Notification) error
		// FilterByRecipient returns the user's notifications newest first.
		FilterByRecipient(ctx context.Context, recipientID int) ([]Notification, error)
		// GetByID resolves a notification scoped to the recipient; another
		// user's notification yields ErrNotFound.
		GetByID(ctx context.Context, id, recipientID int) (Notification, error)
		MarkRead(ctx context.Context, id, recipientID int) error
		// MarkAllRead flips every unread notification of the recipient and
		// returns how many changed.
		MarkAllRead(ctx context.Context, recipientID int) (int, error)
		CountUnread(ctx context.Context, recipientID int) (int, error)
	}

	Service interface {
		// Notify fans a notification out to the given recipients.
		Notify(ctx context.Context, typ, priority, title, message string, recipientIDs ...int) error
		// List returns the user's notifications. With markRead set, the
		// returned unread ones are flipped to read in the same call; the
		// payload still reports them as they were fetched.
		List(ctx context.Context, usr user.User, markRead bool) ([]Notification, error)
		MarkRead(ctx context.Context, usr user.User, id int) error
		// MarkAllRead is idempotent; a second call reports zero affected.
		MarkAllRead(ctx context.Context, usr user.User) (int, error)
		UnreadCount(ctx context.Context, usr user.User) (int, error)
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

func (svc *service) Notify(ctx context.Context, typ, priority, title, message string, recipientIDs ...int) error {
	if priority == "" {
		priority = PriorityMedium
	}
	for _, rid := range recipientIDs {
		n := Notification{
			RecipientID: rid,
			Type:        typ,
			Priority:    priority,
			Title:       title,
			Message:     message,
		}
		if err := svc.repo.CreateNotification(ctx, &n); err != nil {
			return err
		}
	}
	return nil
}

func (svc *service) List(ctx context.Context, usr user.User, markRead bool) ([]Notification, error) {
	items, err := svc.repo.FilterByRecipient(ctx, usr.ID)
	if err != nil {
		return nil, err
	}
	if markRead {
		if _, err := svc.repo.MarkAllRead(ctx, usr.ID); err != nil {
			svc.logger.Warn("failed to mark notifications read", "user_id", usr.ID, "err", err)
		}
	}
	return items, nil
}

func (svc *service) MarkRead(ctx context.Context, usr user.User, id int) error {
	if _, err := svc.repo.GetByID(ctx, id, usr.ID); err != nil {
		return err
	}
	return svc.repo.MarkRead(ctx, id, usr.ID)
}

func (svc *service) MarkAllRead(ctx context.Context, usr user.User) (int, error) {
	return svc.repo.MarkAllRead(ctx, usr.ID)
}

func (svc *service) UnreadCount(ctx context.Context, usr user.User) (int, error) {
	return svc.repo.CountUnread(ctx, usr.ID)
}

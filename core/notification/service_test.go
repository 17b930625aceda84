package notification

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

// fakeRepository keeps notifications in memory, keyed by recipient.
type fakeRepository struct {
	items   []Notification
	nextID  int
	created int
}

func (r *fakeRepository) CreateNotification(_ context.Context, n *Notification) error {
	r.nextID++
	n.ID = r.nextID
	r.items = append(r.items, *n)
	r.created++
	return nil
}

func (r *fakeRepository) FilterByRecipient(_ context.Context, recipientID int) ([]Notification, error) {
	var out []Notification
	for _, n := range r.items {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeRepository) GetByID(_ context.Context, id, recipientID int) (Notification, error) {
	for _, n := range r.items {
		if n.ID == id && n.RecipientID == recipientID {
			return n, nil
		}
	}
	return Notification{}, ErrNotFound
}

func (r *fakeRepository) MarkRead(_ context.Context, id, recipientID int) error {
	for i, n := range r.items {
		if n.ID == id && n.RecipientID == recipientID {
			r.items[i].IsRead = true
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeRepository) MarkAllRead(_ context.Context, recipientID int) (int, error) {
	count := 0
	for i, n := range r.items {
		if n.RecipientID == recipientID && !n.IsRead {
			r.items[i].IsRead = true
			count++
		}
	}
	return count, nil
}

func (r *fakeRepository) CountUnread(_ context.Context, recipientID int) (int, error) {
	count := 0
	for _, n := range r.items {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func newTestService(repo *fakeRepository) Service {
	return NewService(repo, core.NewStdLogger(log.New(io.Discard, "", 0)))
}

func TestNotifyFanOut(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo)
	ctx := context.Background()

	if err := svc.Notify(ctx, TypeTask, "", "Nueva tarea", "Se asignó una tarea", 1, 2, 3); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if repo.created != 3 {
		t.Errorf("created = %d, want 3", repo.created)
	}
	for _, n := range repo.items {
		if n.Priority != PriorityMedium {
			t.Errorf("Priority = %s, want default %s", n.Priority, PriorityMedium)
		}
	}
}

func TestListMarksRead(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo)
	ctx := context.Background()
	usr := user.User{ID: 1}

	if err := svc.Notify(ctx, TypeInfo, PriorityLow, "Aviso", "Mensaje", 1, 1); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if err := svc.Notify(ctx, TypeInfo, PriorityLow, "Ajeno", "Mensaje", 2); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	items, err := svc.List(ctx, usr, true)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	// the payload reflects the state at fetch time
	for _, n := range items {
		if n.IsRead {
			t.Errorf("notification %d reported as read in the listing payload", n.ID)
		}
	}
	if unread, _ := repo.CountUnread(ctx, 1); unread != 0 {
		t.Errorf("unread after List(markRead) = %d, want 0", unread)
	}
	// the other recipient's notifications are untouched
	if unread, _ := repo.CountUnread(ctx, 2); unread != 1 {
		t.Errorf("unread for other recipient = %d, want 1", unread)
	}
}

func TestListWithoutMarking(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo)
	ctx := context.Background()
	usr := user.User{ID: 1}

	if err := svc.Notify(ctx, TypeGrade, PriorityHigh, "Nota", "Mensaje", 1); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if _, err := svc.List(ctx, usr, false); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if unread, _ := repo.CountUnread(ctx, 1); unread != 1 {
		t.Errorf("unread after List(markRead=false) = %d, want 1", unread)
	}
}

func TestMarkAllReadIdempotent(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo)
	ctx := context.Background()
	usr := user.User{ID: 1}

	if err := svc.Notify(ctx, TypeInfo, PriorityLow, "Uno", "Mensaje", 1, 1, 1); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	if n, err := svc.MarkAllRead(ctx, usr); err != nil || n != 3 {
		t.Errorf("MarkAllRead() = %d, %v, want 3, nil", n, err)
	}
	if n, err := svc.MarkAllRead(ctx, usr); err != nil || n != 0 {
		t.Errorf("second MarkAllRead() = %d, %v, want 0, nil", n, err)
	}
}

func TestMarkReadScope(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo)
	ctx := context.Background()

	if err := svc.Notify(ctx, TypeInfo, PriorityLow, "Aviso", "Mensaje", 2); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	// another user's notification reads as missing, never as forbidden
	if err := svc.MarkRead(ctx, user.User{ID: 1}, 1); err != ErrNotFound {
		t.Errorf("MarkRead() error = %v, want ErrNotFound", err)
	}
	if err := svc.MarkRead(ctx, user.User{ID: 2}, 1); err != nil {
		t.Errorf("MarkRead() error = %v", err)
	}
	if unread, _ := repo.CountUnread(ctx, 2); unread != 0 {
		t.Errorf("unread = %d, want 0", unread)
	}
}

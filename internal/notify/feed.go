// Package notify keeps a polled copy of the caller's notifications with an unread
// counter and optimistic mark-as-read.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gigboard-dev/gigboard/internal/domain"
)

const DefaultInterval = 60 * time.Second

type Source interface {
	List(ctx context.Context) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

// Item is a notification as shown. Pending is set while a mark-as-read waits for
// the backend.
type Item struct {
	domain.Notification
	Pending bool
}

type Feed struct {
	src      Source
	interval time.Duration

	mu       sync.Mutex
	items    []Item
	unread   int
	pending  map[uuid.UUID]bool
	onChange func()
}

func NewFeed(src Source, interval time.Duration) *Feed {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Feed{
		src:      src,
		interval: interval,
		pending:  make(map[uuid.UUID]bool),
	}
}

// OnChange sets a callback run after every change of the items.
func (f *Feed) OnChange(fn func()) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

func (f *Feed) changed() {
	f.mu.Lock()
	fn := f.onChange
	f.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (f *Feed) Items() []Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Item(nil), f.items...)
}

func (f *Feed) Unread() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unread
}

// Run refreshes right away and then on every tick until ctx is done. Failures are
// logged and the next tick tries again.
func (f *Feed) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		if err := f.Refresh(ctx); err != nil && ctx.Err() == nil {
			slog.Warn("failed to poll notifications", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Refresh replaces the items with the backend's list. Items with a mark-as-read
// in flight keep their local state. A result arriving after ctx is done is dropped.
func (f *Feed) Refresh(ctx context.Context) error {
	list, err := f.src.List(ctx)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	f.mu.Lock()
	items := make([]Item, 0, len(list))
	for _, n := range list {
		item := Item{Notification: *n}
		if f.pending[n.ID] {
			item.Read = true
			item.Pending = true
		}
		items = append(items, item)
	}
	f.items = items
	f.unread = countUnread(items)
	f.mu.Unlock()

	f.changed()
	return nil
}

func countUnread(items []Item) int {
	n := 0
	for _, item := range items {
		if !item.Read {
			n++
		}
	}
	return n
}

func (f *Feed) indexLocked(id uuid.UUID) int {
	for i := range f.items {
		if f.items[i].ID == id {
			return i
		}
	}
	return -1
}

// MarkRead flips the item to read at once and confirms with the backend. If the
// backend fails the item is reverted and the error returned. Marking a read item
// does nothing.
func (f *Feed) MarkRead(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	i := f.indexLocked(id)
	if i < 0 {
		f.mu.Unlock()
		return domain.ErrNotFound
	}
	if f.items[i].Read {
		f.mu.Unlock()
		return nil
	}
	f.items[i].Read = true
	f.items[i].Pending = true
	f.pending[id] = true
	f.unread = max(0, f.unread-1)
	f.mu.Unlock()
	f.changed()

	err := f.src.MarkRead(ctx, id)

	f.mu.Lock()
	delete(f.pending, id)
	if i = f.indexLocked(id); i >= 0 {
		f.items[i].Pending = false
		if err != nil {
			f.items[i].Read = false
			f.unread++
		}
	}
	f.mu.Unlock()
	f.changed()

	return err
}

package view

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/notify"
)

// Bell is the notification indicator. Its feed polls for as long as the mount
// context lives.
type Bell struct {
	env  *Env
	feed *notify.Feed
	done chan struct{}
}

func NewBell(env *Env) *Bell {
	return &Bell{
		env:  env,
		feed: notify.NewFeed(env.Notifications, env.PollInterval),
	}
}

// Mount starts polling. It returns at once; Done is closed when polling stops.
func (b *Bell) Mount(ctx context.Context) error {
	b.done = make(chan struct{})
	go func() {
		defer close(b.done)
		b.feed.Run(ctx)
	}()
	return nil
}

func (b *Bell) Done() <-chan struct{} {
	return b.done
}

func (b *Bell) Feed() *notify.Feed {
	return b.feed
}

func (b *Bell) Unread() int {
	return b.feed.Unread()
}

func (b *Bell) Items() []notify.Item {
	return b.feed.Items()
}

func (b *Bell) MarkRead(ctx context.Context, id uuid.UUID) error {
	err := b.feed.MarkRead(ctx, id)
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, domain.ErrNotFound) {
			b.env.Toasts.Error("Notification not found")
		} else {
			b.env.Toasts.Error("Failed to mark notification as read")
		}
	}
	return err
}

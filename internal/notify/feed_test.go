package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigboard-dev/gigboard/internal/domain"
)

type fakeSource struct {
	mu      sync.Mutex
	list    []*domain.Notification
	listErr error
	lists   int

	markErr  error
	marks    int
	markGate chan struct{}
}

func (f *fakeSource) List(context.Context) ([]*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.Notification, 0, len(f.list))
	for _, n := range f.list {
		c := *n
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeSource) MarkRead(ctx context.Context, id uuid.UUID) error {
	if f.markGate != nil {
		select {
		case <-f.markGate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.marks++
	if f.markErr != nil {
		return f.markErr
	}
	for _, n := range f.list {
		if n.ID == id {
			n.Read = true
		}
	}
	return nil
}

func (f *fakeSource) Lists() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists
}

func notifications(read ...bool) []*domain.Notification {
	out := make([]*domain.Notification, 0, len(read))
	for i, r := range read {
		out = append(out, &domain.Notification{
			ID:        uuid.New(),
			Message:   "message",
			Read:      r,
			CreatedAt: time.Now().Add(-time.Duration(i) * time.Minute),
		})
	}
	return out
}

func TestRefreshCountsUnread(t *testing.T) {
	src := &fakeSource{list: notifications(false, true, false)}
	f := NewFeed(src, time.Minute)

	require.NoError(t, f.Refresh(context.Background()))
	assert.Len(t, f.Items(), 3)
	assert.Equal(t, 2, f.Unread())
}

func TestMarkReadOptimisticThenConfirmed(t *testing.T) {
	src := &fakeSource{list: notifications(false, false), markGate: make(chan struct{})}
	f := NewFeed(src, time.Minute)
	require.NoError(t, f.Refresh(context.Background()))
	id := f.Items()[0].ID

	done := make(chan error)
	go func() {
		done <- f.MarkRead(context.Background(), id)
	}()

	require.Eventually(t, func() bool { return f.Unread() == 1 }, time.Second, time.Millisecond)
	item := f.Items()[0]
	assert.True(t, item.Read)
	assert.True(t, item.Pending)

	close(src.markGate)
	require.NoError(t, <-done)

	item = f.Items()[0]
	assert.True(t, item.Read)
	assert.False(t, item.Pending)
	assert.Equal(t, 1, f.Unread())
}

func TestMarkReadRevertsOnFailure(t *testing.T) {
	src := &fakeSource{list: notifications(false), markErr: errors.New("backend down")}
	f := NewFeed(src, time.Minute)
	require.NoError(t, f.Refresh(context.Background()))
	id := f.Items()[0].ID

	err := f.MarkRead(context.Background(), id)
	assert.EqualError(t, err, "backend down")

	item := f.Items()[0]
	assert.False(t, item.Read)
	assert.False(t, item.Pending)
	assert.Equal(t, 1, f.Unread())
}

func TestMarkReadOfReadItemIsNoop(t *testing.T) {
	src := &fakeSource{list: notifications(true, false)}
	f := NewFeed(src, time.Minute)
	require.NoError(t, f.Refresh(context.Background()))

	require.NoError(t, f.MarkRead(context.Background(), f.Items()[0].ID))
	assert.Equal(t, 1, f.Unread())
	assert.Zero(t, src.marks)
}

func TestMarkReadUnknownItem(t *testing.T) {
	f := NewFeed(&fakeSource{}, time.Minute)
	assert.ErrorIs(t, f.MarkRead(context.Background(), uuid.New()), domain.ErrNotFound)
}

func TestRefreshKeepsPendingMark(t *testing.T) {
	src := &fakeSource{list: notifications(false, false), markGate: make(chan struct{})}
	f := NewFeed(src, time.Minute)
	require.NoError(t, f.Refresh(context.Background()))
	id := f.Items()[0].ID

	done := make(chan error)
	go func() {
		done <- f.MarkRead(context.Background(), id)
	}()
	require.Eventually(t, func() bool { return f.Unread() == 1 }, time.Second, time.Millisecond)

	// the backend still reports the item unread
	require.NoError(t, f.Refresh(context.Background()))
	assert.True(t, f.Items()[0].Read)
	assert.True(t, f.Items()[0].Pending)
	assert.Equal(t, 1, f.Unread())

	close(src.markGate)
	require.NoError(t, <-done)
	assert.Equal(t, 1, f.Unread())
}

func TestRefreshAfterCancelIsDiscarded(t *testing.T) {
	src := &fakeSource{list: notifications(false)}
	f := NewFeed(src, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, f.Refresh(ctx), context.Canceled)
	assert.Empty(t, f.Items())
	assert.Zero(t, f.Unread())
}

func TestRunPollsUntilCanceled(t *testing.T) {
	src := &fakeSource{list: notifications(false)}
	f := NewFeed(src, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		f.Run(ctx)
		close(stopped)
	}()

	require.Eventually(t, func() bool { return src.Lists() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	polled := src.Lists()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, polled, src.Lists())
}

func TestRunKeepsPollingAfterFailure(t *testing.T) {
	src := &fakeSource{listErr: errors.New("timeout")}
	f := NewFeed(src, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.Run(ctx)

	require.Eventually(t, func() bool { return src.Lists() >= 2 }, time.Second, time.Millisecond)
}

func TestDefaultInterval(t *testing.T) {
	f := NewFeed(&fakeSource{}, 0)
	assert.Equal(t, 60*time.Second, f.interval)
}

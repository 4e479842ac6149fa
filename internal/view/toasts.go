package view

import (
	"sync"
	"time"
)

const DefaultToastLimit = 20

type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastError
)

func (k ToastKind) String() string {
	switch k {
	case ToastSuccess:
		return "success"
	case ToastError:
		return "error"
	}
	return "info"
}

type Toast struct {
	Kind ToastKind
	Text string
	At   time.Time
}

// Toasts is a bounded queue of messages for the user; the oldest are dropped.
type Toasts struct {
	mu    sync.Mutex
	limit int
	items []Toast
}

func NewToasts(limit int) *Toasts {
	if limit <= 0 {
		limit = DefaultToastLimit
	}
	return &Toasts{limit: limit}
}

func (t *Toasts) push(kind ToastKind, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.items = append(t.items, Toast{Kind: kind, Text: text, At: time.Now()})
	if over := len(t.items) - t.limit; over > 0 {
		t.items = append([]Toast(nil), t.items[over:]...)
	}
}

func (t *Toasts) Info(text string)    { t.push(ToastInfo, text) }
func (t *Toasts) Success(text string) { t.push(ToastSuccess, text) }
func (t *Toasts) Error(text string)   { t.push(ToastError, text) }

// Drain returns the queued toasts and empties the queue.
func (t *Toasts) Drain() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	items := t.items
	t.items = nil
	return items
}

func (t *Toasts) Last() (Toast, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.items) == 0 {
		return Toast{}, false
	}
	return t.items[len(t.items)-1], true
}

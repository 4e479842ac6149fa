package view_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gigboard-dev/gigboard/internal/facade"
	"github.com/gigboard-dev/gigboard/internal/remote"
	"github.com/gigboard-dev/gigboard/internal/session"
	"github.com/gigboard-dev/gigboard/internal/view"
)

var ctx = context.Background()

type navRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (n *navRecorder) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *navRecorder) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.paths) == 0 {
		return ""
	}
	return n.paths[len(n.paths)-1]
}

// newEnv builds the client environment on c with the session already resolved.
func newEnv(t *testing.T, c *remote.Client) (*view.Env, *navRecorder) {
	t.Helper()

	f := facade.New(c)
	store := session.NewStore(c, f.Profiles)
	require.NoError(t, store.Init(ctx))

	nav := &navRecorder{}
	return view.NewEnv(store, f, nav, 10*time.Millisecond), nav
}

func lastToast(t *testing.T, env *view.Env) view.Toast {
	t.Helper()
	toast, ok := env.Toasts.Last()
	require.True(t, ok, "no toast shown")
	return toast
}

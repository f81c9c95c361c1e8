package route_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskcli/internal/auth"
	"taskcli/internal/route"
	"taskcli/internal/service"
	"taskcli/internal/session"
	"taskcli/internal/tasksync"
	"taskcli/internal/testutil"
)

func TestResolve(t *testing.T) {
	assert.Equal(t, route.LoginView, route.Resolve(session.NewMemory("")))
	assert.Equal(t, route.TaskView, route.Resolve(session.NewMemory("t1")))
}

func TestViewString(t *testing.T) {
	assert.Equal(t, "login", route.LoginView.String())
	assert.Equal(t, "tasks", route.TaskView.String())
	assert.Equal(t, "unknown", route.View(9).String())
}

func TestLogout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := session.NewFileStore(path, nil)
	require.NoError(t, store.Set("t1"))

	view, err := route.Logout(store)
	require.NoError(t, err)
	assert.Equal(t, route.LoginView, view)
	assert.Equal(t, route.LoginView, route.Resolve(store))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Logging out twice is fine.
	view, err = route.Logout(store)
	assert.NoError(t, err)
	assert.Equal(t, route.LoginView, view)
}

func TestTransitions(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewFakeService()
	store := session.NewMemory("")
	require.Equal(t, route.LoginView, route.Resolve(store))

	require.NoError(t, auth.NewFlow(svc, store, nil).Register(ctx, "alice", "a@x", "pw"))
	assert.Equal(t, route.TaskView, route.Resolve(store), "register logs in")

	svc.Expired = true
	_, err := tasksync.New(svc, store, nil).Refresh(ctx)
	require.ErrorIs(t, err, service.ErrSessionExpired)
	assert.Equal(t, route.LoginView, route.Resolve(store), "expiry sends the user back to login")

	svc.Expired = false
	require.NoError(t, auth.NewFlow(svc, store, nil).Login(ctx, "alice", "pw"))
	assert.Equal(t, route.TaskView, route.Resolve(store))

	calls := svc.TotalCalls()
	view, err := route.Logout(store)
	require.NoError(t, err)
	assert.Equal(t, route.LoginView, view)
	assert.Equal(t, calls, svc.TotalCalls(), "logout is local")
}

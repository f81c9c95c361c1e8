package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskcli/internal/auth"
	"taskcli/internal/service"
	"taskcli/internal/session"
	"taskcli/internal/testutil"
)

func TestFlow_LoginStoresToken(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "pw")
	store := session.NewMemory("")

	err := auth.NewFlow(svc, store, nil).Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	tok, ok := store.Get()
	assert.True(t, ok)
	assert.Equal(t, "t1", tok)
}

func TestFlow_LoginFailureKeepsStore(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.LoginErr = &service.RequestFailedError{StatusCode: 401, Message: "Invalid credentials"}
	store := session.NewMemory("old")

	err := auth.NewFlow(svc, store, nil).Login(context.Background(), "alice", "pw")

	var rf *service.RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, "Invalid credentials", rf.Message)
	tok, _ := store.Get()
	assert.Equal(t, "old", tok, "failed login must not touch the session")
}

func TestFlow_Validation(t *testing.T) {
	tests := []struct {
		name  string
		run   func(*auth.Flow) error
		field string
	}{
		{"login empty username", func(f *auth.Flow) error { return f.Login(context.Background(), "", "pw") }, "username"},
		{"login blank password", func(f *auth.Flow) error { return f.Login(context.Background(), "alice", "  ") }, "password"},
		{"register empty email", func(f *auth.Flow) error { return f.Register(context.Background(), "bob", "", "pw") }, "email"},
		{"register empty password", func(f *auth.Flow) error { return f.Register(context.Background(), "bob", "b@x", "") }, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := testutil.NewFakeService()
			store := session.NewMemory("")

			err := tt.run(auth.NewFlow(svc, store, nil))

			var ve *service.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, 0, svc.TotalCalls(), "validation must not reach the service")
			_, ok := store.Get()
			assert.False(t, ok)
		})
	}
}

func TestFlow_RegisterLogsIn(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Token = "fresh"
	store := session.NewMemory("")

	err := auth.NewFlow(svc, store, nil).Register(context.Background(), "bob", "not-an-email", "pw")
	require.NoError(t, err, "email syntax is the server's call")

	tok, _ := store.Get()
	assert.Equal(t, "fresh", tok)
	assert.Equal(t, 1, svc.Calls("Register"))
	assert.Equal(t, 0, svc.Calls("Login"))
}

func TestFlow_EmptyTokenIsFailure(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Token = ""
	store := session.NewMemory("")

	err := auth.NewFlow(svc, store, nil).Login(context.Background(), "alice", "pw")

	var rf *service.RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Contains(t, rf.Message, "no token")
	_, ok := store.Get()
	assert.False(t, ok)
}

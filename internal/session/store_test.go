package session_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskcli/internal/service"
	"taskcli/internal/session"
)

func TestFileStore_SetGetClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := session.NewFileStore(path, nil)

	_, ok := store.Get()
	assert.False(t, ok, "new store should be empty")

	require.NoError(t, store.Set("t1"))
	tok, ok := store.Get()
	assert.True(t, ok)
	assert.Equal(t, "t1", tok)

	require.NoError(t, store.Set("t2"))
	tok, _ = store.Get()
	assert.Equal(t, "t2", tok, "set should overwrite")

	require.NoError(t, store.Clear())
	_, ok = store.Get()
	assert.False(t, ok)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "token file should be removed")

	require.NoError(t, store.Clear(), "clear should be idempotent")
}

func TestFileStore_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")

	require.NoError(t, session.NewFileStore(path, nil).Set("persisted"))

	reopened := session.NewFileStore(path, nil)
	tok, ok := reopened.Get()
	assert.True(t, ok)
	assert.Equal(t, "persisted", tok)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStore_CorruptFileReadsAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	_, ok := session.NewFileStore(path, nil).Get()
	assert.False(t, ok)
}

func TestFileStore_ReadsTokenDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"access_token":"abc","token_type":"Bearer"}`), 0600))

	tok, ok := session.NewFileStore(path, nil).Get()
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)
}

func TestStore_TokenSource(t *testing.T) {
	stores := map[string]session.Store{
		"file":   session.NewFileStore(filepath.Join(t.TempDir(), "token.json"), nil),
		"memory": session.NewMemory(""),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			_, err := store.Token()
			assert.ErrorIs(t, err, service.ErrNotLoggedIn)

			require.NoError(t, store.Set("t1"))
			tok, err := store.Token()
			require.NoError(t, err)
			assert.Equal(t, "t1", tok.AccessToken)
			assert.Equal(t, "Bearer", tok.Type())
		})
	}
}

func TestDescribe(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	info, ok := session.Describe(signed)
	require.True(t, ok)
	assert.Equal(t, "alice", info.Subject)
	assert.True(t, info.ExpiresAt.Equal(exp))
	assert.False(t, info.Expired(exp.Add(-time.Hour)))
	assert.True(t, info.Expired(exp.Add(time.Hour)))
}

func TestDescribe_MongoStyleID(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "64a1"}).SignedString([]byte("k"))
	require.NoError(t, err)

	info, ok := session.Describe(signed)
	require.True(t, ok)
	assert.Equal(t, "64a1", info.Subject)
	assert.True(t, info.ExpiresAt.IsZero())
	assert.False(t, info.Expired(time.Now()))
}

func TestDescribe_Opaque(t *testing.T) {
	_, ok := session.Describe("t1")
	assert.False(t, ok)
}

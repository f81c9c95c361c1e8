// Package session holds the current authentication token and persists it
// across process restarts.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"taskcli/internal/service"
)

// Reader exposes read access to the session token.
type Reader interface {
	// Get returns the current token, or false when no session exists.
	Get() (string, bool)
}

// Store holds the session token. It is also an oauth2.TokenSource so HTTP
// transports can attach the bearer header straight from it.
type Store interface {
	Reader
	oauth2.TokenSource

	// Set stores token, replacing any previous one.
	Set(token string) error

	// Clear removes the token. Clearing an empty store is a no-op.
	Clear() error
}

// FileStore persists the token as an OAuth2 token document with mode 0600.
type FileStore struct {
	path string
	log  *zap.Logger

	mu    sync.RWMutex
	token string
}

// NewFileStore opens the store at path and loads any persisted token.
// An unreadable or corrupt file reads as no session.
func NewFileStore(path string, log *zap.Logger) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	s := &FileStore{path: path, log: log}
	s.token = s.load()
	return s
}

func (s *FileStore) load() string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Debug("session file unreadable", zap.String("path", s.path), zap.Error(err))
		}
		return ""
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		s.log.Debug("session file corrupt", zap.String("path", s.path), zap.Error(err))
		return ""
	}
	return tok.AccessToken
}

// Get implements Reader.
func (s *FileStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Set writes the token to disk, then to memory.
func (s *FileStore) Set(token string) error {
	if token == "" {
		return s.Clear()
	}
	data, err := json.MarshalIndent(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	s.token = token
	return nil
}

// Clear forgets the token in memory even if the file cannot be removed.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// Token implements oauth2.TokenSource.
func (s *FileStore) Token() (*oauth2.Token, error) {
	return tokenOf(s)
}

func tokenOf(r Reader) (*oauth2.Token, error) {
	tok, ok := r.Get()
	if !ok {
		return nil, service.ErrNotLoggedIn
	}
	return &oauth2.Token{AccessToken: tok, TokenType: "Bearer"}, nil
}

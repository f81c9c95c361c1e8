package session

import (
	"sync"

	"golang.org/x/oauth2"
)

// Memory is a Store that lives only as long as the process.
type Memory struct {
	mu    sync.RWMutex
	token string
}

// NewMemory returns a store preloaded with token (may be empty).
func NewMemory(token string) *Memory {
	return &Memory{token: token}
}

func (m *Memory) Get() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

func (m *Memory) Set(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear() error {
	return m.Set("")
}

func (m *Memory) Token() (*oauth2.Token, error) {
	return tokenOf(m)
}

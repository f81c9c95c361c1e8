// Package auth exchanges credentials for a session token.
package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"taskcli/internal/service"
	"taskcli/internal/session"
)

// Flow runs login and registration against svc and records the resulting
// session in store. A failed attempt leaves store untouched; there are no
// retries.
type Flow struct {
	svc   service.Service
	store session.Store
	log   *zap.Logger
}

// NewFlow creates a Flow.
func NewFlow(svc service.Service, store session.Store, log *zap.Logger) *Flow {
	if log == nil {
		log = zap.NewNop()
	}
	return &Flow{svc: svc, store: store, log: log}
}

// Login authenticates an existing account.
func (f *Flow) Login(ctx context.Context, username, password string) error {
	if err := required("username", username); err != nil {
		return err
	}
	if err := required("password", password); err != nil {
		return err
	}
	token, err := f.svc.Login(ctx, username, password)
	if err != nil {
		f.log.Debug("login rejected", zap.String("username", username), zap.Error(err))
		return err
	}
	return f.establish(token, "login failed")
}

// Register creates an account and logs into it. Email syntax is left to the
// server.
func (f *Flow) Register(ctx context.Context, username, email, password string) error {
	if err := required("username", username); err != nil {
		return err
	}
	if err := required("email", email); err != nil {
		return err
	}
	if err := required("password", password); err != nil {
		return err
	}
	token, err := f.svc.Register(ctx, username, email, password)
	if err != nil {
		f.log.Debug("registration rejected", zap.String("username", username), zap.Error(err))
		return err
	}
	return f.establish(token, "registration failed")
}

func (f *Flow) establish(token, fallback string) error {
	if token == "" {
		return &service.RequestFailedError{Message: fallback + ": server returned no token"}
	}
	if err := f.store.Set(token); err != nil {
		return err
	}
	f.log.Debug("session established")
	return nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &service.ValidationError{Field: field, Reason: "required"}
	}
	return nil
}

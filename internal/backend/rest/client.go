// Package rest implements the service.Service interface against the task REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"taskcli/internal/config"
	"taskcli/internal/service"
	"taskcli/internal/session"
)

// Client implements service.Service over HTTP+JSON.
type Client struct {
	baseURL string
	plain   *http.Client // login, register
	authed  *http.Client // task calls; bearer header from the session store
	store   session.Reader
	log     *zap.Logger
}

// New creates a client for cfg.BaseURL that reads tokens from store.
func New(ctx context.Context, cfg *config.Config, store session.Store) (*Client, error) {
	return NewWithHTTPClient(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout}, store, cfg.Logger())
}

// NewWithHTTPClient creates a client on top of httpClient (for testing).
// The bearer-attaching transport wraps httpClient's transport.
func NewWithHTTPClient(baseURL string, httpClient *http.Client, store session.Store, log *zap.Logger) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	authed := *httpClient
	authed.Transport = &oauth2.Transport{Source: store, Base: httpClient.Transport}

	return &Client{
		baseURL: baseURL,
		plain:   httpClient,
		authed:  &authed,
		store:   store,
		log:     log,
	}, nil
}

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type tokenReply struct {
	Token string `json:"token"`
}

type titleBody struct {
	Title string `json:"title"`
}

// Login implements service.Service.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var reply tokenReply
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/login",
		body:     credentials{Username: username, Password: password},
		out:      &reply,
		fallback: "login failed",
	})
	return reply.Token, err
}

// Register implements service.Service.
func (c *Client) Register(ctx context.Context, username, email, password string) (string, error) {
	var reply tokenReply
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/user/register",
		body:     credentials{Username: username, Email: email, Password: password},
		out:      &reply,
		fallback: "registration failed",
	})
	return reply.Token, err
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/tasks",
		out:      &tasks,
		auth:     true,
		fallback: "failed to load tasks",
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, title string) (service.Task, error) {
	var task service.Task
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/tasks",
		body:     titleBody{Title: title},
		out:      &task,
		auth:     true,
		fallback: "failed to create task",
	})
	return task, err
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id, title string) (service.Task, error) {
	var task service.Task
	err := c.do(ctx, call{
		method:   http.MethodPut,
		path:     "/tasks/" + url.PathEscape(id),
		body:     titleBody{Title: title},
		out:      &task,
		auth:     true,
		fallback: "failed to update task",
	})
	return task, err
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, call{
		method:   http.MethodDelete,
		path:     "/tasks/" + url.PathEscape(id),
		auth:     true,
		fallback: "failed to delete task",
	})
}

// ToggleComplete implements service.Service.
func (c *Client) ToggleComplete(ctx context.Context, id string) (service.Task, error) {
	var task service.Task
	err := c.do(ctx, call{
		method:   http.MethodPatch,
		path:     "/tasks/" + url.PathEscape(id) + "/complete",
		body:     struct{}{},
		out:      &task,
		auth:     true,
		fallback: "failed to update task",
	})
	return task, err
}

// call describes one request. fallback is the user-facing message when the
// server gives none.
type call struct {
	method   string
	path     string
	body     any
	out      any
	auth     bool
	fallback string
}

func (c *Client) do(ctx context.Context, cl call) error {
	if cl.auth {
		if _, ok := c.store.Get(); !ok {
			return service.ErrNotLoggedIn
		}
	}

	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return &service.RequestFailedError{Message: cl.fallback, Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return &service.RequestFailedError{Message: cl.fallback, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hc := c.plain
	if cl.auth {
		hc = c.authed
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", cl.method),
			zap.String("path", cl.path),
			zap.Error(err))
		return transportError(err, cl.fallback)
	}
	defer googleapi.CloseBody(resp)

	c.log.Debug("request",
		zap.String("method", cl.method),
		zap.String("path", cl.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if err := googleapi.CheckResponse(resp); err != nil {
		return statusError(err, resp.StatusCode, cl)
	}

	if cl.out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil {
		return &service.RequestFailedError{
			StatusCode: resp.StatusCode,
			Message:    "invalid response from server",
			Err:        err,
		}
	}
	return nil
}

// transportError maps failures where no response was received.
func transportError(err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrNotLoggedIn):
		// Session cleared between the check and the transport reading it.
		return service.ErrNotLoggedIn
	case errors.Is(err, context.DeadlineExceeded), isTimeout(err):
		return &service.RequestFailedError{Message: "request timed out", Err: err}
	default:
		return &service.RequestFailedError{Message: fallback, Err: err}
	}
}

func isTimeout(err error) bool {
	var ue *url.Error
	return errors.As(err, &ue) && ue.Timeout()
}

// statusError maps a non-2xx response. Authorization denials only mean an
// expired session on authenticated calls.
func statusError(err error, status int, cl call) error {
	if cl.auth && (status == http.StatusUnauthorized || status == http.StatusForbidden) {
		return fmt.Errorf("%w (status %d)", service.ErrSessionExpired, status)
	}
	msg := ""
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		msg = serverMessage(gerr)
	}
	if msg == "" {
		msg = cl.fallback
	}
	return &service.RequestFailedError{StatusCode: status, Message: msg, Err: err}
}

// serverMessage extracts the human-readable error from the response body.
// Accepts {"error": "..."}, {"message": "..."} and google style
// {"error": {"message": "..."}} (already parsed into gerr.Message).
func serverMessage(gerr *googleapi.Error) string {
	if gerr.Message != "" {
		return gerr.Message
	}
	var payload struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(gerr.Body), &payload); err != nil {
		return ""
	}
	if s, ok := payload.Error.(string); ok && s != "" {
		return s
	}
	return payload.Message
}

package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"taskcli/internal/service"
)

// Server is an in-memory task REST API on an httptest.Server.
// Ids are uuids; tasks are served with a Mongo-style "_id" field.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	users  map[string]string // username -> password
	tokens map[string]string // token -> username
	tasks  []service.Task
	forced *forcedReply

	requests atomic.Int64
	lastAuth atomic.Value // string
	lastBody atomic.Value // string
}

type forcedReply struct {
	status int
	body   string
}

// NewServer starts a Server and registers cleanup on t.
func NewServer(t *testing.T) *Server {
	t.Helper()
	s := &Server{
		users:  make(map[string]string),
		tokens: make(map[string]string),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.count)
	r.Post("/auth/login", s.login)
	r.Post("/user/register", s.register)
	r.Route("/tasks", func(r chi.Router) {
		r.Use(s.requireToken)
		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Put("/{id}", s.update)
		r.Delete("/{id}", s.delete)
		r.Patch("/{id}/complete", s.toggle)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// AddUser creates an account.
func (s *Server) AddUser(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = password
}

// IssueToken returns a valid token for username without a login request.
func (s *Server) IssueToken(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issue(username)
}

// AddTask seeds a task.
func (s *Server) AddTask(title string, completed bool) service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := service.Task{ID: uuid.NewString(), Title: title, Completed: completed}
	s.tasks = append(s.tasks, t)
	return t
}

// Tasks returns the server-side state.
func (s *Server) Tasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// RevokeAll invalidates every issued token.
func (s *Server) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]string)
}

// FailNext makes the next request reply with status and raw body.
func (s *Server) FailNext(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forced = &forcedReply{status: status, body: body}
}

// Requests returns the number of requests served.
func (s *Server) Requests() int {
	return int(s.requests.Load())
}

// LastAuthorization returns the Authorization header of the last request.
func (s *Server) LastAuthorization() string {
	v, _ := s.lastAuth.Load().(string)
	return v
}

// LastBody returns the raw body of the last request.
func (s *Server) LastBody() string {
	v, _ := s.lastBody.Load().(string)
	return v
}

func (s *Server) issue(username string) string {
	tok := uuid.NewString()
	s.tokens[tok] = username
	return tok
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		s.lastAuth.Store(r.Header.Get("Authorization"))

		var raw []byte
		if r.Body != nil {
			raw, _ = io.ReadAll(r.Body)
		}
		s.lastBody.Store(string(raw))
		r.Body = io.NopCloser(bytes.NewReader(raw))

		s.mu.Lock()
		forced := s.forced
		s.forced = nil
		s.mu.Unlock()
		if forced != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(forced.status)
			_, _ = w.Write([]byte(forced.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		_, valid := s.tokens[tok]
		s.mu.Unlock()
		if !ok || !valid {
			respondError(w, http.StatusForbidden, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type reqCredentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req reqCredentials
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if pw, ok := s.users[req.Username]; !ok || pw != req.Password {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": s.issue(req.Username)})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req reqCredentials
	if !decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" || !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "Invalid registration data")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[req.Username]; ok {
		respondError(w, http.StatusBadRequest, "User already exists")
		return
	}
	s.users[req.Username] = req.Password
	respondJSON(w, http.StatusCreated, map[string]string{"token": s.issue(req.Username)})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.Tasks())
}

type reqTitle struct {
	Title string `json:"title"`
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var req reqTitle
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusBadRequest, "Title is required")
		return
	}
	respondJSON(w, http.StatusCreated, s.AddTask(req.Title, false))
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	var req reqTitle
	if !decode(w, r, &req) {
		return
	}
	s.patch(w, chi.URLParam(r, "id"), func(t *service.Task) { t.Title = req.Title })
}

func (s *Server) toggle(w http.ResponseWriter, r *http.Request) {
	s.patch(w, chi.URLParam(r, "id"), func(t *service.Task) { t.Completed = !t.Completed })
}

func (s *Server) patch(w http.ResponseWriter, id string, fn func(*service.Task)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			fn(&s.tasks[i])
			respondJSON(w, http.StatusOK, s.tasks[i])
			return
		}
	}
	respondError(w, http.StatusNotFound, "Task not found")
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			respondJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
			return
		}
	}
	respondError(w, http.StatusNotFound, "Task not found")
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}

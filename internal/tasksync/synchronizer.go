// Package tasksync owns the local task list and reconciles it with server
// responses.
//
// The list changes only in reaction to acknowledged server replies: refresh
// replaces it wholesale, create appends, update and toggle replace in place,
// delete removes by id. Nothing is applied before the server answers, and the
// server's representation always wins over what was sent.
//
// A lost session on any operation clears the session store and discards the
// list; callers check service.IsSessionLost on the returned error and route
// back to login.
package tasksync

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"taskcli/internal/service"
	"taskcli/internal/session"
)

// Synchronizer holds the canonical task list for one session.
// The lock is never held across a network call, so operations are not
// serialized against each other.
type Synchronizer struct {
	svc   service.Service
	store session.Store
	log   *zap.Logger

	mu    sync.RWMutex
	tasks []service.Task
}

// New creates a Synchronizer with an empty list.
func New(svc service.Service, store session.Store, log *zap.Logger) *Synchronizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synchronizer{svc: svc, store: store, log: log}
}

// Snapshot returns a copy of the current list.
func (s *Synchronizer) Snapshot() []service.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Lookup returns the task with id from the current list.
func (s *Synchronizer) Lookup(id string) (service.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return service.Task{}, false
}

// Refresh replaces the list with the server's.
func (s *Synchronizer) Refresh(ctx context.Context) ([]service.Task, error) {
	tasks, err := s.svc.ListTasks(ctx)
	if err != nil {
		return s.fail("refresh", err)
	}

	seen := make(map[string]bool, len(tasks))
	fresh := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == "" {
			s.log.Warn("task without id from server", zap.String("title", t.Title))
			continue
		}
		if seen[t.ID] {
			s.log.Warn("duplicate task id from server", zap.String("id", t.ID))
			continue
		}
		seen[t.ID] = true
		fresh = append(fresh, t)
	}

	s.mu.Lock()
	s.tasks = fresh
	s.mu.Unlock()
	return s.Snapshot(), nil
}

// Create adds a task. A blank title is rejected without contacting the server.
func (s *Synchronizer) Create(ctx context.Context, title string) ([]service.Task, error) {
	if strings.TrimSpace(title) == "" {
		return s.Snapshot(), &service.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	task, err := s.svc.CreateTask(ctx, title)
	if err == nil {
		err = checkReply(task)
	}
	if err != nil {
		return s.fail("create", err)
	}

	s.mu.Lock()
	if i := s.index(task.ID); i >= 0 {
		s.tasks[i] = task
	} else {
		s.tasks = append(s.tasks, task)
	}
	s.mu.Unlock()
	return s.Snapshot(), nil
}

// Update retitles a task that is in the current list.
func (s *Synchronizer) Update(ctx context.Context, id, title string) ([]service.Task, error) {
	if _, ok := s.Lookup(id); !ok {
		return s.Snapshot(), fmt.Errorf("%w: %s", service.ErrUnknownTask, id)
	}
	task, err := s.svc.UpdateTask(ctx, id, title)
	if err == nil {
		err = checkReply(task)
	}
	if err != nil {
		return s.fail("update", err)
	}
	s.replace(id, task)
	return s.Snapshot(), nil
}

// Delete removes a task by id.
func (s *Synchronizer) Delete(ctx context.Context, id string) ([]service.Task, error) {
	if err := s.svc.DeleteTask(ctx, id); err != nil {
		return s.fail("delete", err)
	}

	s.mu.Lock()
	if i := s.index(id); i >= 0 {
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	}
	s.mu.Unlock()
	return s.Snapshot(), nil
}

// ToggleComplete asks the server to flip completion. The new state comes from
// the reply, never from negating the local flag.
func (s *Synchronizer) ToggleComplete(ctx context.Context, id string) ([]service.Task, error) {
	task, err := s.svc.ToggleComplete(ctx, id)
	if err == nil {
		err = checkReply(task)
	}
	if err != nil {
		return s.fail("toggle", err)
	}
	s.replace(id, task)
	return s.Snapshot(), nil
}

// checkReply rejects a task the list could not hold: every element needs an id.
func checkReply(task service.Task) error {
	if task.ID == "" {
		return &service.RequestFailedError{Message: "invalid response from server"}
	}
	return nil
}

// replace swaps the element with id for task, appending when id is not in
// the list (it was never refreshed in, or went away meanwhile).
func (s *Synchronizer) replace(id string, task service.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		if j := s.index(task.ID); j >= 0 {
			s.tasks[j] = task
		} else {
			s.tasks = append(s.tasks, task)
		}
		return
	}
	if task.ID != id {
		s.log.Warn("server replied for a different task", zap.String("sent", id), zap.String("got", task.ID))
		// Keep at most one element per id.
		if j := s.index(task.ID); j >= 0 {
			s.tasks = append(s.tasks[:j], s.tasks[j+1:]...)
			if j < i {
				i--
			}
		}
	}
	s.tasks[i] = task
}

// index must be called with mu held.
func (s *Synchronizer) index(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Synchronizer) fail(op string, err error) ([]service.Task, error) {
	if service.IsSessionLost(err) {
		s.log.Info("session lost, clearing", zap.String("op", op), zap.Error(err))
		if cerr := s.store.Clear(); cerr != nil {
			s.log.Warn("failed to clear session", zap.Error(cerr))
		}
		s.mu.Lock()
		s.tasks = nil
		s.mu.Unlock()
		return nil, err
	}
	s.log.Debug("operation failed", zap.String("op", op), zap.Error(err))
	return s.Snapshot(), err
}

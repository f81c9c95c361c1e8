package tasksync

import (
	"context"

	"taskcli/internal/service"
)

// Draft is an in-progress edit of one task's title. It is not synchronized
// state; it only becomes an Update when committed.
type Draft struct {
	TaskID string
	Title  string
}

// Edit starts a draft from the current title of id.
func (s *Synchronizer) Edit(id string) (Draft, bool) {
	t, ok := s.Lookup(id)
	if !ok {
		return Draft{}, false
	}
	return Draft{TaskID: t.ID, Title: t.Title}, true
}

// Commit sends the draft as an update. The draft must reference a task in
// the current list.
func (s *Synchronizer) Commit(ctx context.Context, d Draft) ([]service.Task, error) {
	if d.TaskID == "" {
		return s.Snapshot(), service.ErrUnknownTask
	}
	return s.Update(ctx, d.TaskID, d.Title)
}

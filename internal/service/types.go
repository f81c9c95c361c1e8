package service

import "encoding/json"

// Task represents a single task item.
// ID is always server-assigned; the client never invents one.
type Task struct {
	ID        string `json:"_id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// UnmarshalJSON accepts both "_id" and "id" for the task identity.
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw struct {
		MongoID   string `json:"_id"`
		ID        string `json:"id"`
		Title     string `json:"title"`
		Completed bool   `json:"completed"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.ID = raw.MongoID
	if t.ID == "" {
		t.ID = raw.ID
	}
	t.Title = raw.Title
	t.Completed = raw.Completed
	return nil
}

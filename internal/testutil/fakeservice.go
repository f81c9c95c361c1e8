// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"taskcli/internal/service"
)

// ErrNotFound is returned when a task id is unknown to the fake.
var ErrNotFound = &service.RequestFailedError{StatusCode: 404, Message: "task not found"}

// FakeService is an in-memory implementation of service.Service for testing.
// Ids are assigned sequentially starting at "1".
type FakeService struct {
	mu     sync.Mutex
	tasks  []service.Task
	nextID int
	users  map[string]string // username -> password
	calls  map[string]int

	// Token is returned by Login and Register.
	Token string

	// Expired makes every task operation fail with service.ErrSessionExpired.
	Expired bool

	// Rewrite, when set, is applied to every task before it is returned,
	// standing in for server-side normalization or concurrent edits.
	Rewrite func(service.Task) service.Task

	// Error injection for testing
	LoginErr    error
	RegisterErr error
	ListErr     error
	CreateErr   error
	UpdateErr   error
	DeleteErr   error
	ToggleErr   error
}

// NewFakeService creates an empty FakeService that issues token "t1".
func NewFakeService() *FakeService {
	return &FakeService{
		nextID: 1,
		users:  make(map[string]string),
		calls:  make(map[string]int),
		Token:  "t1",
	}
}

// AddUser registers credentials accepted by Login.
func (f *FakeService) AddUser(username, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = password
}

// AddTask seeds a task and returns it.
func (f *FakeService) AddTask(title string, completed bool) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insert(title, completed)
}

// Tasks returns the server-side state.
func (f *FakeService) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Calls returns how many times op was invoked ("ListTasks", "CreateTask", ...).
func (f *FakeService) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// TotalCalls returns the number of calls across all operations.
func (f *FakeService) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *FakeService) insert(title string, completed bool) service.Task {
	t := service.Task{ID: strconv.Itoa(f.nextID), Title: title, Completed: completed}
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t
}

func (f *FakeService) begin(op string, injected error, authed bool) error {
	f.calls[op]++
	if authed && f.Expired {
		return service.ErrSessionExpired
	}
	return injected
}

func (f *FakeService) out(t service.Task) service.Task {
	if f.Rewrite != nil {
		return f.Rewrite(t)
	}
	return t
}

func (f *FakeService) index(id string) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, username, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("Login", f.LoginErr, false); err != nil {
		return "", err
	}
	if pw, ok := f.users[username]; ok && pw != password {
		return "", &service.RequestFailedError{StatusCode: 401, Message: "invalid credentials"}
	}
	return f.Token, nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, username, email, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("Register", f.RegisterErr, false); err != nil {
		return "", err
	}
	if _, ok := f.users[username]; ok {
		return "", &service.RequestFailedError{StatusCode: 400, Message: "user already exists"}
	}
	f.users[username] = password
	return f.Token, nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("ListTasks", f.ListErr, true); err != nil {
		return nil, err
	}
	out := make([]service.Task, len(f.tasks))
	for i, t := range f.tasks {
		out[i] = f.out(t)
	}
	return out, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, title string) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("CreateTask", f.CreateErr, true); err != nil {
		return service.Task{}, err
	}
	return f.out(f.insert(title, false)), nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id, title string) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("UpdateTask", f.UpdateErr, true); err != nil {
		return service.Task{}, err
	}
	i := f.index(id)
	if i < 0 {
		return service.Task{}, ErrNotFound
	}
	f.tasks[i].Title = title
	return f.out(f.tasks[i]), nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("DeleteTask", f.DeleteErr, true); err != nil {
		return err
	}
	i := f.index(id)
	if i < 0 {
		return ErrNotFound
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return nil
}

// ToggleComplete implements service.Service.
func (f *FakeService) ToggleComplete(ctx context.Context, id string) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("ToggleComplete", f.ToggleErr, true); err != nil {
		return service.Task{}, err
	}
	i := f.index(id)
	if i < 0 {
		return service.Task{}, ErrNotFound
	}
	f.tasks[i].Completed = !f.tasks[i].Completed
	return f.out(f.tasks[i]), nil
}

// SetCompleted changes a task behind the client's back.
func (f *FakeService) SetCompleted(id string, completed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.index(id)
	if i < 0 {
		return errors.New("no such task: " + id)
	}
	f.tasks[i].Completed = completed
	return nil
}

// Package route decides which view a session is allowed to see.
package route

import "taskcli/internal/session"

// View is what the user is presented with.
type View int

const (
	LoginView View = iota
	TaskView
)

func (v View) String() string {
	switch v {
	case LoginView:
		return "login"
	case TaskView:
		return "tasks"
	default:
		return "unknown"
	}
}

// Resolve returns TaskView when store holds a token, LoginView otherwise.
func Resolve(store session.Reader) View {
	if _, ok := store.Get(); ok {
		return TaskView
	}
	return LoginView
}

// Logout ends the session locally. The returned view is always LoginView;
// err reports a failure to remove the persisted token.
func Logout(store session.Store) (View, error) {
	return LoginView, store.Clear()
}

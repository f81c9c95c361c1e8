package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskcli/internal/backend/rest"
	"taskcli/internal/cli"
	"taskcli/internal/commands"
	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/service"
	"taskcli/internal/session"
	"taskcli/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, store session.Store) (service.Service, error) {
		return svc, nil
	}
}

// restFactory builds the real HTTP backend, as main does.
func restFactory(ctx context.Context, cfg *config.Config, store session.Store) (service.Service, error) {
	return rest.New(ctx, cfg, store)
}

// loggedIn seeds a token file in a fresh config dir and returns the dir.
func loggedIn(t *testing.T, token string) string {
	t.Helper()
	dir := t.TempDir()
	if err := session.NewFileStore(filepath.Join(dir, config.TokenFile), nil).Set(token); err != nil {
		t.Fatalf("failed to seed token: %v", err)
	}
	return dir
}

func run(d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	var out, errOut bytes.Buffer
	code = d.Run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(dispatcher, "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(dispatcher, "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	stdout, stderr, code := run(dispatcher, "help", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	stdout, _, code := run(dispatcher, "version", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "taskcli 0.1.0\n" {
		t.Errorf("expected 'taskcli 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(dispatcher, "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(dispatcher, "list", "--config")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -config\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_InvalidServer(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(dispatcher, "config", "--config", t.TempDir(), "--server", "ftp://x")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "invalid base url") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_GuardRequiresLogin(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	for _, args := range [][]string{nil, {"add", "x"}, {"toggle", "1"}, {"rm", "1"}, {"edit", "1", "t"}} {
		_, stderr, code := run(dispatcher, args...)

		if code != exitcode.AuthError {
			t.Errorf("%v: expected exit code %d, got %d", args, exitcode.AuthError, code)
		}
		if stderr != "error: not logged in (run: taskcli login)\n" {
			t.Errorf("%v: unexpected stderr %q", args, stderr)
		}
	}
	if svc.TotalCalls() != 0 {
		t.Errorf("guarded commands must not reach the service, got %d calls", svc.TotalCalls())
	}
}

func TestDispatcher_DefaultIsList(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("buy milk", false)
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))
	t.Setenv("XDG_CONFIG_HOME", filepath.Dir(loggedInAt(t, "taskcli", "t1")))

	stdout, stderr, code := run(dispatcher)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "   1  [ ] buy milk\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

// loggedInAt seeds a token under <tmp>/<name> and returns that directory.
func loggedInAt(t *testing.T, name, token string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	if err := session.NewFileStore(filepath.Join(dir, config.TokenFile), nil).Set(token); err != nil {
		t.Fatalf("failed to seed token: %v", err)
	}
	return dir
}

func TestDispatcher_DebugLogsToStderr(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))
	dir := loggedIn(t, "t1")

	stdout, stderr, code := run(dispatcher, "list", "--config", dir, "--debug")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if !strings.Contains(stderr, "dispatch") {
		t.Errorf("expected debug log on stderr, got %q", stderr)
	}
}

// TestDispatcher_EndToEnd drives the real HTTP client against the fake server.
func TestDispatcher_EndToEnd(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.AddUser("alice", "pw")
	dir := t.TempDir()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, restFactory)
	common := []string{"--config", dir, "--server", srv.URL}

	steps := []struct {
		args   []string
		code   int
		stdout string
	}{
		{[]string{"login", "alice", "pw"}, exitcode.Success, "logged in as alice\n"},
		{[]string{"list"}, exitcode.Success, "no tasks found\n"},
		{[]string{"add", "buy", "milk"}, exitcode.Success, "ok\n"},
		{[]string{"create", "walk dog"}, exitcode.Success, "ok\n"},
		{[]string{"done", "1"}, exitcode.Success, "ok\n"},
		{[]string{"list"}, exitcode.Success, "   1  [x] buy milk\n   2  [ ] walk dog\n"},
		{[]string{"edit", "2", "walk", "cat"}, exitcode.Success, "ok\n"},
		{[]string{"rm", "1"}, exitcode.Success, "ok\n"},
		{[]string{"list"}, exitcode.Success, "   1  [ ] walk cat\n"},
		{[]string{"logout"}, exitcode.Success, "ok\n"},
		{[]string{"list"}, exitcode.AuthError, ""},
	}

	for _, step := range steps {
		// Common flags go between the command and its arguments.
		args := append(append([]string{step.args[0]}, common...), step.args[1:]...)
		stdout, stderr, code := run(dispatcher, args...)
		if code != step.code {
			t.Fatalf("%v: expected exit code %d, got %d (stderr %q)", step.args, step.code, code, stderr)
		}
		if stdout != step.stdout {
			t.Fatalf("%v: expected %q, got %q", step.args, step.stdout, stdout)
		}
	}
}

// TestDispatcher_ServerRevokesSession checks that a 403 clears the stored token.
func TestDispatcher_ServerRevokesSession(t *testing.T) {
	srv := testutil.NewServer(t)
	dir := loggedIn(t, srv.IssueToken("alice"))
	srv.RevokeAll()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, restFactory)

	_, stderr, code := run(dispatcher, "list", "--config", dir, "--server", srv.URL)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: session expired (run: taskcli login)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, config.TokenFile)); !os.IsNotExist(err) {
		t.Error("token file should be removed after expiry")
	}

	// The next task command is stopped by the guard without a request.
	before := srv.Requests()
	_, _, code = run(dispatcher, "list", "--config", dir, "--server", srv.URL)
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if srv.Requests() != before {
		t.Error("guard should stop the request")
	}
}

// Package main is the entry point for the taskcli CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"taskcli/internal/backend/rest"
	"taskcli/internal/cli"
	"taskcli/internal/commands"
	"taskcli/internal/config"
	"taskcli/internal/service"
	"taskcli/internal/session"
)

func main() {
	// TASKCLI_* settings may come from a .env in the working directory.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := func(ctx context.Context, cfg *config.Config, store session.Store) (service.Service, error) {
		return rest.New(ctx, cfg, store)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	dispatcher.SetInput(os.Stdin)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/route"
	"taskcli/internal/service"
	"taskcli/internal/session"
)

func init() {
	Register(&ConfigCmd{})
}

// ConfigCmd prints the effective settings.
type ConfigCmd struct{}

type effectiveConfig struct {
	Dir      string `yaml:"config_dir"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
	Token    string `yaml:"token_file"`
	LoggedIn bool   `yaml:"logged_in"`
}

func (c *ConfigCmd) Name() string      { return "config" }
func (c *ConfigCmd) Aliases() []string { return nil }
func (c *ConfigCmd) Synopsis() string  { return "Print effective configuration" }
func (c *ConfigCmd) Usage() string     { return "taskcli config [common flags]" }
func (c *ConfigCmd) NeedsAuth() bool   { return false }

func (c *ConfigCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ConfigCmd) Run(ctx context.Context, cfg *config.Config, store session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	data, err := yaml.Marshal(effectiveConfig{
		Dir:      cfg.Dir,
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.Timeout.String(),
		Token:    cfg.TokenPath(),
		LoggedIn: route.Resolve(store) == route.TaskView,
	})
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	_, _ = out.Write(data)
	return exitcode.Success
}

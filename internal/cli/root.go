package cli

import (
	"log/slog"
	"os"

	"github.com/aretw0/svgo/internal/logging"
	"github.com/aretw0/svgo/pkg/config"
	"github.com/spf13/cobra"
)

// NewRootCommand returns the bare svgo program object. Register attaches
// everything else.
func NewRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "svgo [INPUT...]",
		Short: "svgo is a Go SVG optimizer",
		Long: `svgo optimizes SVG files: it strips attribute noise, minifies ids,
rounds numbers, shortens colors and collapses useless groups.

Inputs can be files, folders, a string or stdin.`,
		Args: cobra.ArbitraryArgs,
	}
}

// globals are the persistent flags shared by every command.
type globals struct {
	configPath string
	debug      bool
	quiet      bool
	logger     *slog.Logger
}

// loadConfig reads --config, or the nearest svgo.config.* above the working
// directory.
func (g *globals) loadConfig() (*config.Config, error) {
	if g.configPath != "" {
		return config.Load(g.configPath)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, path, err := config.Discover(wd)
	if err != nil {
		return nil, err
	}
	if path != "" {
		g.logger.Debug("Config discovered", "path", path)
	}
	return cfg, nil
}

// Register attaches the optimize handler, its flags and the subcommands to root.
func Register(root *cobra.Command) {
	g := &globals{logger: logging.NewNop()}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Config file (default: nearest svgo.config.yaml|yml|json)")
	root.PersistentFlags().BoolVar(&g.debug, "debug", false, "Enable debug logs on stderr")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		g.logger = logging.ForFlags(cmd.ErrOrStderr(), g.debug, g.quiet)
	}

	registerOptimize(root, g)
	root.AddCommand(
		newServeCommand(g),
		newMCPCommand(g),
		newPluginsCommand(),
		newVersionCommand(),
	)
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/BlockFit/internal/model"
	"github.com/piwi3910/BlockFit/internal/project"
)

// recentJobsLimit bounds the recent job list kept in the config file.
const recentJobsLimit = 10

var version = "dev"

// SetVersion sets the version displayed by --version. It is typically called
// by the main package with a value injected via ldflags.
func SetVersion(v string) {
	version = v
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out        io.Writer
	configPath string
	verbose    bool
	config     model.AppConfig
}

// New creates a CLI that prints results to out and logs to errOut.
func New(out, errOut io.Writer) *CLI {
	return &CLI{
		Logger: newLogger(errOut, log.InfoLevel),
		out:    out,
		config: model.DefaultAppConfig(),
	}
}

// Execute runs the blockfit CLI with the process arguments.
func Execute(ctx context.Context) error {
	return New(os.Stdout, os.Stderr).RootCommand().ExecuteContext(ctx)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "blockfit",
		Short: "BlockFit places rectangular blocks inside a container",
		Long: `BlockFit places a set of rectangular blocks inside a fixed-size container.

Blocks are taken longest side first and each one goes to the free grid
position that keeps the layout most compact. The result reports every
placement and how full the container ends up.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := project.LoadAppConfig(c.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			c.config = cfg
			c.Logger.SetLevel(c.logLevel())
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", project.DefaultConfigPath(), "config file")

	root.AddCommand(c.placeCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.templateCommand())
	root.AddCommand(c.configCommand())

	return root
}

// logLevel resolves the level from --verbose and the config file.
func (c *CLI) logLevel() log.Level {
	if c.verbose {
		return log.DebugLevel
	}
	level, err := log.ParseLevel(c.config.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// templatesPath keeps templates next to the config file in use.
func (c *CLI) templatesPath() string {
	return filepath.Join(filepath.Dir(c.configPath), "templates.json")
}

func (c *CLI) printer() printer {
	return printer{w: c.out}
}

// configExists reports whether the config file has been written.
func (c *CLI) configExists() bool {
	_, err := os.Stat(c.configPath)
	return err == nil
}

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BlockFit/internal/model"
	"github.com/piwi3910/BlockFit/internal/project"
)

// configCommand creates the config command group.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the blockfit config file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			c.printer().line("%s", c.configPath)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(c.config, "", "  ")
			if err != nil {
				return err
			}
			c.printer().line("%s", data)
			return nil
		},
	})
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configExportCommand())
	cmd.AddCommand(c.configImportCommand())
	return cmd
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.configExists() && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", c.configPath)
			}
			if err := project.SaveAppConfig(c.configPath, model.DefaultAppConfig()); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			p := c.printer()
			p.success("Wrote default config")
			p.file(c.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func (c *CLI) configExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <backup-file>",
		Short: "Back up the config and templates to one JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := project.LoadTemplates(c.templatesPath())
			if err != nil {
				return fmt.Errorf("load templates: %w", err)
			}
			if err := project.ExportAllData(args[0], c.config, templates); err != nil {
				return err
			}
			p := c.printer()
			p.success("Exported config and %d templates", len(templates.Templates))
			p.file(args[0])
			return nil
		},
	}
}

func (c *CLI) configImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <backup-file>",
		Short: "Restore the config and templates from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveAppConfig(c.configPath, backup.Config); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			if err := project.SaveTemplates(c.templatesPath(), backup.Templates); err != nil {
				return fmt.Errorf("write templates: %w", err)
			}
			loggerFromContext(cmd.Context()).Debug("restored backup", "version", backup.Version, "created", backup.CreatedAt)
			c.printer().success("Restored config and %d templates", len(backup.Templates.Templates))
			return nil
		},
	}
}

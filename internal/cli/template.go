package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BlockFit/internal/model"
	"github.com/piwi3910/BlockFit/internal/project"
)

// templateCommand creates the template command group.
func (c *CLI) templateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage saved job templates",
	}
	cmd.AddCommand(c.templateListCommand())
	cmd.AddCommand(c.templateSaveCommand())
	cmd.AddCommand(c.templateRemoveCommand())
	return cmd
}

func (c *CLI) templateListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadTemplates(c.templatesPath())
			if err != nil {
				return fmt.Errorf("load templates: %w", err)
			}
			p := c.printer()
			if len(store.Templates) == 0 {
				p.line("No templates saved.")
				return nil
			}
			for _, t := range store.Templates {
				p.keyValue(t.Name, fmt.Sprintf("%d blocks, %d x %d  %s",
					len(t.Blocks), t.Container.Width, t.Container.Height, t.Description))
			}
			return nil
		},
	}
}

func (c *CLI) templateSaveCommand() *cobra.Command {
	var (
		jf          jobFlags
		description string
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "save <name> <blocks-file>",
		Short: "Save the blocks, container and settings of a file as a template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, input := args[0], args[1]
			job, err := c.resolveJob(cmd.Context(), cmd.Flags(), input, jf)
			if err != nil {
				return err
			}

			path := c.templatesPath()
			store, err := project.LoadTemplates(path)
			if err != nil {
				return fmt.Errorf("load templates: %w", err)
			}
			if existing := store.FindByName(name); existing != nil {
				if !force {
					return fmt.Errorf("template %q already exists (use --force to replace it)", name)
				}
				store.Remove(existing.ID)
				c.printer().warning("Replacing template %q", name)
			}

			store.Add(model.NewJobTemplate(name, description, job.Container, job.Blocks, job.Settings))
			if err := project.SaveTemplates(path, store); err != nil {
				return fmt.Errorf("save templates: %w", err)
			}
			c.printer().success("Saved template %q with %d blocks", name, len(job.Blocks))
			return nil
		},
	}

	jf.register(cmd.Flags())
	cmd.Flags().StringVar(&description, "description", "", "template description")
	cmd.Flags().BoolVar(&force, "force", false, "replace a template with the same name")
	return cmd
}

func (c *CLI) templateRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a saved template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.templatesPath()
			store, err := project.LoadTemplates(path)
			if err != nil {
				return fmt.Errorf("load templates: %w", err)
			}
			tmpl := store.FindByName(args[0])
			if tmpl == nil {
				return fmt.Errorf("template %q not found", args[0])
			}
			store.Remove(tmpl.ID)
			if err := project.SaveTemplates(path, store); err != nil {
				return fmt.Errorf("save templates: %w", err)
			}
			c.printer().success("Removed template %q", args[0])
			return nil
		},
	}
}

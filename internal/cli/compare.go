package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BlockFit/internal/engine"
)

// compareCommand creates the compare command.
func (c *CLI) compareCommand() *cobra.Command {
	var jf jobFlags

	cmd := &cobra.Command{
		Use:   "compare [blocks-file]",
		Short: "Compare placements under alternative settings",
		Long: `Compare placements under alternative settings.

The blocks are placed with the current settings, with the other cost
strategy, and with rotation disabled. One line is printed per scenario.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			job, err := c.resolveJob(cmd.Context(), cmd.Flags(), input, jf)
			if err != nil {
				return err
			}

			scenarios := engine.BuildDefaultScenarios(job.Settings)
			results := engine.CompareScenarios(scenarios, job.Blocks, job.Container)

			p := c.printer()
			p.title("%s: %d blocks in %d x %d", jobName(job), len(job.Blocks), job.Container.Width, job.Container.Height)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				if r.Err != nil {
					rows = append(rows, []string{r.Scenario.Name, fmt.Sprintf("failed: %v", r.Err), "", "", ""})
					continue
				}
				rows = append(rows, []string{
					r.Scenario.Name,
					fmt.Sprintf("%.2f", r.Fullness),
					fmt.Sprintf("%d x %d", r.BoundingRight, r.BoundingBottom),
					strconv.Itoa(r.BoundingWaste),
					strconv.Itoa(r.RotatedCount),
				})
			}
			p.table([]string{"SCENARIO", "FULLNESS", "BOUNDING BOX", "WASTE", "ROTATED"}, rows)
			return nil
		},
	}

	jf.register(cmd.Flags())
	return cmd
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/piwi3910/BlockFit/internal/engine"
	"github.com/piwi3910/BlockFit/internal/export"
	"github.com/piwi3910/BlockFit/internal/importer"
	"github.com/piwi3910/BlockFit/internal/model"
	"github.com/piwi3910/BlockFit/internal/project"
)

// jobFlags are the flags shared by every command that builds a job.
type jobFlags struct {
	width    int
	height   int
	cost     string
	label    string
	noRotate bool
	template string
}

func (f *jobFlags) register(flags *pflag.FlagSet) {
	flags.IntVar(&f.width, "width", 0, "container width (default: from file or config)")
	flags.IntVar(&f.height, "height", 0, "container height (default: from file or config)")
	flags.StringVar(&f.cost, "cost", "", "cost strategy: bounding-waste, origin-distance")
	flags.StringVar(&f.label, "label", "", "label mode: sorted-rank, input-index")
	flags.BoolVar(&f.noRotate, "no-rotate", false, "never rotate blocks")
	flags.StringVarP(&f.template, "template", "t", "", "place a saved template instead of a file")
}

// placeCommand creates the place command.
func (c *CLI) placeCommand() *cobra.Command {
	var (
		jf         jobFlags
		asJSON     bool
		pdfPath    string
		labelsPath string
		title      string
	)

	cmd := &cobra.Command{
		Use:   "place [blocks-file]",
		Short: "Place blocks inside a container",
		Long: `Place blocks inside a container.

Blocks are read from CSV, Excel, JSON, TOML or DXF files, or from a saved
template. The container comes from --width/--height, then the file, then the
config defaults.

With --json the result is printed as
  {"fullness": 0.16, "placements": [{"left": 0, "top": 0, "right": 4, "bottom": 4, "originalOrder": 1}]}`,
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

			result, err := c.place(cmd.Context(), job)
			if err != nil {
				return err
			}

			if asJSON {
				if err := writeResultJSON(c.out, result); err != nil {
					return fmt.Errorf("write json: %w", err)
				}
			} else {
				c.printResult(job, result)
			}

			if pdfPath != "" {
				if title == "" {
					title = job.Name
				}
				if err := export.ExportPDF(pdfPath, result, title); err != nil {
					return fmt.Errorf("export pdf %s: %w", pdfPath, err)
				}
				c.reportFile(asJSON, pdfPath)
			}
			if labelsPath != "" {
				if err := export.ExportLabels(labelsPath, result); err != nil {
					return fmt.Errorf("export labels %s: %w", labelsPath, err)
				}
				c.reportFile(asJSON, labelsPath)
			}

			if input != "" {
				c.rememberJob(cmd.Context(), input)
			}
			return nil
		},
	}

	jf.register(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "write a PDF layout report")
	cmd.Flags().StringVar(&labelsPath, "labels", "", "write a PDF sheet of QR-coded block labels")
	cmd.Flags().StringVar(&title, "title", "", "report title (default: job name)")

	return cmd
}

// resolveJob loads the blocks and layers container and settings from the
// config defaults, the input file and the flags, in increasing precedence.
func (c *CLI) resolveJob(ctx context.Context, flags *pflag.FlagSet, input string, jf jobFlags) (model.Job, error) {
	logger := loggerFromContext(ctx)

	var job model.Job
	switch {
	case jf.template != "" && input != "":
		return model.Job{}, fmt.Errorf("give either a blocks file or --template, not both")
	case jf.template != "":
		store, err := project.LoadTemplates(c.templatesPath())
		if err != nil {
			return model.Job{}, fmt.Errorf("load templates: %w", err)
		}
		tmpl := store.FindByName(jf.template)
		if tmpl == nil {
			return model.Job{}, fmt.Errorf("template %q not found", jf.template)
		}
		job = tmpl.ToJob(tmpl.Name)
	case input != "":
		settings := model.DefaultSettings()
		c.config.ApplyToSettings(&settings)

		res := importer.ImportFile(input)
		for _, w := range res.Warnings {
			logger.Warn(w, "file", input)
		}
		if len(res.Errors) > 0 {
			for _, e := range res.Errors {
				logger.Error(e, "file", input)
			}
			return model.Job{}, fmt.Errorf("import %s: %s", input, strings.Join(res.Errors, "; "))
		}
		if len(res.Blocks) == 0 {
			return model.Job{}, fmt.Errorf("import %s: no blocks found", input)
		}
		job = res.Job(c.config.DefaultContainer(), settings)
	default:
		return model.Job{}, fmt.Errorf("a blocks file or --template is required")
	}

	if flags.Changed("width") {
		job.Container.Width = jf.width
	}
	if flags.Changed("height") {
		job.Container.Height = jf.height
	}
	if flags.Changed("cost") {
		cost, err := model.ParseCostStrategy(jf.cost)
		if err != nil {
			return model.Job{}, err
		}
		job.Settings.Cost = cost
	}
	if flags.Changed("label") {
		label, err := model.ParseLabelMode(jf.label)
		if err != nil {
			return model.Job{}, err
		}
		job.Settings.Label = label
	}
	if jf.noRotate {
		job.Settings.AllowRotation = false
	}

	logger.Debug("resolved job", "name", job.Name, "blocks", len(job.Blocks),
		"width", job.Container.Width, "height", job.Container.Height,
		"cost", job.Settings.Cost, "label", job.Settings.Label, "rotate", job.Settings.AllowRotation)
	return job, nil
}

// place runs the placer with the context's logger attached.
func (c *CLI) place(ctx context.Context, job model.Job) (model.Result, error) {
	logger := loggerFromContext(ctx)

	result, err := engine.New(job.Settings).WithLogger(logger).Place(job.Blocks, job.Container)
	if err != nil {
		return model.Result{}, fmt.Errorf("place %s: %w", jobName(job), err)
	}
	logger.Info("placed blocks", "count", len(result.Placements), "fullness", fmt.Sprintf("%.2f", result.Fullness))
	return result, nil
}

func jobName(job model.Job) string {
	if job.Name == "" {
		return "job"
	}
	return job.Name
}

// placementOutput is the JSON shape of one placement.
type placementOutput struct {
	Left          int `json:"left"`
	Top           int `json:"top"`
	Right         int `json:"right"`
	Bottom        int `json:"bottom"`
	OriginalOrder int `json:"originalOrder"`
}

// resultOutput is the JSON shape of a placement result.
type resultOutput struct {
	Fullness   float64           `json:"fullness"`
	Placements []placementOutput `json:"placements"`
}

func newResultOutput(result model.Result) resultOutput {
	out := resultOutput{
		Fullness:   result.Fullness,
		Placements: make([]placementOutput, len(result.Placements)),
	}
	for i, p := range result.Placements {
		out.Placements[i] = placementOutput{
			Left:          p.Left,
			Top:           p.Top,
			Right:         p.Right,
			Bottom:        p.Bottom,
			OriginalOrder: p.OriginalOrder,
		}
	}
	return out
}

func writeResultJSON(w io.Writer, result model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newResultOutput(result))
}

// printResult prints the placement table followed by the fullness line.
func (c *CLI) printResult(job model.Job, result model.Result) {
	p := c.printer()
	p.title("%s: %d blocks in %d x %d", jobName(job), len(result.Placements), job.Container.Width, job.Container.Height)

	rows := make([][]string, 0, len(result.Placements))
	for _, pb := range result.Placements {
		rotated := ""
		if pb.Rotated {
			rotated = "yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(pb.OriginalOrder), pb.Block.Label,
			strconv.Itoa(pb.Left), strconv.Itoa(pb.Top), strconv.Itoa(pb.Right), strconv.Itoa(pb.Bottom),
			rotated,
		})
	}
	p.table([]string{"BLOCK", "LABEL", "LEFT", "TOP", "RIGHT", "BOTTOM", "ROTATED"}, rows)

	right, bottom := result.BoundingBox()
	p.keyValue("Bounding box", fmt.Sprintf("%d x %d (waste %d)", right, bottom, result.BoundingWaste))
	p.line("%s", export.FullnessLine(result))
}

// reportFile announces a written file without disturbing JSON output.
func (c *CLI) reportFile(asJSON bool, path string) {
	if asJSON {
		c.Logger.Info("wrote file", "path", path)
		return
	}
	c.printer().file(path)
}

// rememberJob records the input in the recent job list when a config file
// is in use.
func (c *CLI) rememberJob(ctx context.Context, input string) {
	if !c.configExists() {
		return
	}
	abs, err := filepath.Abs(input)
	if err != nil {
		abs = input
	}
	c.config.AddRecentJob(abs, recentJobsLimit)
	if err := project.SaveAppConfig(c.configPath, c.config); err != nil {
		loggerFromContext(ctx).Warn("could not update recent jobs", "err", err)
	}
}

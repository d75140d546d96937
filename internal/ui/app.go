package ui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"

	"github.com/piwi3910/BlockFit/internal/engine"
	"github.com/piwi3910/BlockFit/internal/export"
	"github.com/piwi3910/BlockFit/internal/importer"
	"github.com/piwi3910/BlockFit/internal/model"
	"github.com/piwi3910/BlockFit/internal/project"
	"github.com/piwi3910/BlockFit/internal/ui/widgets"
)

const recentJobsLimit = 10

// App holds all viewer state and UI references.
type App struct {
	window     fyne.Window
	logger     *log.Logger
	config     model.AppConfig
	configPath string

	job     model.Job
	result  *model.Result
	history *History
	tabs    *container.AppTabs

	// UI references for dynamic updates
	blocksContainer   *fyne.Container
	settingsContainer *fyne.Container
	resultContainer   *fyne.Container
}

// NewApp creates the viewer. The new job starts from the config defaults.
func NewApp(window fyne.Window, config model.AppConfig, configPath string, logger *log.Logger) *App {
	a := &App{
		window:     window,
		logger:     logger,
		config:     config,
		configPath: configPath,
		job:        model.NewJob(),
		history:    NewHistory(),
	}
	a.resetJob()
	return a
}

func (a *App) resetJob() {
	a.job = model.NewJob()
	a.job.Container = a.config.DefaultContainer()
	a.config.ApplyToSettings(&a.job.Settings)
	a.result = nil
	a.history.Clear()
}

// Job returns the job being edited.
func (a *App) Job() model.Job {
	return a.job
}

// Result returns the last placement, or nil before the first one.
func (a *App) Result() *model.Result {
	return a.result
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Job", func() {
			a.resetJob()
			a.refreshAll()
		}),
		fyne.NewMenuItem("Open Blocks File...", a.openFileDialog),
		fyne.NewMenuItem("Open Template...", a.openTemplateDialog),
		fyne.NewMenuItem("Save as Template...", a.saveTemplateDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF Report...", a.exportPDF),
		fyne.NewMenuItem("Export Block Labels...", a.exportLabels),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() { a.Undo() }),
		fyne.NewMenuItem("Redo", func() { a.Redo() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Add Block", a.showBlockDialog(-1)),
		fyne.NewMenuItem("Clear All Blocks", func() {
			a.edit("Clear Blocks", func(j *model.Job) { j.Blocks = nil })
		}),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Place", func() {
			a.runPlace()
			a.tabs.SelectIndex(2)
		}),
		fyne.NewMenuItem("Compare Settings", a.showCompareDialog),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation("About BlockFit",
				"BlockFit places rectangular blocks inside a container,\n"+
					"longest side first, at the most compact free position.",
				a.window)
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.tabs = container.NewAppTabs(
		container.NewTabItem("Blocks", a.buildBlocksPanel()),
		container.NewTabItem("Settings", a.buildSettingsPanel()),
		container.NewTabItem("Layout", a.buildResultsPanel()),
	)
	a.tabs.SetTabLocation(container.TabLocationTop)
	return a.tabs
}

func (a *App) refreshAll() {
	a.refreshBlocksList()
	a.refreshSettings()
	a.refreshResults()
}

// edit records an undo snapshot, applies fn to the job and drops the now
// stale layout.
func (a *App) edit(label string, fn func(*model.Job)) {
	a.history.Push(MakeSnapshot(a.job, label))
	fn(&a.job)
	a.result = nil
	a.refreshAll()
}

// Undo restores the previous job state. It reports whether anything changed.
func (a *App) Undo() bool {
	snap, ok := a.history.Undo(MakeSnapshot(a.job, "current"))
	if !ok {
		return false
	}
	snap.Apply(&a.job)
	a.result = nil
	a.refreshAll()
	return true
}

// Redo re-applies an undone change. It reports whether anything changed.
func (a *App) Redo() bool {
	snap, ok := a.history.Redo(MakeSnapshot(a.job, "current"))
	if !ok {
		return false
	}
	snap.Apply(&a.job)
	a.result = nil
	a.refreshAll()
	return true
}

// ─── Blocks Panel ──────────────────────────────────────────

func (a *App) buildBlocksPanel() fyne.CanvasObject {
	a.blocksContainer = container.NewVBox()
	a.refreshBlocksList()

	addBtn := widget.NewButtonWithIcon("Add Block", theme.ContentAddIcon(), a.showBlockDialog(-1))
	placeBtn := widget.NewButtonWithIcon("Place", theme.MediaPlayIcon(), func() {
		a.runPlace()
		a.tabs.SelectIndex(2)
	})

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Blocks", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			addBtn,
			placeBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.blocksContainer),
	)
}

func (a *App) refreshBlocksList() {
	if a.blocksContainer == nil {
		return
	}
	a.blocksContainer.RemoveAll()

	if len(a.job.Blocks) == 0 {
		a.blocksContainer.Add(widget.NewLabel("No blocks yet. Open a file or click 'Add Block' to begin."))
		return
	}

	bold := fyne.TextStyle{Bold: true}
	a.blocksContainer.Add(container.NewGridWithColumns(6,
		widget.NewLabelWithStyle("Label", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Width", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Height", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Locked", fyne.TextAlignLeading, bold),
		widget.NewLabel(""),
		widget.NewLabel(""),
	))
	a.blocksContainer.Add(widget.NewSeparator())

	for i, b := range a.job.Blocks {
		idx := i
		locked := ""
		if b.Locked {
			locked = "yes"
		}
		a.blocksContainer.Add(container.NewGridWithColumns(6,
			widget.NewLabel(b.Label),
			widget.NewLabel(strconv.Itoa(b.Width)),
			widget.NewLabel(strconv.Itoa(b.Height)),
			widget.NewLabel(locked),
			widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), a.showBlockDialog(idx)),
			widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
				a.RemoveBlock(idx)
			}),
		))
	}
}

// AddBlock appends a block to the job.
func (a *App) AddBlock(b model.Block) {
	a.edit("Add Block", func(j *model.Job) {
		j.Blocks = append(j.Blocks, b)
	})
}

// RemoveBlock deletes the block at idx.
func (a *App) RemoveBlock(idx int) {
	if idx < 0 || idx >= len(a.job.Blocks) {
		return
	}
	a.edit("Remove Block", func(j *model.Job) {
		blocks := make([]model.Block, 0, len(j.Blocks)-1)
		blocks = append(blocks, j.Blocks[:idx]...)
		j.Blocks = append(blocks, j.Blocks[idx+1:]...)
	})
}

// showBlockDialog returns a handler opening the add dialog (idx < 0) or the
// edit dialog for the block at idx.
func (a *App) showBlockDialog(idx int) func() {
	return func() {
		b := model.NewBlock(fmt.Sprintf("Block %d", len(a.job.Blocks)+1), 0, 0)
		title, confirm := "Add Block", "Add"
		if idx >= 0 {
			b = a.job.Blocks[idx]
			title, confirm = "Edit Block", "Save"
		}

		labelEntry := widget.NewEntry()
		labelEntry.SetText(b.Label)
		widthEntry := widget.NewEntry()
		heightEntry := widget.NewEntry()
		if idx >= 0 {
			widthEntry.SetText(strconv.Itoa(b.Width))
			heightEntry.SetText(strconv.Itoa(b.Height))
		}
		lockedCheck := widget.NewCheck("Keep orientation", nil)
		lockedCheck.Checked = b.Locked

		form := dialog.NewForm(title, confirm, "Cancel",
			[]*widget.FormItem{
				widget.NewFormItem("Label", labelEntry),
				widget.NewFormItem("Width", widthEntry),
				widget.NewFormItem("Height", heightEntry),
				widget.NewFormItem("", lockedCheck),
			},
			func(ok bool) {
				if !ok {
					return
				}
				w, errW := strconv.Atoi(strings.TrimSpace(widthEntry.Text))
				h, errH := strconv.Atoi(strings.TrimSpace(heightEntry.Text))
				if errW != nil || errH != nil || w <= 0 || h <= 0 {
					dialog.ShowError(fmt.Errorf("width and height must be whole numbers > 0"), a.window)
					return
				}
				b.Label, b.Width, b.Height, b.Locked = labelEntry.Text, w, h, lockedCheck.Checked
				if idx < 0 {
					a.AddBlock(b)
					return
				}
				a.edit("Edit Block", func(j *model.Job) { j.Blocks[idx] = b })
			},
			a.window,
		)
		form.Resize(fyne.NewSize(380, 280))
		form.Show()
	}
}

// ─── Settings Panel ────────────────────────────────────────

func (a *App) buildSettingsPanel() fyne.CanvasObject {
	a.settingsContainer = container.NewVBox()
	a.refreshSettings()
	return container.NewVScroll(a.settingsContainer)
}

func (a *App) refreshSettings() {
	if a.settingsContainer == nil {
		return
	}
	a.settingsContainer.RemoveAll()

	intEntry := func(val int, label string, set func(*model.Job, int)) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.Itoa(val))
		e.OnSubmitted = func(text string) {
			v, err := strconv.Atoi(strings.TrimSpace(text))
			if err != nil || v <= 0 {
				dialog.ShowError(fmt.Errorf("%s must be a whole number > 0", label), a.window)
				return
			}
			a.edit("Change "+label, func(j *model.Job) { set(j, v) })
		}
		return e
	}

	costNames := make([]string, len(model.CostStrategies))
	for i, c := range model.CostStrategies {
		costNames[i] = string(c)
	}
	costSelect := widget.NewSelect(costNames, nil)
	costSelect.SetSelected(string(a.job.Settings.Cost))
	costSelect.OnChanged = func(selected string) {
		if cost, err := model.ParseCostStrategy(selected); err == nil && cost != a.job.Settings.Cost {
			a.edit("Change Cost", func(j *model.Job) { j.Settings.Cost = cost })
		}
	}

	labelNames := make([]string, len(model.LabelModes))
	for i, m := range model.LabelModes {
		labelNames[i] = string(m)
	}
	labelSelect := widget.NewSelect(labelNames, nil)
	labelSelect.SetSelected(string(a.job.Settings.Label))
	labelSelect.OnChanged = func(selected string) {
		if mode, err := model.ParseLabelMode(selected); err == nil && mode != a.job.Settings.Label {
			a.edit("Change Labels", func(j *model.Job) { j.Settings.Label = mode })
		}
	}

	rotateCheck := widget.NewCheck("Allow 90° rotation", nil)
	rotateCheck.Checked = a.job.Settings.AllowRotation
	rotateCheck.OnChanged = func(on bool) {
		a.edit("Toggle Rotation", func(j *model.Job) { j.Settings.AllowRotation = on })
	}

	a.settingsContainer.Add(widget.NewCard("Container", "Press Enter to apply",
		container.NewGridWithColumns(2,
			widget.NewLabel("Width"), intEntry(a.job.Container.Width, "width", func(j *model.Job, v int) { j.Container.Width = v }),
			widget.NewLabel("Height"), intEntry(a.job.Container.Height, "height", func(j *model.Job, v int) { j.Container.Height = v }),
		),
	))
	a.settingsContainer.Add(widget.NewCard("Placement", "",
		container.NewGridWithColumns(2,
			widget.NewLabel("Cost strategy"), costSelect,
			widget.NewLabel("Block numbers"), labelSelect,
			widget.NewLabel("Rotation"), rotateCheck,
		),
	))
}

// ─── Results Panel ─────────────────────────────────────────

func (a *App) buildResultsPanel() fyne.CanvasObject {
	a.resultContainer = container.NewStack()
	a.refreshResults()
	return a.resultContainer
}

func (a *App) refreshResults() {
	if a.resultContainer == nil {
		return
	}
	a.resultContainer.RemoveAll()
	a.resultContainer.Add(widgets.RenderResult(a.result))
	a.resultContainer.Refresh()
}

// ─── Actions ───────────────────────────────────────────────

// Place runs the placer on the current job and keeps the result.
func (a *App) Place() error {
	if len(a.job.Blocks) == 0 {
		return fmt.Errorf("add at least one block first")
	}
	result, err := engine.New(a.job.Settings).WithLogger(a.logger).Place(a.job.Blocks, a.job.Container)
	if err != nil {
		a.result = nil
		return err
	}
	a.result = &result
	a.logger.Info("placed blocks", "job", a.job.Name, "count", len(result.Placements),
		"fullness", fmt.Sprintf("%.2f", result.Fullness))
	return nil
}

func (a *App) runPlace() {
	if err := a.Place(); err != nil {
		dialog.ShowError(err, a.window)
	}
	a.refreshResults()
}

func (a *App) showCompareDialog() {
	if len(a.job.Blocks) == 0 {
		dialog.ShowInformation("Nothing to compare", "Add at least one block first.", a.window)
		return
	}
	results := engine.CompareScenarios(engine.BuildDefaultScenarios(a.job.Settings), a.job.Blocks, a.job.Container)

	grid := container.NewGridWithColumns(4,
		widget.NewLabelWithStyle("Scenario", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Fullness", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Bounding box", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Rotated", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	for _, r := range results {
		if r.Err != nil {
			grid.Add(widget.NewLabel(r.Scenario.Name))
			grid.Add(widget.NewLabel("failed"))
			grid.Add(widget.NewLabel(r.Err.Error()))
			grid.Add(widget.NewLabel(""))
			continue
		}
		grid.Add(widget.NewLabel(r.Scenario.Name))
		grid.Add(widget.NewLabel(fmt.Sprintf("%.2f", r.Fullness)))
		grid.Add(widget.NewLabel(fmt.Sprintf("%d x %d", r.BoundingRight, r.BoundingBottom)))
		grid.Add(widget.NewLabel(strconv.Itoa(r.RotatedCount)))
	}
	d := dialog.NewCustom("Compare Settings", "Close", grid, a.window)
	d.Resize(fyne.NewSize(640, 240))
	d.Show()
}

func (a *App) exportPDF() {
	if a.result == nil {
		dialog.ShowInformation("No layout", "Place the blocks before exporting.", a.window)
		return
	}
	result := *a.result
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := export.ExportPDF(path, result, a.job.Name); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Layout saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(a.job.Name + ".pdf")
	d.Show()
}

func (a *App) exportLabels() {
	if a.result == nil {
		dialog.ShowInformation("No layout", "Place the blocks before exporting.", a.window)
		return
	}
	result := *a.result
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := export.ExportLabels(path, result); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Labels saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(a.job.Name + "-labels.pdf")
	d.Show()
}

// ─── Templates ─────────────────────────────────────────────

func (a *App) templatesPath() string {
	return filepath.Join(filepath.Dir(a.configPath), "templates.json")
}

// SaveTemplate stores the current job under name, replacing any template
// with the same name.
func (a *App) SaveTemplate(name, description string) error {
	store, err := project.LoadTemplates(a.templatesPath())
	if err != nil {
		return err
	}
	if existing := store.FindByName(name); existing != nil {
		store.Remove(existing.ID)
	}
	store.Add(model.NewJobTemplate(name, description, a.job.Container, a.job.Blocks, a.job.Settings))
	return project.SaveTemplates(a.templatesPath(), store)
}

// LoadTemplate replaces the current job with the named template.
func (a *App) LoadTemplate(name string) error {
	store, err := project.LoadTemplates(a.templatesPath())
	if err != nil {
		return err
	}
	tmpl := store.FindByName(name)
	if tmpl == nil {
		return fmt.Errorf("template %q not found", name)
	}
	a.resetJob()
	a.job = tmpl.ToJob(tmpl.Name)
	a.refreshAll()
	return nil
}

func (a *App) saveTemplateDialog() {
	nameEntry := widget.NewEntry()
	nameEntry.SetText(a.job.Name)
	descEntry := widget.NewEntry()

	dialog.ShowForm("Save as Template", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Description", descEntry),
		},
		func(ok bool) {
			if !ok || strings.TrimSpace(nameEntry.Text) == "" {
				return
			}
			if err := a.SaveTemplate(strings.TrimSpace(nameEntry.Text), descEntry.Text); err != nil {
				dialog.ShowError(err, a.window)
			}
		},
		a.window,
	)
}

func (a *App) openTemplateDialog() {
	store, err := project.LoadTemplates(a.templatesPath())
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	if len(store.Templates) == 0 {
		dialog.ShowInformation("No templates", "Save a job as a template first.", a.window)
		return
	}
	sel := widget.NewSelect(store.Names(), nil)
	dialog.ShowForm("Open Template", "Open", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Template", sel)},
		func(ok bool) {
			if !ok || sel.Selected == "" {
				return
			}
			if err := a.LoadTemplate(sel.Selected); err != nil {
				dialog.ShowError(err, a.window)
			}
		},
		a.window,
	)
}

// ─── Import ────────────────────────────────────────────────

func (a *App) openFileDialog() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		if err := a.OpenFile(path); err != nil {
			dialog.ShowError(err, a.window)
		}
	}, a.window)
	d.Show()
}

// OpenFile imports a blocks file into a fresh job and records it in the
// recent job list.
func (a *App) OpenFile(path string) error {
	res := importer.ImportFile(path)
	for _, w := range res.Warnings {
		a.logger.Warn(w, "file", path)
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("errors encountered during import:\n\n%s", strings.Join(res.Errors, "\n"))
	}
	if len(res.Blocks) == 0 {
		return fmt.Errorf("no blocks found in %s", path)
	}

	settings := model.DefaultSettings()
	a.config.ApplyToSettings(&settings)
	a.resetJob()
	a.job = res.Job(a.config.DefaultContainer(), settings)
	a.refreshAll()
	a.logger.Debug("opened blocks file", "file", path, "blocks", len(res.Blocks))

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	a.config.AddRecentJob(path, recentJobsLimit)
	if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
		a.logger.Warn("could not update recent jobs", "err", err)
	}
	return nil
}

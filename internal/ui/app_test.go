package ui

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/charmbracelet/log"

	"github.com/piwi3910/BlockFit/internal/model"
	"github.com/piwi3910/BlockFit/internal/project"
)

func newTestApp(t *testing.T) (*App, string) {
	t.Helper()
	test.NewApp()
	dir := t.TempDir()
	cfg := model.DefaultAppConfig()
	cfg.DefaultContainerWidth = 10
	cfg.DefaultContainerHeight = 10
	a := NewApp(test.NewWindow(nil), cfg, filepath.Join(dir, "config.json"), log.New(&bytes.Buffer{}))
	a.Build()
	return a, dir
}

func TestNewApp_UsesConfigDefaults(t *testing.T) {
	a, _ := newTestApp(t)

	if got := a.Job().Container; got != (model.Container{Width: 10, Height: 10}) {
		t.Errorf("expected the config container, got %+v", got)
	}
	if a.Result() != nil {
		t.Error("a new job should have no result")
	}
}

func TestPlace_SingleBlock(t *testing.T) {
	a, _ := newTestApp(t)
	a.AddBlock(model.NewBlock("Lid", 4, 4))

	if err := a.Place(); err != nil {
		t.Fatalf("Place returned error: %v", err)
	}
	r := a.Result()
	if r == nil || len(r.Placements) != 1 {
		t.Fatalf("expected one placement, got %+v", r)
	}
	if r.Fullness != 0.16 {
		t.Errorf("expected fullness 0.16, got %v", r.Fullness)
	}
}

func TestPlace_NoBlocks(t *testing.T) {
	a, _ := newTestApp(t)
	if err := a.Place(); err == nil {
		t.Error("expected an error with no blocks")
	}
}

func TestPlace_OversizedBlockClearsResult(t *testing.T) {
	a, _ := newTestApp(t)
	a.AddBlock(model.NewBlock("Lid", 4, 4))
	if err := a.Place(); err != nil {
		t.Fatal(err)
	}

	a.AddBlock(model.NewBlock("Slab", 11, 11))
	if err := a.Place(); err == nil {
		t.Fatal("expected an error for a block larger than the container")
	}
	if a.Result() != nil {
		t.Error("a failed placement should not leave a result behind")
	}
}

func TestEditsAreUndoable(t *testing.T) {
	a, _ := newTestApp(t)
	a.AddBlock(model.NewBlock("A", 2, 2))
	a.AddBlock(model.NewBlock("B", 3, 3))
	a.RemoveBlock(0)

	if len(a.Job().Blocks) != 1 || a.Job().Blocks[0].Label != "B" {
		t.Fatalf("unexpected blocks after remove: %+v", a.Job().Blocks)
	}

	if !a.Undo() {
		t.Fatal("undo should succeed")
	}
	if len(a.Job().Blocks) != 2 {
		t.Errorf("expected 2 blocks after undo, got %d", len(a.Job().Blocks))
	}

	if !a.Redo() {
		t.Fatal("redo should succeed")
	}
	if len(a.Job().Blocks) != 1 {
		t.Errorf("expected 1 block after redo, got %d", len(a.Job().Blocks))
	}
}

func TestOpenFile_RecordsRecentJob(t *testing.T) {
	a, dir := newTestApp(t)
	path := filepath.Join(dir, "blocks.json")
	if err := os.WriteFile(path, []byte(`{"name": "crate", "blocks": [{"label": "Lid", "width": 4, "height": 4, "quantity": 2}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	if err := a.OpenFile(path); err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	if got := len(a.Job().Blocks); got != 2 {
		t.Errorf("expected 2 blocks, got %d", got)
	}
	if a.Job().Name != "crate" {
		t.Errorf("expected job name from file, got %q", a.Job().Name)
	}

	cfg, err := project.LoadAppConfig(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.RecentJobs) != 1 || cfg.RecentJobs[0] != path {
		t.Errorf("expected %s in recent jobs, got %v", path, cfg.RecentJobs)
	}
}

func TestOpenFile_ImportErrors(t *testing.T) {
	a, dir := newTestApp(t)
	path := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(path, []byte("Label,Width,Height\nLid,0,2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := a.OpenFile(path); err == nil {
		t.Error("expected an error for an invalid row")
	}
}

func TestSaveAndLoadTemplate(t *testing.T) {
	a, _ := newTestApp(t)
	a.AddBlock(model.NewBlock("Lid", 4, 4))

	if err := a.SaveTemplate("lids", "one lid"); err != nil {
		t.Fatalf("SaveTemplate returned error: %v", err)
	}
	a.AddBlock(model.NewBlock("Extra", 1, 1))
	if err := a.SaveTemplate("lids", "replaced"); err != nil {
		t.Fatalf("SaveTemplate returned error: %v", err)
	}

	a.resetJob()
	if err := a.LoadTemplate("lids"); err != nil {
		t.Fatalf("LoadTemplate returned error: %v", err)
	}
	if got := len(a.Job().Blocks); got != 2 {
		t.Errorf("expected the replaced template with 2 blocks, got %d", got)
	}
	if err := a.LoadTemplate("missing"); err == nil {
		t.Error("expected an error for an unknown template")
	}
}

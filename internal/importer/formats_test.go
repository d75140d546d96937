package importer

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/yofu/dxf"

	"github.com/piwi3910/BlockFit/internal/model"
)

// ─── JSON Tests ────────────────────────────────────────────

func TestParseJSON_BareArray(t *testing.T) {
	result := ParseJSON([]byte(`[{"width": 40, "height": 20}, {"width": 10, "height": 10, "quantity": 2}]`))

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(result.Blocks))
	}
	if result.Container != nil {
		t.Error("expected no container from a bare array")
	}
	if result.Blocks[0].Label != "Block 1" || result.Blocks[1].Label != "Block 2" {
		t.Errorf("unexpected labels %q, %q", result.Blocks[0].Label, result.Blocks[1].Label)
	}
}

func TestParseJSON_ObjectWithContainer(t *testing.T) {
	data := `{
		"name": "crate",
		"container": {"width": 350, "height": 300},
		"blocks": [{"label": "Lid", "width": 40, "height": 20, "locked": true}]
	}`
	result := ParseJSON([]byte(data))

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Name != "crate" {
		t.Errorf("expected name 'crate', got %q", result.Name)
	}
	if result.Container == nil || *result.Container != (model.Container{Width: 350, Height: 300}) {
		t.Errorf("unexpected container %+v", result.Container)
	}
	if len(result.Blocks) != 1 || !result.Blocks[0].Locked || result.Blocks[0].Label != "Lid" {
		t.Errorf("unexpected blocks %+v", result.Blocks)
	}
}

func TestParseJSON_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"empty", "  ", "File is empty"},
		{"malformed", `[{"width": 4,`, "Cannot parse JSON"},
		{"no blocks", `{"blocks": []}`, "No blocks found"},
		{"zero width", `[{"width": 0, "height": 4}]`, "Width and height must be positive"},
		{"bad container", `{"container": {"width": 0, "height": 3}, "blocks": [{"width": 1, "height": 1}]}`, "Container:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseJSON([]byte(tt.data))
			if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, result.Errors)
			}
		})
	}
}

func TestImportJSON_FileNotFound(t *testing.T) {
	if result := ImportJSON("/nonexistent/blocks.json"); len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

// ─── TOML Tests ────────────────────────────────────────────

func TestImportTOML_FullJob(t *testing.T) {
	path := writeFile(t, "crate.toml", `
name = "crate"

[container]
width = 12
height = 8

[settings]
cost = "origin-distance"
allow_rotation = false

[[blocks]]
label = "Lid"
width = 4
height = 2
quantity = 3

[[blocks]]
width = 5
height = 5
locked = true
`)

	result := ImportTOML(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Name != "crate" {
		t.Errorf("expected name 'crate', got %q", result.Name)
	}
	if result.Container == nil || result.Container.Width != 12 || result.Container.Height != 8 {
		t.Errorf("unexpected container %+v", result.Container)
	}
	if result.Settings == nil {
		t.Fatal("expected settings")
	}
	if result.Settings.Cost != model.CostOriginDistance {
		t.Errorf("expected origin-distance cost, got %q", result.Settings.Cost)
	}
	if result.Settings.Label != model.LabelSortedRank {
		t.Errorf("expected omitted label mode to keep its default, got %q", result.Settings.Label)
	}
	if result.Settings.AllowRotation {
		t.Error("expected rotation to be disabled")
	}
	if len(result.Blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(result.Blocks))
	}
	if !result.Blocks[3].Locked || result.Blocks[3].Label != "Block 4" {
		t.Errorf("unexpected last block %+v", result.Blocks[3])
	}
}

func TestImportTOML_UnknownKeysAndBadSettings(t *testing.T) {
	path := writeFile(t, "job.toml", `
colour = "red"

[settings]
cost = "cheapest"

[[blocks]]
width = 1
height = 1
`)

	result := ImportTOML(path)

	if result.Settings != nil {
		t.Error("expected invalid settings to be dropped")
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "unknown cost strategy") {
		t.Errorf("expected cost strategy error, got %v", result.Errors)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "colour") {
		t.Errorf("expected unknown key warning, got %v", result.Warnings)
	}
	if len(result.Blocks) != 1 {
		t.Errorf("expected the block to be imported anyway, got %d", len(result.Blocks))
	}
}

func TestImportTOML_Malformed(t *testing.T) {
	result := ImportTOML(writeFile(t, "broken.toml", "[container\nwidth = 3\n"))

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Cannot parse TOML") {
		t.Errorf("expected parse error, got %v", result.Errors)
	}
}

// ─── DXF Tests ─────────────────────────────────────────────

func TestImportDXF_PolylineAndCircle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shapes.dxf")

	d := dxf.NewDrawing()
	if _, err := d.LwPolyline(true, []float64{10, 10}, []float64{14.2, 10}, []float64{14.2, 13}, []float64{10, 13}); err != nil {
		t.Fatalf("failed to add polyline: %v", err)
	}
	if _, err := d.Circle(50, 50, 0, 2.5); err != nil {
		t.Fatalf("failed to add circle: %v", err)
	}
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("failed to save DXF file: %v", err)
	}

	result := ImportDXF(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(result.Blocks))
	}
	if result.Blocks[0].Width != 5 || result.Blocks[0].Height != 3 {
		t.Errorf("expected polyline rounded up to 5x3, got %dx%d", result.Blocks[0].Width, result.Blocks[0].Height)
	}
	if result.Blocks[1].Width != 5 || result.Blocks[1].Height != 5 {
		t.Errorf("expected circle of diameter 5, got %dx%d", result.Blocks[1].Width, result.Blocks[1].Height)
	}
}

func TestImportDXF_FileNotFound(t *testing.T) {
	if result := ImportDXF("/nonexistent/shapes.dxf"); len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestBoundsGridSize(t *testing.T) {
	b := newBounds(1, 1)
	b.extend(5.0000000001, 3.2)

	w, h := b.gridSize()
	if w != 4 || h != 3 {
		t.Errorf("expected 4x3, got %dx%d", w, h)
	}
}

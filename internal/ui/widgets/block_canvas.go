package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/BlockFit/internal/export"
	"github.com/piwi3910/BlockFit/internal/model"
)

// Minimum on-screen block size for drawing its caption.
const (
	captionMinWidth  = 30
	captionMinHeight = 16
)

// BlockCanvas renders a container and the blocks placed in it.
type BlockCanvas struct {
	widget.BaseWidget
	result    model.Result
	palette   export.Palette
	maxWidth  float32
	maxHeight float32
}

func NewBlockCanvas(result model.Result, maxW, maxH float32) *BlockCanvas {
	bc := &BlockCanvas{
		result:    result,
		palette:   export.NewPalette(result.Placements),
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	bc.ExtendBaseWidget(bc)
	return bc
}

// SetResult replaces the drawn result and redraws.
func (bc *BlockCanvas) SetResult(result model.Result) {
	bc.result = result
	bc.palette = export.NewPalette(result.Placements)
	bc.Refresh()
}

// Scale returns the screen units per grid unit.
func (bc *BlockCanvas) Scale() float32 {
	c := bc.result.Container
	if c.Width <= 0 || c.Height <= 0 {
		return 1
	}
	scale := bc.maxWidth / float32(c.Width)
	if s := bc.maxHeight / float32(c.Height); s < scale {
		scale = s
	}
	return scale
}

func (bc *BlockCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newBlockCanvasRenderer(bc)
}

type blockCanvasRenderer struct {
	bc      *BlockCanvas
	objects []fyne.CanvasObject
}

func newBlockCanvasRenderer(bc *BlockCanvas) *blockCanvasRenderer {
	r := &blockCanvasRenderer{bc: bc}
	r.rebuild()
	return r
}

func (r *blockCanvasRenderer) rebuild() {
	r.objects = nil

	result := r.bc.result
	scale := r.bc.Scale()
	canvasW := float32(result.Container.Width) * scale
	canvasH := float32(result.Container.Height) * scale

	bg := canvas.NewRectangle(color.NRGBA{R: 245, G: 245, B: 240, A: 255})
	bg.Resize(fyne.NewSize(canvasW, canvasH))
	r.objects = append(r.objects, bg)

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	border.StrokeWidth = 2
	border.Resize(fyne.NewSize(canvasW, canvasH))
	r.objects = append(r.objects, border)

	for _, p := range result.Placements {
		pw := float32(p.Width()) * scale
		ph := float32(p.Height()) * scale
		px := float32(p.Left) * scale
		py := float32(p.Top) * scale

		fill := canvas.NewRectangle(toNRGBA(r.bc.palette.Color(p.Block.Width, p.Block.Height)))
		fill.Resize(fyne.NewSize(pw, ph))
		fill.Move(fyne.NewPos(px, py))
		r.objects = append(r.objects, fill)

		edge := canvas.NewRectangle(color.Transparent)
		edge.StrokeColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
		edge.StrokeWidth = 1
		edge.Resize(fyne.NewSize(pw, ph))
		edge.Move(fyne.NewPos(px, py))
		r.objects = append(r.objects, edge)

		if pw > captionMinWidth && ph > captionMinHeight {
			caption := canvas.NewText(export.BlockCaption(p), color.Black)
			caption.TextSize = 10
			caption.Move(fyne.NewPos(px+3, py+2))
			r.objects = append(r.objects, caption)
		}
	}
}

func toNRGBA(c export.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 220}
}

func (r *blockCanvasRenderer) Layout(size fyne.Size)        {}
func (r *blockCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *blockCanvasRenderer) Destroy()                     {}
func (r *blockCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *blockCanvasRenderer) MinSize() fyne.Size {
	c := r.bc.result.Container
	scale := r.bc.Scale()
	return fyne.NewSize(float32(c.Width)*scale, float32(c.Height)*scale)
}

// RenderResult creates a scrollable view of a placement result with its
// fullness summary.
func RenderResult(result *model.Result) fyne.CanvasObject {
	if result == nil || result.Container.Area() == 0 {
		return widget.NewLabel("No layout yet. Open a blocks file or add blocks, then click Place.")
	}

	right, bottom := result.BoundingBox()
	header := widget.NewLabel(fmt.Sprintf(
		"Container %d x %d: %d blocks, bounding box %d x %d",
		result.Container.Width, result.Container.Height, len(result.Placements), right, bottom,
	))
	header.TextStyle = fyne.TextStyle{Bold: true}

	summary := widget.NewLabel(fmt.Sprintf("%s (waste inside bounding box: %d)",
		export.FullnessLine(*result), result.BoundingWaste))
	summary.TextStyle = fyne.TextStyle{Bold: true}

	return container.NewVScroll(container.NewVBox(
		header,
		NewBlockCanvas(*result, 700, 600),
		widget.NewSeparator(),
		summary,
	))
}

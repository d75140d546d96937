// Package export writes placement results to PDF layout reports and
// QR-coded label sheets.
package export

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/BlockFit/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	tableRowH    = 6.0
)

// ExportPDF writes a layout report: the container drawn to scale with every
// placed block, followed by a page listing each placement.
func ExportPDF(path string, result model.Result, title string) error {
	if err := model.ValidateContainer(result.Container); err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}
	if title == "" {
		title = "Block Layout"
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	palette := NewPalette(result.Placements)

	pdf.AddPage()
	renderLayoutPage(pdf, result, palette, title)

	pdf.AddPage()
	renderPlacementTable(pdf, result)

	return pdf.OutputFileAndClose(path)
}

// FullnessLine formats the fullness the way every report shows it.
func FullnessLine(result model.Result) string {
	return fmt.Sprintf("Fullness: %.2f", result.Fullness)
}

// BlockCaption is the caption drawn inside a placed block.
func BlockCaption(p model.PlacedBlock) string {
	return fmt.Sprintf("Block %d", p.OriginalOrder)
}

// renderLayoutPage draws the container and its placements on the current page.
func renderLayoutPage(pdf *fpdf.Fpdf, result model.Result, palette Palette, title string) {
	c := result.Container

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	heading := fmt.Sprintf("%s (%d x %d)", title, c.Width, c.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, heading, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	right, bottom := result.BoundingBox()
	stats := fmt.Sprintf("Blocks: %d | Used area: %d | Container area: %d | Bounding box: %d x %d | %s",
		len(result.Placements), result.UsedArea, c.Area(), right, bottom, FullnessLine(result))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	scale := math.Min(drawWidth/float64(c.Width), drawHeight/float64(c.Height))
	canvasW := float64(c.Width) * scale
	canvasH := float64(c.Height) * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(240, 240, 240)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for _, p := range result.Placements {
		col := palette.Color(p.Block.Width, p.Block.Height)
		pw := float64(p.Width()) * scale
		ph := float64(p.Height()) * scale
		px := offsetX + float64(p.Left)*scale
		py := offsetY + float64(p.Top)*scale

		pdf.SetFillColor(int(col.R), int(col.G), int(col.B))
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 12 && ph > 6 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			caption := BlockCaption(p)
			dims := fmt.Sprintf("%dx%d", p.Width(), p.Height())
			captionW := pdf.GetStringWidth(caption)
			dimsW := pdf.GetStringWidth(dims)

			if captionW < pw-2 {
				pdf.SetXY(px+(pw-captionW)/2, py+ph/2-4)
				pdf.CellFormat(captionW, 4, caption, "", 0, "C", false, 0, "")
			}
			if ph > 12 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, c, offsetX, offsetY, canvasW, canvasH)
	drawSizeLegend(pdf, result, palette, offsetY+canvasH+6)
}

// drawDimensionAnnotations adds width and height labels outside the container.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, c model.Container, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d", c.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%d", c.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// sizeCount is one legend entry.
type sizeCount struct {
	size  Size
	count int
}

// legendEntries groups placements by unrotated block size, largest area first.
func legendEntries(placements []model.PlacedBlock) []sizeCount {
	counts := make(map[Size]int)
	var order []Size
	for _, p := range placements {
		s := Size{W: p.Block.Width, H: p.Block.Height}
		if counts[s] == 0 {
			order = append(order, s)
		}
		counts[s]++
	}

	entries := make([]sizeCount, len(order))
	for i, s := range order {
		entries[i] = sizeCount{size: s, count: counts[s]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].size.W*entries[i].size.H > entries[j].size.W*entries[j].size.H
	})
	return entries
}

// drawSizeLegend renders one colour swatch per block size below the layout.
func drawSizeLegend(pdf *fpdf.Fpdf, result model.Result, palette Palette, startY float64) {
	entries := legendEntries(result.Placements)
	if len(entries) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Block sizes:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for _, e := range entries {
		col := palette.Color(e.size.W, e.size.H)
		label := fmt.Sprintf("%dx%d (x%d)", e.size.W, e.size.H, e.count)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(int(col.R), int(col.G), int(col.B))
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderPlacementTable lists every placement in placement order, continuing
// on further pages when the table is long.
func renderPlacementTable(pdf *fpdf.Fpdf, result model.Result) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Placements", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 6, FullnessLine(result), "", 0, "L", false, 0, "")
	y += 10

	colWidths := []float64{25, 40, 25, 25, 25, 25, 30, 25}
	headers := []string{"Block", "Label", "Left", "Top", "Right", "Bottom", "Size", "Rotated"}

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		xPos := marginLeft
		for i, header := range headers {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], tableRowH, header, "1", 0, "C", true, 0, "")
			xPos += colWidths[i]
		}
		y += tableRowH
		pdf.SetFont("Helvetica", "", 9)
	}
	drawHeader()

	for i, p := range result.Placements {
		if y+tableRowH > pageHeight-marginBottom-6 {
			pdf.AddPage()
			y = marginTop
			drawHeader()
		}

		rotated := "no"
		if p.Rotated {
			rotated = "yes"
		}
		rowData := []string{
			fmt.Sprintf("%d", p.OriginalOrder),
			p.Block.Label,
			fmt.Sprintf("%d", p.Left),
			fmt.Sprintf("%d", p.Top),
			fmt.Sprintf("%d", p.Right),
			fmt.Sprintf("%d", p.Bottom),
			fmt.Sprintf("%d x %d", p.Width(), p.Height()),
			rotated,
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos := marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], tableRowH, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += tableRowH
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by BlockFit", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleTitle       = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim         = lipgloss.NewStyle().Foreground(colorDim)
	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	styleHeader      = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	styleCell        = lipgloss.NewStyle().Padding(0, 1)
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconArrow   = "→"
)

// printer writes human-oriented output. Machine-readable output bypasses it.
type printer struct {
	w io.Writer
}

func (p printer) title(format string, args ...any) {
	fmt.Fprintln(p.w, styleTitle.Render(fmt.Sprintf(format, args...)))
}

func (p printer) success(format string, args ...any) {
	fmt.Fprintln(p.w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func (p printer) warning(format string, args ...any) {
	fmt.Fprintln(p.w, styleIconWarning.Render(iconWarning)+" "+fmt.Sprintf(format, args...))
}

// file prints an output file line.
func (p printer) file(path string) {
	fmt.Fprintln(p.w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

func (p printer) keyValue(key, value string) {
	fmt.Fprintln(p.w, styleKey.Render(key)+" "+styleValue.Render(value))
}

// line prints unstyled text.
func (p printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// table prints rows under a header with a rounded border.
func (p printer) table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleDim).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		})
	fmt.Fprintln(p.w, t.String())
}

// Package ui provides the BlockFit viewer UI components.
//
// This file defines a compact Fyne theme for the layout viewer.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// BlockFitTheme wraps the default Fyne theme with compact sizing overrides
// so the layout canvas gets most of the window.
type BlockFitTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	forced  bool
}

// NewBlockFitTheme creates a BlockFitTheme that follows the system variant.
func NewBlockFitTheme() *BlockFitTheme {
	return &BlockFitTheme{base: theme.DefaultTheme()}
}

// SetVariant forces a light or dark variant.
func (t *BlockFitTheme) SetVariant(variant fyne.ThemeVariant) {
	t.variant = variant
	t.forced = true
}

func (t *BlockFitTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.forced {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

func (t *BlockFitTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *BlockFitTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *BlockFitTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 18
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	default:
		return t.base.Size(name)
	}
}

package export

import (
	"fmt"
	"hash/fnv"

	"github.com/piwi3910/BlockFit/internal/model"
)

// Color is an RGB fill colour for a placed block.
type Color struct {
	R, G, B uint8
}

// Hex returns the colour as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// blockColors is shared by the PDF report and the desktop viewer.
var blockColors = []Color{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
	{R: 96, G: 125, B: 139}, // blue grey
	{R: 233, G: 30, B: 99},  // pink
}

// Size identifies blocks that share a colour.
type Size struct {
	W, H int
}

// ColorFor returns a stable colour for a block size, independent of any
// other blocks.
func ColorFor(w, h int) Color {
	hash := fnv.New32a()
	fmt.Fprintf(hash, "%dx%d", w, h)
	return blockColors[hash.Sum32()%uint32(len(blockColors))]
}

// Palette assigns colours to the block sizes of one result in order of first
// appearance, so the first len(blockColors) sizes never share a colour.
type Palette struct {
	colors map[Size]Color
}

// NewPalette builds the palette for a set of placements. Sizes are taken
// from the unrotated block so rotated copies keep the same colour.
func NewPalette(placements []model.PlacedBlock) Palette {
	p := Palette{colors: make(map[Size]Color)}
	for _, pb := range placements {
		s := Size{W: pb.Block.Width, H: pb.Block.Height}
		if _, ok := p.colors[s]; ok {
			continue
		}
		p.colors[s] = blockColors[len(p.colors)%len(blockColors)]
	}
	return p
}

// Color returns the colour of a block size, falling back to ColorFor for
// sizes the palette has not seen.
func (p Palette) Color(w, h int) Color {
	if c, ok := p.colors[Size{W: w, H: h}]; ok {
		return c
	}
	return ColorFor(w, h)
}

// Len returns the number of distinct sizes.
func (p Palette) Len() int {
	return len(p.colors)
}

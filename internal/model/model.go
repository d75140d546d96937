package model

import (
	"sort"

	"github.com/google/uuid"
)

// Block is a rectangle waiting to be placed in a container.
type Block struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Width  int    `json:"width"`  // grid units
	Height int    `json:"height"` // grid units
	Locked bool   `json:"locked"` // Locked blocks keep their orientation
}

func NewBlock(label string, w, h int) Block {
	return Block{
		ID:     uuid.New().String()[:8],
		Label:  label,
		Width:  w,
		Height: h,
	}
}

// LongestSide returns max(width, height), the key blocks are ordered by.
func (b Block) LongestSide() int {
	if b.Width > b.Height {
		return b.Width
	}
	return b.Height
}

// Area returns width * height.
func (b Block) Area() int {
	return b.Width * b.Height
}

// Oriented returns the effective width and height for the given orientation.
func (b Block) Oriented(rotated bool) (int, int) {
	if rotated {
		return b.Height, b.Width
	}
	return b.Width, b.Height
}

// Container is the fixed-size region blocks are packed into.
// The origin is the top-left corner; y grows downward.
type Container struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns width * height.
func (c Container) Area() int {
	return c.Width * c.Height
}

// Fits reports whether a w x h rectangle fits inside the container.
func (c Container) Fits(w, h int) bool {
	return w <= c.Width && h <= c.Height
}

// PlacedBlock is a block committed to a position inside the container.
type PlacedBlock struct {
	Left          int   `json:"left"`
	Top           int   `json:"top"`
	Right         int   `json:"right"`
	Bottom        int   `json:"bottom"`
	OriginalOrder int   `json:"originalOrder"` // 1-based, see LabelMode
	InputIndex    int   `json:"inputIndex"`    // 0-based index in the caller's slice
	Rotated       bool  `json:"rotated"`       // Whether width and height were swapped
	Block         Block `json:"block"`
}

// Width returns the effective width considering rotation.
func (p PlacedBlock) Width() int {
	return p.Right - p.Left
}

// Height returns the effective height considering rotation.
func (p PlacedBlock) Height() int {
	return p.Bottom - p.Top
}

// Area returns the area covered by the placed block.
func (p PlacedBlock) Area() int {
	return p.Width() * p.Height()
}

// Overlaps reports whether two placed blocks share any interior area.
// Rectangles that only touch along an edge do not overlap.
func (p PlacedBlock) Overlaps(o PlacedBlock) bool {
	return p.Left < o.Right && p.Right > o.Left &&
		p.Top < o.Bottom && p.Bottom > o.Top
}

// Result is the outcome of one placement run.
type Result struct {
	Container     Container     `json:"container"`
	Placements    []PlacedBlock `json:"placements"` // in placement order
	Fullness      float64       `json:"fullness"`   // UsedArea / container area
	UsedArea      int           `json:"usedArea"`
	BoundingWaste int           `json:"boundingWaste"`
}

// ContainerArea returns the container area.
func (r Result) ContainerArea() int {
	return r.Container.Area()
}

// Efficiency returns the usage percentage.
func (r Result) Efficiency() float64 {
	return r.Fullness * 100.0
}

// BoundingBox returns the smallest rectangle enclosing every placement as
// (right, bottom) measured from the origin. An empty result yields (0, 0).
func (r Result) BoundingBox() (int, int) {
	var right, bottom int
	for _, p := range r.Placements {
		if p.Right > right {
			right = p.Right
		}
		if p.Bottom > bottom {
			bottom = p.Bottom
		}
	}
	return right, bottom
}

// ByInputOrder returns a copy of the placements sorted by the caller's
// original block order.
func (r Result) ByInputOrder() []PlacedBlock {
	out := make([]PlacedBlock, len(r.Placements))
	copy(out, r.Placements)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].InputIndex < out[j].InputIndex
	})
	return out
}

// Job ties together everything one placement call needs.
type Job struct {
	Name      string    `json:"name"`
	Container Container `json:"container"`
	Blocks    []Block   `json:"blocks"`
	Settings  Settings  `json:"settings"`
}

func NewJob() Job {
	return Job{
		Name:     "Untitled",
		Blocks:   []Block{},
		Settings: DefaultSettings(),
	}
}

// TotalBlockArea returns the summed area of every block in the job.
func (j Job) TotalBlockArea() int {
	total := 0
	for _, b := range j.Blocks {
		total += b.Area()
	}
	return total
}

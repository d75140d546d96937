package model

import "fmt"

// CostStrategy selects how candidate positions are scored.
type CostStrategy string

const (
	CostBoundingWaste  CostStrategy = "bounding-waste"  // Empty area inside the bounding box of all placed blocks
	CostOriginDistance CostStrategy = "origin-distance" // x + y of the candidate's top-left corner
)

// CostStrategies lists the supported strategies in display order.
var CostStrategies = []CostStrategy{CostBoundingWaste, CostOriginDistance}

// ParseCostStrategy converts a name into a CostStrategy.
func ParseCostStrategy(s string) (CostStrategy, error) {
	for _, c := range CostStrategies {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown cost strategy %q", s)
}

// LabelMode selects what PlacedBlock.OriginalOrder reports.
type LabelMode string

const (
	// LabelSortedRank numbers blocks by their rank in processing order
	// (largest side first). This matches the layout labels users already know.
	LabelSortedRank LabelMode = "sorted-rank"
	// LabelInputIndex numbers blocks by their 1-based position in the input.
	LabelInputIndex LabelMode = "input-index"
)

// LabelModes lists the supported label modes in display order.
var LabelModes = []LabelMode{LabelSortedRank, LabelInputIndex}

// ParseLabelMode converts a name into a LabelMode.
func ParseLabelMode(s string) (LabelMode, error) {
	for _, m := range LabelModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown label mode %q", s)
}

// Settings holds placer configuration.
type Settings struct {
	Cost          CostStrategy `json:"cost" toml:"cost"`
	Label         LabelMode    `json:"label" toml:"label"`
	AllowRotation bool         `json:"allow_rotation" toml:"allow_rotation"`
}

func DefaultSettings() Settings {
	return Settings{
		Cost:          CostBoundingWaste,
		Label:         LabelSortedRank,
		AllowRotation: true,
	}
}

// CanRotate reports whether b may be placed rotated under these settings.
// Square blocks are never rotated since both orientations are identical.
func (s Settings) CanRotate(b Block) bool {
	return s.AllowRotation && !b.Locked && b.Width != b.Height
}

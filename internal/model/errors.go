package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a placement call failed.
type ErrorKind int

const (
	InvalidBlock     ErrorKind = iota + 1 // Block has a non-positive side or cannot fit the container
	InvalidContainer                      // Container has a non-positive side
	PlacementFailure                      // No feasible position was found for a block
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidBlock:
		return "invalid block"
	case InvalidContainer:
		return "invalid container"
	case PlacementFailure:
		return "placement failure"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching against a *PlacementError.
var (
	ErrInvalidBlock     = errors.New("invalid block")
	ErrInvalidContainer = errors.New("invalid container")
	ErrPlacementFailure = errors.New("placement failure")
)

// PlacementError reports a failed placement call. BlockIndex is the 0-based
// input index of the offending block, or -1 for container errors.
type PlacementError struct {
	Kind       ErrorKind
	BlockIndex int
	Width      int
	Height     int
	Reason     string
}

func (e *PlacementError) Error() string {
	if e.BlockIndex < 0 {
		return fmt.Sprintf("%s %dx%d: %s", e.Kind, e.Width, e.Height, e.Reason)
	}
	return fmt.Sprintf("%s #%d (%dx%d): %s", e.Kind, e.BlockIndex+1, e.Width, e.Height, e.Reason)
}

// Is lets errors.Is match a PlacementError against the package sentinels.
func (e *PlacementError) Is(target error) bool {
	switch target {
	case ErrInvalidBlock:
		return e.Kind == InvalidBlock
	case ErrInvalidContainer:
		return e.Kind == InvalidContainer
	case ErrPlacementFailure:
		return e.Kind == PlacementFailure
	}
	return false
}

func newBlockError(kind ErrorKind, index int, b Block, reason string) *PlacementError {
	return &PlacementError{Kind: kind, BlockIndex: index, Width: b.Width, Height: b.Height, Reason: reason}
}

// ValidateContainer returns an InvalidContainer error when either side is
// not positive.
func ValidateContainer(c Container) error {
	if c.Width <= 0 || c.Height <= 0 {
		return &PlacementError{
			Kind:       InvalidContainer,
			BlockIndex: -1,
			Width:      c.Width,
			Height:     c.Height,
			Reason:     "width and height must be positive",
		}
	}
	return nil
}

// ValidateBlock checks a single block against the container. index is the
// block's position in the caller's input.
func ValidateBlock(index int, b Block, c Container, s Settings) error {
	if b.Width <= 0 || b.Height <= 0 {
		return newBlockError(InvalidBlock, index, b, "width and height must be positive")
	}
	if c.Fits(b.Width, b.Height) {
		return nil
	}
	if s.CanRotate(b) && c.Fits(b.Height, b.Width) {
		return nil
	}
	return newBlockError(InvalidBlock, index, b,
		fmt.Sprintf("does not fit a %dx%d container in any allowed orientation", c.Width, c.Height))
}

// NewPlacementFailure builds the error returned when the search finds no
// feasible position for a block.
func NewPlacementFailure(index int, b Block) error {
	return newBlockError(PlacementFailure, index, b, "no free position left in the container")
}

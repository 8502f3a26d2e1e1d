package models

import (
	"fmt"
	"strings"
)

// Stage names used in StageError
const (
	StageWidthDetection = "width detection"
	StageAdjacency      = "adjacency computation"
	StageChain          = "chain resolution"
	StageAssembly       = "assembly"
)

// ConfigurationError reports a setting that cannot be used, most commonly a
// strip width that does not evenly divide the image width.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Setting, e.Reason)
}

// DetectionAmbiguityError is returned when width detection finds no
// candidate strip width for the image.
type DetectionAmbiguityError struct {
	ImageWidth int
}

func (e *DetectionAmbiguityError) Error() string {
	return fmt.Sprintf("no candidate strip width in [2, %d] divides image width %d", e.ImageWidth/2, e.ImageWidth)
}

// ChainIntegrityError is returned when the successor map does not describe a
// single path through all strips.
type ChainIntegrityError struct {
	// Holes lists the strips that never appear as a successor
	Holes []int

	// Repeated is the strip visited twice during the walk, or -1
	Repeated int
}

func (e *ChainIntegrityError) Error() string {
	if e.Repeated >= 0 {
		return fmt.Sprintf("chain integrity error: strip %d visited twice while walking successors", e.Repeated)
	}
	if len(e.Holes) == 0 {
		return "chain integrity error: every strip has a predecessor, no starting strip"
	}
	parts := make([]string, len(e.Holes))
	for i, h := range e.Holes {
		parts[i] = fmt.Sprint(h)
	}
	return fmt.Sprintf("chain integrity error: %d candidate starting strips [%s], expected exactly one",
		len(e.Holes), strings.Join(parts, " "))
}

// BoundsError reports a pixel or column lookup outside the image
type BoundsError struct {
	X, Y          int
	Width, Height int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("pixel (%d,%d) outside %dx%d image", e.X, e.Y, e.Width, e.Height)
}

// StageError attributes a failure to the reconstruction stage that produced it
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

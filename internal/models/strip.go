package models

import (
	"fmt"
	"image"
)

// Strip represents a single vertical slice of a shredded image
type Strip struct {
	// Index is the position of this strip in the shredded image, counted from the left
	Index int

	// Bounds is the pixel region the strip occupies in the shredded image
	Bounds image.Rectangle
}

// StripOrder is the reconstructed left-to-right placement of strips.
// StripOrder[i] is the index of the shredded strip that belongs in slot i.
type StripOrder []int

// SuccessorMap records, for every strip i, the strip that follows it.
// next[i] = j means strip j comes right after strip i.
type SuccessorMap []int

// WidthCandidate is a strip width considered during width detection
// together with the score it obtained
type WidthCandidate struct {
	Width int
	Score float64
}

// WidthDetection holds the outcome of strip width detection
type WidthDetection struct {
	// Width is the selected strip width
	Width int

	// Candidates lists every scored candidate in ascending width order
	Candidates []WidthCandidate
}

// ValidateStripWidth checks that stripWidth splits an image of imageWidth
// pixels into at least two equal strips.
func ValidateStripWidth(stripWidth, imageWidth int) error {
	if stripWidth <= 0 {
		return &ConfigurationError{
			Setting: "strip width",
			Reason:  fmt.Sprintf("%d is not a positive integer", stripWidth),
		}
	}
	if imageWidth%stripWidth != 0 {
		return &ConfigurationError{
			Setting: "strip width",
			Reason:  fmt.Sprintf("%d does not divide image width %d", stripWidth, imageWidth),
		}
	}
	if imageWidth/stripWidth < 2 {
		return &ConfigurationError{
			Setting: "strip width",
			Reason:  fmt.Sprintf("%d yields fewer than 2 strips for image width %d", stripWidth, imageWidth),
		}
	}
	return nil
}

// StripLayout returns the strips of a width x height image cut into
// stripWidth-wide vertical slices. The strip width must already be valid.
func StripLayout(width, height, stripWidth int) []Strip {
	n := width / stripWidth
	strips := make([]Strip, n)
	for i := 0; i < n; i++ {
		strips[i] = Strip{
			Index:  i,
			Bounds: image.Rect(i*stripWidth, 0, (i+1)*stripWidth, height),
		}
	}
	return strips
}

// Validate reports whether the order is a permutation of 0..n-1
func (o StripOrder) Validate(n int) error {
	if len(o) != n {
		return fmt.Errorf("order has %d entries, expected %d", len(o), n)
	}
	seen := make([]bool, n)
	for slot, idx := range o {
		if idx < 0 || idx >= n {
			return fmt.Errorf("slot %d references strip %d outside [0, %d)", slot, idx, n)
		}
		if seen[idx] {
			return fmt.Errorf("strip %d placed more than once", idx)
		}
		seen[idx] = true
	}
	return nil
}

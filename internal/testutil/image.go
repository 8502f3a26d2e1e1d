// Package testutil generates synthetic images for tests.
package testutil

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"unshred/pkg/pixels"
	"unshred/pkg/shredder"
)

// MaxRampWidth is the widest ramp whose red channel stays strictly increasing
const MaxRampWidth = 128

// RampImage creates a horizontal colour ramp: red rises by 2 per column and
// blue falls by 2 per column, so the distance between two columns grows
// linearly with how far apart they are. Green varies per row only.
func RampImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(2 * x),
				G: uint8((y * 37) % 256),
				B: uint8(255 - 2*x),
				A: 255,
			})
		}
	}
	return img
}

// ShreddedRamp shreds a RampImage with perm and returns the shredded image
// as a pixel source together with the original.
func ShreddedRamp(t testing.TB, width, height, stripWidth int, perm []int) (*pixels.Source, *image.NRGBA) {
	t.Helper()
	require.LessOrEqual(t, width, MaxRampWidth)

	original := RampImage(width, height)
	shredded, err := shredder.Shred(original, stripWidth, perm)
	require.NoError(t, err)

	return pixels.FromImage(shredded), original
}

// Reversed returns the permutation n-1, n-2, ..., 0
func Reversed(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = n - 1 - i
	}
	return perm
}

// FromColors builds a single-row image with one pixel per colour
func FromColors(colors ...color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, len(colors), 1))
	for x, c := range colors {
		img.SetNRGBA(x, 0, c)
	}
	return img
}

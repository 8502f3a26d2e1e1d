// Package pixels wraps decoded images in a read-only pixel source with
// constant-time colour lookup, and provides the decode/encode helpers used
// by the command line tool.
package pixels

import (
	"image"

	"github.com/disintegration/imaging"

	"unshred/internal/models"
)

// Channels is the number of components in every colour vector (R, G, B, A).
const Channels = 4

// Source is an immutable W x H grid of colour vectors.
//
// Colour components are non-premultiplied 8-bit values stored as float64 in
// the range 0-255. A Source is never modified after construction, so it is
// safe to share between goroutines.
type Source struct {
	width  int
	height int

	// data holds Channels values per pixel in row-major order
	data []float64

	// img is the normalised NRGBA copy the data was read from
	img *image.NRGBA
}

// FromImage builds a Source from any decoded image. The image is normalised
// to NRGBA with its origin moved to (0, 0).
func FromImage(img image.Image) *Source {
	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	data := make([]float64, width*height*Channels)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := nrgba.PixOffset(x, y)
			o := (y*width + x) * Channels
			data[o+0] = float64(nrgba.Pix[i+0])
			data[o+1] = float64(nrgba.Pix[i+1])
			data[o+2] = float64(nrgba.Pix[i+2])
			data[o+3] = float64(nrgba.Pix[i+3])
		}
	}

	return &Source{
		width:  width,
		height: height,
		data:   data,
		img:    nrgba,
	}
}

// Width returns the image width in pixels
func (s *Source) Width() int { return s.width }

// Height returns the image height in pixels
func (s *Source) Height() int { return s.height }

// Image returns the normalised image backing the source. Callers must not
// modify it.
func (s *Source) Image() *image.NRGBA { return s.img }

// At returns the colour vector of pixel (x, y). The returned slice aliases
// the source and must not be modified.
func (s *Source) At(x, y int) ([]float64, error) {
	if !s.InBounds(x, y) {
		return nil, &models.BoundsError{X: x, Y: y, Width: s.width, Height: s.height}
	}
	return s.Pixel(x, y), nil
}

// Pixel is the unchecked variant of At for callers that validated the
// coordinates already.
func (s *Source) Pixel(x, y int) []float64 {
	o := (y*s.width + x) * Channels
	return s.data[o : o+Channels : o+Channels]
}

// InBounds reports whether (x, y) lies inside the image
func (s *Source) InBounds(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

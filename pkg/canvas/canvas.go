// Package canvas lays out the vertical strips of an image in a new order.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"

	"unshred/internal/models"
)

// Assemble allocates a canvas the size of src and fills destination slot i
// with strip order[i] of src. Every slot is written exactly once.
func Assemble(src image.Image, stripWidth int, order models.StripOrder) (*image.NRGBA, error) {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if err := models.ValidateStripWidth(stripWidth, width); err != nil {
		return nil, err
	}
	strips := models.StripLayout(width, height, stripWidth)
	if err := order.Validate(len(strips)); err != nil {
		return nil, fmt.Errorf("invalid strip order: %w", err)
	}

	out := imaging.New(width, height, color.Transparent)
	for slot, idx := range order {
		piece := imaging.Crop(src, strips[idx].Bounds.Add(bounds.Min))
		dst := image.Rect(slot*stripWidth, 0, (slot+1)*stripWidth, height)
		draw.Draw(out, dst, piece, image.Point{}, draw.Src)
	}

	return out, nil
}

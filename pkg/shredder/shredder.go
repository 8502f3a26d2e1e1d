// Package shredder produces shredded test images: it cuts an image into
// equal-width vertical strips and rearranges them.
package shredder

import (
	"image"
	"log/slog"
	"math/rand/v2"

	"unshred/internal/models"
	"unshred/pkg/canvas"
)

// Permutation returns a pseudo-random permutation of 0..n-1 derived from seed
func Permutation(n int, seed uint64) []int {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return rng.Perm(n)
}

// Shred rearranges the strips of img so that slot p of the result holds
// original strip perm[p].
func Shred(img image.Image, stripWidth int, perm []int) (*image.NRGBA, error) {
	out, err := canvas.Assemble(img, stripWidth, models.StripOrder(perm))
	if err != nil {
		return nil, err
	}
	slog.Debug("image shredded", "strip_width", stripWidth, "strips", len(perm))
	return out, nil
}

// ShredRandom shreds img with a seeded random permutation and returns the
// permutation used.
func ShredRandom(img image.Image, stripWidth int, seed uint64) (*image.NRGBA, []int, error) {
	bounds := img.Bounds()
	if err := models.ValidateStripWidth(stripWidth, bounds.Dx()); err != nil {
		return nil, nil, err
	}
	perm := Permutation(bounds.Dx()/stripWidth, seed)
	out, err := Shred(img, stripWidth, perm)
	if err != nil {
		return nil, nil, err
	}
	return out, perm, nil
}

// Inverse returns the order that undoes perm: Inverse(perm)[perm[p]] = p.
// Reassembling a shredded image with the inverse restores the original.
func Inverse(perm []int) models.StripOrder {
	inv := make(models.StripOrder, len(perm))
	for p, original := range perm {
		inv[original] = p
	}
	return inv
}

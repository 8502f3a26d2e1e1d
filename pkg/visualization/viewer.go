package visualization

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"

	"unshred/internal/models"
)

// DefaultCellSize is the edge length in pixels of one matrix cell in a heat map
const DefaultCellSize = 8

// Viewer renders a seam-cost matrix as images so that the chaining
// decisions can be inspected by eye.
type Viewer struct {
	// matrix holds the seam costs; entry (i, j) is strip j following strip i
	matrix *mat.Dense

	// order is the reconstructed strip order, possibly empty
	order models.StripOrder
}

// NewViewer creates a viewer for a seam-cost matrix and its strip order
func NewViewer(matrix *mat.Dense, order models.StripOrder) *Viewer {
	return &Viewer{
		matrix: matrix,
		order:  order,
	}
}

// Heatmap renders the matrix with one cellSize x cellSize square per entry.
// Cheap seams are dark, expensive ones bright; infinite entries are white.
func (v *Viewer) Heatmap(cellSize int) image.Image {
	n, _ := v.matrix.Dims()
	identity := make([]int, n)
	for i := range identity {
		identity[i] = i
	}
	return v.render(identity, cellSize)
}

// OrderedHeatmap renders the matrix with rows and columns permuted into the
// reconstructed order. A correct chain shows up as a dark line just above
// the diagonal.
func (v *Viewer) OrderedHeatmap(cellSize int) (image.Image, error) {
	n, _ := v.matrix.Dims()
	if err := v.order.Validate(n); err != nil {
		return nil, fmt.Errorf("cannot order heat map: %w", err)
	}
	return v.render(v.order, cellSize), nil
}

func (v *Viewer) render(perm []int, cellSize int) image.Image {
	if cellSize < 1 {
		cellSize = 1
	}
	n := len(perm)
	lo, hi := v.finiteRange()

	img := image.NewGray16(image.Rect(0, 0, n*cellSize, n*cellSize))
	for r, i := range perm {
		for c, j := range perm {
			value := uint16(65535)
			if cost := v.matrix.At(i, j); isFinite(cost) {
				value = 0
				if hi > lo {
					value = uint16(math.Max(0, math.Min(65535, (cost-lo)/(hi-lo)*65535)))
				}
			}
			for y := r * cellSize; y < (r+1)*cellSize; y++ {
				for x := c * cellSize; x < (c+1)*cellSize; x++ {
					img.SetGray16(x, y, color.Gray16{Y: value})
				}
			}
		}
	}
	return img
}

// finiteRange returns the smallest and largest finite entries
func (v *Viewer) finiteRange() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	rows, cols := v.matrix.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x := v.matrix.At(i, j)
			if !isFinite(x) {
				continue
			}
			lo = math.Min(lo, x)
			hi = math.Max(hi, x)
		}
	}
	return lo, hi
}

func isFinite(x float64) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}

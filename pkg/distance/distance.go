// Package distance provides the dissimilarity measures used to compare
// pixels and whole image columns.
package distance

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"

	"unshred/internal/models"
	"unshred/pkg/pixels"
)

// Metric computes a scalar dissimilarity between two colour vectors.
// Implementations must be safe for concurrent use.
type Metric interface {
	Pixel(p1, p2 []float64) float64
	Name() string
}

// Euclidean is the plain L2 distance over all channels, without
// normalisation by the channel count.
type Euclidean struct{}

func (Euclidean) Pixel(p1, p2 []float64) float64 {
	return floats.Distance(p1, p2, 2)
}

func (Euclidean) Name() string { return "euclidean" }

// Lab is the CIE76 colour difference. Alpha is ignored.
type Lab struct{}

func (Lab) Pixel(p1, p2 []float64) float64 {
	return toColorful(p1).DistanceLab(toColorful(p2))
}

func (Lab) Name() string { return "lab" }

func toColorful(p []float64) colorful.Color {
	return colorful.Color{R: p[0] / 255, G: p[1] / 255, B: p[2] / 255}
}

var registry = map[string]Metric{
	Euclidean{}.Name(): Euclidean{},
	Lab{}.Name():       Lab{},
}

// ByName resolves a metric from its configuration name
func ByName(name string) (Metric, error) {
	if m, ok := registry[name]; ok {
		return m, nil
	}
	return nil, &models.ConfigurationError{
		Setting: "metric",
		Reason:  fmt.Sprintf("unknown metric %q (available: %v)", name, Names()),
	}
}

// Names lists the registered metric names in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Column returns the sum over all rows of the pixel distance between
// columns x1 and x2.
func Column(src *pixels.Source, metric Metric, x1, x2 int) (float64, error) {
	for _, x := range []int{x1, x2} {
		if !src.InBounds(x, 0) {
			return 0, &models.BoundsError{X: x, Y: 0, Width: src.Width(), Height: src.Height()}
		}
	}

	var sum float64
	for y := 0; y < src.Height(); y++ {
		sum += metric.Pixel(src.Pixel(x1, y), src.Pixel(x2, y))
	}
	return sum, nil
}

// Adjacent returns the distance between every pair of neighbouring
// columns: result[i] = Column(i, i+1) for i in [0, W-2].
func Adjacent(src *pixels.Source, metric Metric) []float64 {
	if src.Width() < 2 {
		return nil
	}
	result := make([]float64, src.Width()-1)
	for i := range result {
		// both columns are in range by construction
		result[i], _ = Column(src, metric, i, i+1)
	}
	return result
}

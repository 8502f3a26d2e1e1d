// Package width detects the strip width of a shredded image.
//
// The detector compares every pair of neighbouring columns and, for every
// divisor k of the image width in [2, W/2], separates the distances that
// would cross a strip boundary of width k from the rest. A Scorer rates the
// split and the best-rated k wins.
//
// The default scorer is a heuristic. It works when shred seams show up as
// sharp colour transitions, which holds for synthetic high-contrast images,
// and may pick the wrong width on low-contrast or highly repetitive content.
package width

import (
	"log/slog"

	"unshred/internal/models"
	"unshred/pkg/distance"
	"unshred/pkg/pixels"
)

// Detector finds the strip width of a shredded image
type Detector struct {
	Metric distance.Metric
	Scorer Scorer
}

// NewDetector creates a detector using the given metric and scorer
func NewDetector(metric distance.Metric, scorer Scorer) *Detector {
	return &Detector{Metric: metric, Scorer: scorer}
}

// Detect returns the best-scoring strip width for src together with the
// score of every candidate.
func (d *Detector) Detect(src *pixels.Source) (models.WidthDetection, error) {
	adjacent := distance.Adjacent(src, d.Metric)
	return d.DetectFromDistances(src.Width(), adjacent)
}

// DetectFromDistances runs the candidate scoring on precomputed adjacent
// column distances of an image that is imageWidth pixels wide.
func (d *Detector) DetectFromDistances(imageWidth int, adjacent []float64) (models.WidthDetection, error) {
	var result models.WidthDetection

	best := -1
	for k := 2; k <= imageWidth/2; k++ {
		if imageWidth%k != 0 {
			continue
		}
		included, excluded := Partition(adjacent, k)
		score := d.Scorer.Score(included, excluded)
		result.Candidates = append(result.Candidates, models.WidthCandidate{Width: k, Score: score})

		// strict comparison keeps the smallest width on ties
		if best < 0 || score > result.Candidates[best].Score {
			best = len(result.Candidates) - 1
		}
	}

	if best < 0 {
		return result, &models.DetectionAmbiguityError{ImageWidth: imageWidth}
	}

	result.Width = result.Candidates[best].Width
	slog.Debug("strip width detected",
		"width", result.Width,
		"score", result.Candidates[best].Score,
		"candidates", len(result.Candidates),
		"scorer", d.Scorer.Name())

	return result, nil
}

// Partition splits adjacent column distances for a strip width of k:
// included holds positions k-1, 2k-1, ... (the distances across strip
// boundaries), excluded holds every other position.
func Partition(adjacent []float64, k int) (included, excluded []float64) {
	for i, v := range adjacent {
		if (i+1)%k == 0 {
			included = append(included, v)
		} else {
			excluded = append(excluded, v)
		}
	}
	return included, excluded
}

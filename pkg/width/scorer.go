package width

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"unshred/internal/models"
)

// Scorer rates a candidate strip width from the adjacent-column distances
// that cross the would-be strip boundaries (included) and all others
// (excluded). Higher is better.
type Scorer interface {
	Score(included, excluded []float64) float64
	Name() string
}

// MeanMinusMax scores a candidate as mean(included) - max(excluded): the
// boundary crossings should be large compared to the largest distance
// inside any strip.
type MeanMinusMax struct{}

func (MeanMinusMax) Score(included, excluded []float64) float64 {
	if len(included) == 0 || len(excluded) == 0 {
		return math.Inf(-1)
	}
	return stat.Mean(included, nil) - floats.Max(excluded)
}

func (MeanMinusMax) Name() string { return "mean-minus-max" }

// minStdDev stands in for the spread of perfectly uniform distances
const minStdDev = 1e-9

// ZScore scores a candidate by how many standard deviations the mean
// boundary distance sits above the mean of the other distances.
type ZScore struct{}

func (ZScore) Score(included, excluded []float64) float64 {
	if len(included) == 0 || len(excluded) == 0 {
		return math.Inf(-1)
	}
	mean, std := stat.MeanStdDev(excluded, nil)
	if math.IsNaN(std) || std < minStdDev {
		std = minStdDev
	}
	return (stat.Mean(included, nil) - mean) / std
}

func (ZScore) Name() string { return "zscore" }

var scorers = map[string]Scorer{
	MeanMinusMax{}.Name(): MeanMinusMax{},
	ZScore{}.Name():       ZScore{},
}

// ScorerByName resolves a scorer from its configuration name
func ScorerByName(name string) (Scorer, error) {
	if s, ok := scorers[name]; ok {
		return s, nil
	}
	return nil, &models.ConfigurationError{
		Setting: "scorer",
		Reason:  fmt.Sprintf("unknown scorer %q (available: %v)", name, ScorerNames()),
	}
}

// ScorerNames lists the registered scorer names in sorted order
func ScorerNames() []string {
	names := make([]string, 0, len(scorers))
	for name := range scorers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

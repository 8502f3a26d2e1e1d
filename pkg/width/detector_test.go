package width

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unshred/internal/models"
	"unshred/internal/testutil"
	"unshred/pkg/distance"
	"unshred/pkg/pixels"
)

func TestPartition(t *testing.T) {
	adjacent := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	included, excluded := Partition(adjacent, 3)
	assert.Equal(t, []float64{2, 5, 8}, included)
	assert.Equal(t, []float64{0, 1, 3, 4, 6, 7, 9, 10}, excluded)

	included, excluded = Partition(adjacent, 6)
	assert.Equal(t, []float64{5}, included)
	assert.Len(t, excluded, 10)
}

func TestPartitionKeepsDuplicates(t *testing.T) {
	// equal values at included and excluded positions are kept on both sides
	included, excluded := Partition([]float64{1, 5, 1, 5, 1}, 2)
	assert.Equal(t, []float64{5, 5}, included)
	assert.Equal(t, []float64{1, 1, 1}, excluded)
}

func TestMeanMinusMax(t *testing.T) {
	s := MeanMinusMax{}
	assert.InDelta(t, 6.0-3.0, s.Score([]float64{4, 8}, []float64{1, 3, 2}), 1e-12)
	assert.True(t, math.IsInf(s.Score(nil, []float64{1}), -1))
	assert.True(t, math.IsInf(s.Score([]float64{1}, nil), -1))
}

func TestZScore(t *testing.T) {
	s := ZScore{}
	// excluded mean 2, sample stddev 1
	assert.InDelta(t, 4.0, s.Score([]float64{6, 6}, []float64{1, 2, 3}), 1e-12)
	// uniform excluded distances do not divide by zero
	assert.False(t, math.IsInf(s.Score([]float64{5}, []float64{1, 1}), 0))
	assert.Greater(t, s.Score([]float64{5}, []float64{1, 1}), s.Score([]float64{3}, []float64{1, 1}))
	assert.True(t, math.IsInf(s.Score(nil, []float64{1}), -1))
}

func TestScorerByName(t *testing.T) {
	s, err := ScorerByName("mean-minus-max")
	require.NoError(t, err)
	assert.Equal(t, "mean-minus-max", s.Name())

	s, err = ScorerByName("zscore")
	require.NoError(t, err)
	assert.Equal(t, "zscore", s.Name())

	_, err = ScorerByName("variance")
	var cfgErr *models.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"mean-minus-max", "zscore"}, ScorerNames())
}

func TestDetectReversedRamp(t *testing.T) {
	for _, scorer := range []Scorer{MeanMinusMax{}, ZScore{}} {
		for _, stripWidth := range []int{2, 3, 4, 6} {
			numStrips := 24 / stripWidth
			src, _ := testutil.ShreddedRamp(t, 24, 3, stripWidth, testutil.Reversed(numStrips))

			result, err := NewDetector(distance.Euclidean{}, scorer).Detect(src)
			require.NoError(t, err)
			assert.Equal(t, stripWidth, result.Width, "scorer %s", scorer.Name())
		}
	}
}

func TestDetectListsCandidates(t *testing.T) {
	src, _ := testutil.ShreddedRamp(t, 24, 2, 4, testutil.Reversed(6))

	result, err := NewDetector(distance.Euclidean{}, MeanMinusMax{}).Detect(src)
	require.NoError(t, err)

	widths := make([]int, len(result.Candidates))
	for i, c := range result.Candidates {
		widths[i] = c.Width
		if c.Width != result.Width {
			assert.Less(t, c.Score, scoreOf(result, result.Width))
		}
	}
	assert.Equal(t, []int{2, 3, 4, 6, 8, 12}, widths)
}

func scoreOf(result models.WidthDetection, width int) float64 {
	for _, c := range result.Candidates {
		if c.Width == width {
			return c.Score
		}
	}
	return math.NaN()
}

func TestDetectFromDistancesTiesKeepSmallest(t *testing.T) {
	// all distances equal: every candidate scores 0
	adjacent := []float64{1, 1, 1, 1, 1, 1, 1}

	result, err := NewDetector(distance.Euclidean{}, MeanMinusMax{}).DetectFromDistances(8, adjacent)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Width)
	assert.Len(t, result.Candidates, 2)
}

func TestDetectNoCandidate(t *testing.T) {
	for _, width := range []int{1, 2, 3, 7, 13} {
		img := testutil.RampImage(width, 2)
		_, err := NewDetector(distance.Euclidean{}, MeanMinusMax{}).Detect(pixels.FromImage(img))

		var ambErr *models.DetectionAmbiguityError
		require.ErrorAs(t, err, &ambErr, "width %d", width)
		assert.Equal(t, width, ambErr.ImageWidth)
	}
}

func TestDetectFewDivisors(t *testing.T) {
	// 14 only admits 2 and 7; 9 only admits 3
	for _, width := range []int{9, 14} {
		img := testutil.FromColors(make([]color.NRGBA, width)...)
		result, err := NewDetector(distance.Euclidean{}, MeanMinusMax{}).Detect(pixels.FromImage(img))
		require.NoError(t, err)
		assert.NotZero(t, result.Width)
		assert.Zero(t, width%result.Width)
	}
}

package chain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"unshred/internal/models"
)

// matrixFor builds a cost matrix whose row minima are exactly next
func matrixFor(next []int) *mat.Dense {
	n := len(next)
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.Set(i, j, 10)
		}
		m.Set(i, next[i], 1)
	}
	return m
}

func TestSuccessorsTieBreak(t *testing.T) {
	m := mat.NewDense(3, 3, []float64{
		5, 2, 2,
		1, 1, 0,
		7, 7, 7,
	})
	assert.Equal(t, models.SuccessorMap{1, 2, 0}, Successors(m))
}

func TestSuccessorsDiagonalLosesTies(t *testing.T) {
	m := mat.NewDense(3, 3, []float64{
		1, 1, 4,
		2, 2, 2,
		3, 5, 1,
	})
	// row 0 ties itself with 1, row 1 ties 0 first, row 2 is strictly cheapest on itself
	assert.Equal(t, models.SuccessorMap{1, 0, 2}, Successors(m))
}

func TestSuccessorsTwoStripsWithDiagonal(t *testing.T) {
	// two 2px ramp strips in order: A's self seam ties with A -> B
	m := mat.NewDense(2, 2, []float64{
		1, 1,
		3, 1,
	})
	next := Successors(m)
	assert.Equal(t, models.SuccessorMap{1, 1}, next)

	order, err := Solve(m)
	require.NoError(t, err)
	assert.Equal(t, models.StripOrder{0, 1}, order)
}

func TestSolveTwoStripsWithoutDiagonalFails(t *testing.T) {
	inf := math.Inf(1)
	_, err := Solve(mat.NewDense(2, 2, []float64{
		inf, 1,
		3, inf,
	}))

	var chainErr *models.ChainIntegrityError
	require.ErrorAs(t, err, &chainErr)
	assert.Empty(t, chainErr.Holes)
}

func TestSeamCosts(t *testing.T) {
	m := mat.NewDense(3, 3, []float64{
		0, 1, 9,
		5, 0, 2,
		3, 7, 0,
	})
	assert.Equal(t, []float64{3, 1}, SeamCosts(m, models.StripOrder{2, 0, 1}))
	assert.Nil(t, SeamCosts(m, models.StripOrder{1}))
	assert.Nil(t, SeamCosts(m, nil))
}

func TestSuccessorsIgnoresInfiniteDiagonal(t *testing.T) {
	inf := math.Inf(1)
	m := mat.NewDense(2, 2, []float64{
		inf, 4,
		3, inf,
	})
	assert.Equal(t, models.SuccessorMap{1, 0}, Successors(m))
}

func TestHoles(t *testing.T) {
	assert.Equal(t, []int{1}, Holes(models.SuccessorMap{2, 3, 0, 0}))
	assert.Equal(t, []int{0, 2}, Holes(models.SuccessorMap{1, 1, 3, 3}))
	assert.Empty(t, Holes(models.SuccessorMap{1, 2, 0}))
}

func TestSolveConcreteScenario(t *testing.T) {
	// seam costs of the shuffled strips C A D B with red 20 0 30 10
	inf := math.Inf(1)
	m := mat.NewDense(4, 4, []float64{
		inf, 20, 10, 10,
		20, inf, 30, 10,
		10, 30, inf, 20,
		10, 10, 20, inf,
	})

	assert.Equal(t, models.SuccessorMap{2, 3, 0, 0}, Successors(m))

	order, err := Solve(m)
	require.NoError(t, err)
	// A B C D sit at shuffled positions 1 3 0 2
	assert.Equal(t, models.StripOrder{1, 3, 0, 2}, order)
	assert.Equal(t, []float64{10, 10, 10}, SeamCosts(m, order))
}

func TestSolveAsymmetricMatrix(t *testing.T) {
	// the transpose would chain 2 1 0; only the row direction counts
	m := mat.NewDense(3, 3, []float64{
		9, 1, 8,
		6, 9, 1,
		1, 5, 9,
	})
	require.False(t, mat.Equal(m, m.T()))

	order, err := Solve(m)
	require.Error(t, err, "full cycle 0->1->2->0 has no start")

	m.Set(2, 0, 7)
	order, err = Solve(m)
	require.NoError(t, err)
	assert.Equal(t, models.StripOrder{0, 1, 2}, order)
}

func TestSolveFullCycleFails(t *testing.T) {
	_, err := Solve(matrixFor([]int{1, 2, 3, 0}))

	var chainErr *models.ChainIntegrityError
	require.ErrorAs(t, err, &chainErr)
	assert.Empty(t, chainErr.Holes)
	assert.Equal(t, -1, chainErr.Repeated)
}

func TestSolveTwoHolesFails(t *testing.T) {
	// two disconnected paths 0->1 and 2->3
	_, err := Solve(matrixFor([]int{1, 1, 3, 3}))

	var chainErr *models.ChainIntegrityError
	require.ErrorAs(t, err, &chainErr)
	assert.Equal(t, []int{0, 2}, chainErr.Holes)
}

func TestSolveCycleAfterStartFails(t *testing.T) {
	// single hole 4, but 4->0->1->0 loops before reaching 2 and 3
	_, err := Solve(matrixFor([]int{1, 0, 3, 2, 0}))

	var chainErr *models.ChainIntegrityError
	require.ErrorAs(t, err, &chainErr)
	assert.Equal(t, 0, chainErr.Repeated)
}

func TestWalkSelfLoopFails(t *testing.T) {
	// 3 -> 0 -> 1 -> 1 returns to strip 1 before strip 2 is placed
	_, err := Walk(models.SuccessorMap{1, 1, 0, 0}, 3)

	var chainErr *models.ChainIntegrityError
	require.ErrorAs(t, err, &chainErr)
	assert.Equal(t, 1, chainErr.Repeated)
	assert.Equal(t, []int{3}, chainErr.Holes)
}

func TestWalkIgnoresLastSuccessor(t *testing.T) {
	// the last strip points at itself, which the walk never follows
	order, err := Walk(models.SuccessorMap{1, 1, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, models.StripOrder{2, 0, 1}, order)
}

func TestWalk(t *testing.T) {
	order, err := Walk(models.SuccessorMap{2, 3, 0, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StripOrder{1, 3, 0, 2}, order)
	assert.NoError(t, order.Validate(4))
}

func TestStart(t *testing.T) {
	start, err := Start(models.SuccessorMap{2, 3, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 1, start)

	_, err = Start(models.SuccessorMap{0, 1})
	assert.Error(t, err)
}

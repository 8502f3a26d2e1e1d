// Package chain turns a seam-cost matrix into a left-to-right strip order
// by greedy nearest-neighbour chaining.
package chain

import (
	"gonum.org/v1/gonum/mat"

	"unshred/internal/models"
)

// Successors picks, for every row i, the column with the lowest cost.
// Ties go to the lowest column index, except that the diagonal (i, i) only
// wins when it is strictly cheaper than every other strip.
func Successors(matrix mat.Matrix) models.SuccessorMap {
	rows, cols := matrix.Dims()
	next := make(models.SuccessorMap, rows)
	for i := 0; i < rows; i++ {
		best := 0
		for j := 1; j < cols; j++ {
			cost, bestCost := matrix.At(i, j), matrix.At(i, best)
			if cost < bestCost || (cost == bestCost && best == i) {
				best = j
			}
		}
		next[i] = best
	}
	return next
}

// Holes returns, in ascending order, the strips that are nobody's successor
func Holes(next models.SuccessorMap) []int {
	hasPredecessor := make([]bool, len(next))
	for _, j := range next {
		if j >= 0 && j < len(next) {
			hasPredecessor[j] = true
		}
	}

	var holes []int
	for i, ok := range hasPredecessor {
		if !ok {
			holes = append(holes, i)
		}
	}
	return holes
}

// Start returns the single strip without a predecessor. Zero or several
// such strips mean the successors do not form one path.
func Start(next models.SuccessorMap) (int, error) {
	holes := Holes(next)
	if len(holes) != 1 {
		return -1, &models.ChainIntegrityError{Holes: holes, Repeated: -1}
	}
	return holes[0], nil
}

// Walk follows successors from start for len(next) strips. Reaching a strip
// twice is a cycle and fails the walk.
func Walk(next models.SuccessorMap, start int) (models.StripOrder, error) {
	order := make(models.StripOrder, 0, len(next))
	visited := make([]bool, len(next))

	current := start
	for len(order) < len(next) {
		if visited[current] {
			return nil, &models.ChainIntegrityError{Holes: []int{start}, Repeated: current}
		}
		visited[current] = true
		order = append(order, current)
		current = next[current]
	}
	return order, nil
}

// Solve derives the strip order from a seam-cost matrix
func Solve(matrix mat.Matrix) (models.StripOrder, error) {
	next := Successors(matrix)
	start, err := Start(next)
	if err != nil {
		return nil, err
	}
	return Walk(next, start)
}

// SeamCosts returns the cost of every seam along order: entry i is the cost
// of order[i+1] following order[i]. Orders shorter than two strips have no seams.
func SeamCosts(matrix mat.Matrix, order models.StripOrder) []float64 {
	if len(order) < 2 {
		return nil
	}
	costs := make([]float64, len(order)-1)
	for i := 1; i < len(order); i++ {
		costs[i-1] = matrix.At(order[i-1], order[i])
	}
	return costs
}

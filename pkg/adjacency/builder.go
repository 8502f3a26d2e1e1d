// Package adjacency builds the seam-cost matrix between the strips of a
// shredded image.
package adjacency

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"unshred/internal/models"
	"unshred/pkg/distance"
	"unshred/pkg/pixels"
)

// Builder computes the N x N matrix of seam costs between strips.
//
// Entry (i, j) is the cost of placing strip j immediately to the right of
// strip i: the column distance between the rightmost column of i and the
// leftmost column of j. The matrix is not symmetric.
type Builder struct {
	// Metric compares pixels of the two seam columns
	Metric distance.Metric

	// NumCores bounds the number of rows computed concurrently.
	// Values below 1 use all available CPUs.
	NumCores int

	// ExcludeSelf stores +Inf on the diagonal so that no strip can be
	// chosen as its own successor. When false every ordered pair, including
	// (i, i), keeps its measured cost.
	ExcludeSelf bool
}

// NewBuilder creates a builder with the given metric and diagonal policy
func NewBuilder(metric distance.Metric, numCores int, excludeSelf bool) *Builder {
	return &Builder{
		Metric:      metric,
		NumCores:    numCores,
		ExcludeSelf: excludeSelf,
	}
}

// StripDistance returns the seam cost of strip n2 following strip n1
func StripDistance(src *pixels.Source, metric distance.Metric, stripWidth, n1, n2 int) (float64, error) {
	return distance.Column(src, metric, n1*stripWidth+(stripWidth-1), n2*stripWidth)
}

// Build computes the seam-cost matrix of src for the given strip width.
// Rows are distributed across NumCores workers; every worker writes only
// the cells of the rows it owns.
func (b *Builder) Build(ctx context.Context, src *pixels.Source, stripWidth int) (*mat.Dense, error) {
	if err := models.ValidateStripWidth(stripWidth, src.Width()); err != nil {
		return nil, err
	}

	n := src.Width() / stripWidth
	matrix := mat.NewDense(n, n, nil)

	numWorkers := b.NumCores
	if numWorkers < 1 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > n {
		numWorkers = n
	}

	rows := make(chan int)
	errs := make(chan error, numWorkers)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				if err := b.fillRow(src, matrix, stripWidth, i); err != nil {
					errs <- err
					return
				}
			}
		}()
	}

	var sendErr error
feed:
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			sendErr = err
			break
		}
		select {
		case <-ctx.Done():
			sendErr = ctx.Err()
			break feed
		case err := <-errs:
			sendErr = err
			break feed
		case rows <- i:
		}
	}
	close(rows)

	// wait for the workers and collect their errors
	go func() {
		wg.Wait()
		close(errs)
	}()
	for err := range errs {
		if sendErr == nil {
			sendErr = err
		}
	}
	if sendErr != nil {
		return nil, sendErr
	}

	slog.Debug("adjacency matrix built",
		"strips", n,
		"strip_width", stripWidth,
		"workers", numWorkers,
		"exclude_self", b.ExcludeSelf)

	return matrix, nil
}

func (b *Builder) fillRow(src *pixels.Source, matrix *mat.Dense, stripWidth, i int) error {
	n, _ := matrix.Dims()
	for j := 0; j < n; j++ {
		if i == j && b.ExcludeSelf {
			matrix.Set(i, j, math.Inf(1))
			continue
		}
		d, err := StripDistance(src, b.Metric, stripWidth, i, j)
		if err != nil {
			return err
		}
		matrix.Set(i, j, d)
	}
	return nil
}

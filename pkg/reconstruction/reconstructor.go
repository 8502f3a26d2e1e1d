package reconstruction

import (
	"context"
	"encoding/csv"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"unshred/internal/models"
	"unshred/pkg/adjacency"
	"unshred/pkg/canvas"
	"unshred/pkg/chain"
	"unshred/pkg/distance"
	"unshred/pkg/pixels"
	"unshred/pkg/visualization"
	"unshred/pkg/width"
)

// Report describes how a shredded image was put back together.
// It is filled in by Reconstruct and can be inspected afterwards.
type Report struct {
	// StripWidth is the strip width that was used
	StripWidth int

	// Detected is true when StripWidth came from width detection
	Detected bool

	// NumStrips is the number of strips in the image
	NumStrips int

	// Candidates holds the score of every candidate width when the width
	// was detected
	Candidates []models.WidthCandidate

	// Successors is the per-strip arg-min of the seam-cost matrix
	Successors models.SuccessorMap

	// Start is the strip identified as the leftmost one
	Start int

	// Order is the reconstructed left-to-right strip order
	Order models.StripOrder

	// ExcludedSelfPairs is true when the diagonal of the seam-cost matrix
	// was set to +Inf
	ExcludedSelfPairs bool

	// TotalSeamCost sums the seam costs along Order; lower means the
	// chosen neighbours match better
	TotalSeamCost float64

	// MeanSeamCost is the average seam cost along Order
	MeanSeamCost float64

	// Duration is the wall time spent in Reconstruct
	Duration time.Duration
}

// Params holds the reconstruction parameters.
type Params struct {
	// InputFile is the shredded image. Used by Process only.
	InputFile string

	// OutputFile is where Process writes the reconstructed image.
	// The format follows the file extension.
	OutputFile string

	// StripWidth is the known strip width in pixels. 0 triggers width detection.
	StripWidth int

	// NumCores specifies how many CPU cores build the seam-cost matrix.
	// Values below 1 use every CPU.
	NumCores int

	// Metric compares pixels. Nil means Euclidean distance.
	Metric distance.Metric

	// Scorer rates candidate strip widths. Nil means MeanMinusMax.
	Scorer width.Scorer

	// SelfPairs decides whether a strip may be chosen as its own successor.
	// The empty value means adjacency.SelfPairsAuto.
	SelfPairs adjacency.SelfPairs

	// JPEGQuality is used when OutputFile is a JPEG.
	JPEGQuality int

	// SaveIntermediaryResults determines whether to save intermediary results
	// (width scores, seam-cost matrix, heat map, strip order).
	SaveIntermediaryResults bool

	// IntermediaryDir is the directory where intermediary results will be saved.
	// Only used when SaveIntermediaryResults is true.
	IntermediaryDir string
}

// DefaultParams returns parameters for an in-memory reconstruction with
// width detection, Euclidean distance and the automatic self-pair policy.
func DefaultParams() *Params {
	return &Params{
		NumCores:    runtime.NumCPU(),
		Metric:      distance.Euclidean{},
		Scorer:      width.MeanMinusMax{},
		SelfPairs:   adjacency.SelfPairsAuto,
		JPEGQuality: 95,
	}
}

// Reconstructor puts a shredded image back together.
//
// The reconstruction process consists of several steps:
// 1. Validating the strip width, or detecting it when unknown
// 2. Building the seam-cost matrix between every ordered pair of strips
// 3. Chaining every strip to its cheapest successor and finding the first strip
// 4. Assembling the strips in chain order on a new canvas
type Reconstructor struct {
	// params stores the reconstruction configuration
	params *Params

	// report is filled in by the last successful reconstruction
	report Report
}

// NewReconstructor creates a new reconstructor instance with the provided parameters.
// Missing metric and scorer fall back to the defaults.
func NewReconstructor(params *Params) *Reconstructor {
	if params.Metric == nil {
		params.Metric = distance.Euclidean{}
	}
	if params.Scorer == nil {
		params.Scorer = width.MeanMinusMax{}
	}
	return &Reconstructor{params: params}
}

// Reconstruct reorders the strips of src with default parameters.
// A stripWidth of 0 detects the width first.
func Reconstruct(ctx context.Context, src *pixels.Source, stripWidth int) (*image.NRGBA, error) {
	params := DefaultParams()
	params.StripWidth = stripWidth
	return NewReconstructor(params).Reconstruct(ctx, src)
}

// Reconstruct reorders the strips of src and returns the assembled image.
// On failure no image is returned and the error is a *models.StageError
// naming the stage that failed.
func (r *Reconstructor) Reconstruct(ctx context.Context, src *pixels.Source) (*image.NRGBA, error) {
	start := time.Now()
	report := Report{}

	stripWidth, err := r.resolveStripWidth(src, &report)
	if err != nil {
		return nil, &models.StageError{Stage: models.StageWidthDetection, Err: err}
	}
	report.StripWidth = stripWidth
	report.NumStrips = src.Width() / stripWidth

	report.ExcludedSelfPairs = r.params.SelfPairs.Exclude(report.NumStrips, stripWidth)
	builder := adjacency.NewBuilder(r.params.Metric, r.params.NumCores, report.ExcludedSelfPairs)
	matrix, err := builder.Build(ctx, src, stripWidth)
	if err != nil {
		return nil, &models.StageError{Stage: models.StageAdjacency, Err: err}
	}

	report.Successors = chain.Successors(matrix)
	report.Start, err = chain.Start(report.Successors)
	if err != nil {
		r.saveArtifacts(matrix, &report)
		return nil, &models.StageError{Stage: models.StageChain, Err: err}
	}
	report.Order, err = chain.Walk(report.Successors, report.Start)
	if err != nil {
		r.saveArtifacts(matrix, &report)
		return nil, &models.StageError{Stage: models.StageChain, Err: err}
	}
	report.TotalSeamCost, report.MeanSeamCost = seamCosts(matrix, report.Order)

	out, err := canvas.Assemble(src.Image(), stripWidth, report.Order)
	if err != nil {
		return nil, &models.StageError{Stage: models.StageAssembly, Err: err}
	}

	report.Duration = time.Since(start)
	r.report = report

	slog.Info("strips reordered",
		"strip_width", report.StripWidth,
		"detected", report.Detected,
		"strips", report.NumStrips,
		"start", report.Start,
		"total_seam_cost", report.TotalSeamCost,
		"duration", report.Duration)

	r.saveArtifacts(matrix, &report)

	return out, nil
}

// resolveStripWidth validates the configured width or detects one
func (r *Reconstructor) resolveStripWidth(src *pixels.Source, report *Report) (int, error) {
	if r.params.StripWidth != 0 {
		if err := models.ValidateStripWidth(r.params.StripWidth, src.Width()); err != nil {
			return 0, err
		}
		return r.params.StripWidth, nil
	}

	slog.Debug("strip width not set, detecting", "image_width", src.Width())
	detection, err := width.NewDetector(r.params.Metric, r.params.Scorer).Detect(src)
	report.Candidates = detection.Candidates
	if err != nil {
		return 0, err
	}
	report.Detected = true

	return detection.Width, nil
}

// seamCosts returns the total and mean seam cost along order
func seamCosts(matrix mat.Matrix, order models.StripOrder) (total, mean float64) {
	costs := chain.SeamCosts(matrix, order)
	if len(costs) == 0 {
		return 0, 0
	}
	return floats.Sum(costs), stat.Mean(costs, nil)
}

// Process runs the complete file pipeline: load, reconstruct, save.
func (r *Reconstructor) Process(ctx context.Context) error {
	if r.params.SaveIntermediaryResults {
		if err := os.MkdirAll(r.params.IntermediaryDir, 0755); err != nil {
			return fmt.Errorf("failed to create intermediary directory: %w", err)
		}
	}

	slog.Info("loading shredded image", "path", r.params.InputFile)
	src, err := pixels.Load(r.params.InputFile)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	slog.Info("image loaded", "width", src.Width(), "height", src.Height())

	out, err := r.Reconstruct(ctx, src)
	if err != nil {
		return err
	}

	if err := pixels.Save(out, r.params.OutputFile, r.params.JPEGQuality); err != nil {
		return fmt.Errorf("failed to save output: %w", err)
	}
	slog.Info("reconstructed image saved", "path", r.params.OutputFile)

	return nil
}

// GetReport returns the report of the last successful reconstruction
func (r *Reconstructor) GetReport() Report {
	return r.report
}

// saveArtifacts writes every intermediary result; failures are logged.
// It also runs after a failed chain resolution so the matrix can be inspected.
func (r *Reconstructor) saveArtifacts(matrix *mat.Dense, report *Report) {
	if !r.params.SaveIntermediaryResults {
		return
	}
	if len(report.Candidates) > 0 {
		if err := r.saveIntermediaryResult("01_width_scores", report.Candidates); err != nil {
			slog.Warn("failed to save width scores", "error", err)
		}
	}
	if err := r.saveIntermediaryResult("02_seam_costs", matrix); err != nil {
		slog.Warn("failed to save seam-cost matrix", "error", err)
	}
	viewer := visualization.NewViewer(matrix, report.Order)
	if err := r.saveIntermediaryResult("03_heatmap", viewer.Heatmap(visualization.DefaultCellSize)); err != nil {
		slog.Warn("failed to save heat map", "error", err)
	}
	if len(report.Order) > 0 {
		ordered, err := viewer.OrderedHeatmap(visualization.DefaultCellSize)
		if err == nil {
			err = r.saveIntermediaryResult("04_ordered_heatmap", ordered)
		}
		if err != nil {
			slog.Warn("failed to save ordered heat map", "error", err)
		}
		if err := r.saveIntermediaryResult("05_strip_order", report.Order); err != nil {
			slog.Warn("failed to save strip order", "error", err)
		}
	}
}

// saveIntermediaryResult saves an intermediary result of the reconstruction.
// This helps explain the chosen order and debug failed reconstructions.
func (r *Reconstructor) saveIntermediaryResult(stage string, data interface{}) error {
	if !r.params.SaveIntermediaryResults {
		return nil
	}

	if err := os.MkdirAll(r.params.IntermediaryDir, 0755); err != nil {
		return fmt.Errorf("failed to create intermediary directory: %w", err)
	}
	base := filepath.Join(r.params.IntermediaryDir, stage)

	switch v := data.(type) {
	case image.Image:
		return pixels.Save(v, base+".png", r.params.JPEGQuality)

	case *mat.Dense:
		rows, cols := v.Dims()
		records := make([][]string, rows)
		for i := 0; i < rows; i++ {
			records[i] = make([]string, cols)
			for j := 0; j < cols; j++ {
				records[i][j] = strconv.FormatFloat(v.At(i, j), 'g', -1, 64)
			}
		}
		return writeCSV(base+".csv", records)

	case []models.WidthCandidate:
		records := [][]string{{"width", "score"}}
		for _, c := range v {
			records = append(records, []string{
				strconv.Itoa(c.Width),
				strconv.FormatFloat(c.Score, 'g', -1, 64),
			})
		}
		return writeCSV(base+".csv", records)

	default:
		file, err := os.Create(base + ".txt")
		if err != nil {
			return fmt.Errorf("failed to create text file: %w", err)
		}
		defer file.Close()

		_, err = fmt.Fprintf(file, "%v\n", v)
		return err
	}
}

func writeCSV(path string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv file: %w", err)
	}
	return nil
}

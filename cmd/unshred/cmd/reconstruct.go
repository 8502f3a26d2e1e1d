package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"unshred/pkg/adjacency"
	"unshred/pkg/config"
	"unshred/pkg/distance"
	"unshred/pkg/reconstruction"
	"unshred/pkg/width"
)

func newReconstructCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconstruct INPUT",
		Short: "Reorder the strips of a shredded image",
		Long: `Reorder the strips of a shredded image and write the result.

The strip width is detected when --strip-width is 0. The output format follows
the extension of --output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				output = defaultOutputPath(args[0])
			}

			params, err := paramsFromConfig(a.cfg)
			if err != nil {
				return err
			}
			params.InputFile = args[0]
			params.OutputFile = output

			reconstructor := reconstruction.NewReconstructor(params)
			if err := reconstructor.Process(cmd.Context()); err != nil {
				return fmt.Errorf("reconstruction failed: %w", err)
			}

			printReport(cmd.OutOrStdout(), reconstructor.GetReport(), output)
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "output image (default INPUT_unshredded.png)")
	addProcessingFlags(cmd)
	cmd.Flags().Int("quality", 95, "JPEG quality of the output")
	cmd.Flags().Bool("save-intermediary", false, "save width scores, seam costs and heat maps")
	cmd.Flags().String("intermediary-dir", "intermediary_results", "directory for intermediary results")

	return cmd
}

// addProcessingFlags registers the flags shared by reconstruct and detect-width
func addProcessingFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("strip-width", "w", 0, "strip width in pixels (0 detects it)")
	cmd.Flags().Int("cores", 0, "CPU cores used for the seam-cost matrix (0 uses every CPU; unset uses the config value)")
	cmd.Flags().String("metric", "euclidean", "pixel distance: "+strings.Join(distance.Names(), ", "))
	cmd.Flags().String("scorer", "mean-minus-max", "width detection scorer: "+strings.Join(width.ScorerNames(), ", "))
	cmd.Flags().String("self-pairs", "auto", "whether a strip may follow itself: "+strings.Join(adjacency.SelfPairsNames(), ", "))
}

// paramsFromConfig turns the loaded configuration into reconstruction parameters
func paramsFromConfig(cfg *config.Config) (*reconstruction.Params, error) {
	metric, err := distance.ByName(cfg.Processing.Metric)
	if err != nil {
		return nil, err
	}
	scorer, err := width.ScorerByName(cfg.Processing.Scorer)
	if err != nil {
		return nil, err
	}
	selfPairs, err := adjacency.ParseSelfPairs(cfg.Processing.SelfPairs)
	if err != nil {
		return nil, err
	}

	return &reconstruction.Params{
		StripWidth:              cfg.Processing.StripWidth,
		NumCores:                cfg.Processing.NumCores,
		Metric:                  metric,
		Scorer:                  scorer,
		SelfPairs:               selfPairs,
		JPEGQuality:             cfg.Output.JPEGQuality,
		SaveIntermediaryResults: cfg.Output.SaveIntermediaryResults,
		IntermediaryDir:         cfg.Output.IntermediaryDir,
	}, nil
}

func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_unshredded.png"
}

func printReport(w io.Writer, report reconstruction.Report, output string) {
	source := "configured"
	if report.Detected {
		source = "detected"
	}
	fmt.Fprintf(w, "Strip width:     %d (%s)\n", report.StripWidth, source)
	fmt.Fprintf(w, "Strips:          %d\n", report.NumStrips)
	fmt.Fprintf(w, "First strip:     %d\n", report.Start)
	fmt.Fprintf(w, "Order:           %v\n", []int(report.Order))
	fmt.Fprintf(w, "Total seam cost: %.3f\n", report.TotalSeamCost)
	fmt.Fprintf(w, "Mean seam cost:  %.3f\n", report.MeanSeamCost)
	fmt.Fprintf(w, "Processing time: %.2f seconds\n", report.Duration.Seconds())
	fmt.Fprintf(w, "Output saved to: %s\n", output)
}

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"unshred/pkg/pixels"
	"unshred/pkg/width"
)

func newDetectWidthCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect-width INPUT",
		Short: "Estimate the strip width of a shredded image",
		Long: `Estimate the strip width of a shredded image.

Every divisor k of the image width between 2 and width/2 is scored by how much
the column distances at multiples of k stand out from the others. The highest
score wins; ties keep the smallest width.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := paramsFromConfig(a.cfg)
			if err != nil {
				return err
			}

			src, err := pixels.Load(args[0])
			if err != nil {
				return err
			}

			detection, err := width.NewDetector(params.Metric, params.Scorer).Detect(src)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Image: %dx%d, scorer %s\n\n", src.Width(), src.Height(), params.Scorer.Name())

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WIDTH\tSTRIPS\tSCORE\t")
			for _, c := range detection.Candidates {
				marker := ""
				if c.Width == detection.Width {
					marker = "<"
				}
				fmt.Fprintf(tw, "%d\t%d\t%.4f\t%s\n", c.Width, src.Width()/c.Width, c.Score, marker)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "\nDetected strip width: %d\n", detection.Width)
			return nil
		},
	}

	addProcessingFlags(cmd)
	return cmd
}

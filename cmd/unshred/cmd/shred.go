package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"unshred/pkg/pixels"
	"unshred/pkg/shredder"
)

func newShredCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shred INPUT",
		Short: "Cut an image into strips and shuffle them",
		Long: `Cut an image into equal-width vertical strips and shuffle them with a
seeded permutation. The result is a test input for reconstruct.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			seed, _ := cmd.Flags().GetUint64("seed")
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}

			stripWidth := a.cfg.Processing.StripWidth
			if stripWidth == 0 {
				return fmt.Errorf("--strip-width is required")
			}

			src, err := pixels.Load(args[0])
			if err != nil {
				return err
			}

			shredded, perm, err := shredder.ShredRandom(src.Image(), stripWidth, seed)
			if err != nil {
				return err
			}

			if err := pixels.Save(shredded, output, a.cfg.Output.JPEGQuality); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Strips:       %d x %dpx\n", len(perm), stripWidth)
			fmt.Fprintf(out, "Seed:         %d\n", seed)
			fmt.Fprintf(out, "Permutation:  %v\n", perm)
			fmt.Fprintf(out, "Output saved to: %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "shredded.png", "output image")
	cmd.Flags().IntP("strip-width", "w", 0, "strip width in pixels")
	cmd.Flags().Uint64("seed", 0, "permutation seed (default random)")
	cmd.Flags().Int("quality", 95, "JPEG quality of the output")

	return cmd
}

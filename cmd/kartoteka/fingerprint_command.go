package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kartoteka/internal/config"
)

func newFingerprintCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint <image>",
		Short: "Print the fingerprint components of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			builder := newBuilder(cfg)
			fp, err := builder.ComputeFile(path)
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				enc, err := fp.Encode()
				if err != nil {
					return err
				}
				return writeJSON(cmd, enc)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pHash: %s\n", fp.PHash)
			fmt.Fprintf(out, "dHash: %s\n", fp.DHash)
			grid := builder.Grid()
			fmt.Fprintf(out, "Tiles (%dx%d):\n", grid.Rows, grid.Cols)
			for i, tile := range fp.Tiles {
				fmt.Fprintf(out, "  %d: %s\n", i, tile)
			}
			fmt.Fprintf(out, "Descriptors: %d (%s)\n", len(fp.Descriptors), builder.ExtractorName())
			return nil
		},
	}
}

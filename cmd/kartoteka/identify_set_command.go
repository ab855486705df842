package main

import (
	"fmt"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"kartoteka/internal/cardimage"
	"kartoteka/internal/config"
	"kartoteka/internal/setlogo"
)

func newIdentifySetCommand(ctx *commandContext) *cobra.Command {
	var logosDir string
	var rectFlag string
	var limit int

	cmd := &cobra.Command{
		Use:   "identify-set <image>",
		Short: "Identify a card's set from its set symbol",
		Long: `Identify a card's set from its set symbol.

The whole image is used as the symbol unless --rect crops out the region
where the symbol sits. Reference logos come from the configured
set_logo_dir; each .png file catalogues the set code its name carries.

Examples:
  kartoteka identify-set symbol.png
  kartoteka identify-set scan.png --rect 680,940,760,1000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			img, err := cardimage.Open(path)
			if err != nil {
				return err
			}
			symbol := img
			if rectFlag != "" {
				rect, err := parseRect(rectFlag)
				if err != nil {
					return err
				}
				if !rect.In(img.Bounds()) {
					return fmt.Errorf("rectangle %v outside image bounds %v", rect, img.Bounds())
				}
				symbol = imaging.Crop(img, rect)
			}

			dir := cfg.Paths.SetLogoDir
			if cmd.Flags().Changed("logos") {
				dir, err = config.ExpandPath(logosDir)
				if err != nil {
					return err
				}
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			index, err := setlogo.LoadIndex(dir, logger)
			if err != nil {
				return err
			}
			matches, err := index.Identify(symbol, limit)
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, matches)
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(matches))
			for _, match := range matches {
				rows = append(rows, []string{match.Code, strconv.Itoa(match.Distance)})
			}
			writeTable(out, []string{"SET", "DISTANCE"}, rows, []columnAlignment{alignLeft, alignRight})
			if len(matches) > 0 && matches[0].Distance > cfg.Matching.LogoDiffThreshold {
				fmt.Fprintf(out, "Best distance %d exceeds threshold %d; identification is uncertain\n",
					matches[0].Distance, cfg.Matching.LogoDiffThreshold)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logosDir, "logos", "", "Directory of reference logos (default: configured set_logo_dir)")
	cmd.Flags().StringVar(&rectFlag, "rect", "", "Symbol crop as left,top,right,bottom")
	cmd.Flags().IntVar(&limit, "limit", setlogo.DefaultLimit, "Number of matches to show")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kartoteka/internal/config"
	"kartoteka/internal/hashdb"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var maxDistance int

	cmd := &cobra.Command{
		Use:   "match <image>",
		Short: "Find the catalogued card closest to a scan",
		Long: `Find the catalogued card closest to a scan.

Only cards within the distance cutoff count as a match. The cutoff defaults
to matching.max_distance from the configuration; pass --max-distance -1 to
accept the closest card unconditionally.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, store *hashdb.Store) error {
				cutoff := cfg.Matching.MaxDistance
				if cmd.Flags().Changed("max-distance") {
					cutoff = maxDistance
				}

				match, err := store.BestMatchFile(cmd.Context(), path, cutoff)
				if err != nil {
					return err
				}

				if ctx.JSONMode() {
					return writeJSON(cmd, struct {
						Found bool              `json:"found"`
						Match *hashdb.Candidate `json:"match,omitempty"`
					}{Found: match != nil, Match: match})
				}

				out := cmd.OutOrStdout()
				if match == nil {
					if cutoff < 0 {
						fmt.Fprintln(out, "No cards catalogued")
					} else {
						fmt.Fprintf(out, "No match within distance %d\n", cutoff)
					}
					return nil
				}
				fmt.Fprintf(out, "Card #%d matches at distance %d\n", match.ID, match.Distance)
				printMeta(out, match.Meta)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&maxDistance, "max-distance", 0, "Maximum acceptable distance (default from config; -1 disables the cutoff)")
	return cmd
}

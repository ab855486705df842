package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"kartoteka/internal/config"
	"kartoteka/internal/hashdb"
)

func newCandidatesCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var maxDistance int

	cmd := &cobra.Command{
		Use:   "candidates <image>",
		Short: "Rank catalogued cards by similarity to a scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, store *hashdb.Store) error {
				resolvedLimit := cfg.Matching.CandidateLimit
				if cmd.Flags().Changed("limit") {
					resolvedLimit = limit
				}
				cutoff := hashdb.NoMaxDistance
				if cmd.Flags().Changed("max-distance") {
					cutoff = maxDistance
				}

				candidates, err := store.CandidatesFile(cmd.Context(), path, resolvedLimit, cutoff)
				if err != nil {
					return err
				}

				if ctx.JSONMode() {
					return writeJSON(cmd, candidates)
				}

				out := cmd.OutOrStdout()
				if len(candidates) == 0 {
					fmt.Fprintln(out, "No candidates")
					return nil
				}

				rows := make([][]string, 0, len(candidates))
				for _, candidate := range candidates {
					rows = append(rows, []string{
						strconv.FormatInt(candidate.ID, 10),
						strconv.Itoa(candidate.Distance),
						formatMeta(candidate.Meta),
					})
				}
				writeTable(out, []string{"ID", "DISTANCE", "METADATA"}, rows, []columnAlignment{alignRight, alignRight, alignLeft})
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Number of candidates to return (default from config)")
	cmd.Flags().IntVar(&maxDistance, "max-distance", 0, "Drop candidates beyond this distance (default: no cutoff)")
	return cmd
}

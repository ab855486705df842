package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"kartoteka/internal/config"
	"kartoteka/internal/hashdb"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var metaFlags []string

	cmd := &cobra.Command{
		Use:   "add <image>",
		Short: "Fingerprint a card scan and store it in the catalogue",
		Long: `Fingerprint a card scan and store it in the catalogue.

Re-adding a scan that produces a byte-identical fingerprint reuses the
existing entry instead of creating a duplicate.

Examples:
  kartoteka add scan.png
  kartoteka add scan.png --meta name="Dark Magician" --meta set=LOB`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := parseMetaFlags(metaFlags)
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, store *hashdb.Store) error {
				fp, err := newBuilder(cfg).ComputeFile(path)
				if err != nil {
					return err
				}
				id, created, err := store.AddDetailed(cmd.Context(), fp, meta)
				if err != nil {
					return err
				}

				if ctx.JSONMode() {
					return writeJSON(cmd, struct {
						ID      int64  `json:"id"`
						Created bool   `json:"created"`
						File    string `json:"file"`
					}{ID: id, Created: created, File: path})
				}

				out := cmd.OutOrStdout()
				if created {
					fmt.Fprintf(out, "Stored card #%d (%s)\n", id, filepath.Base(path))
				} else {
					fmt.Fprintf(out, "Already catalogued as card #%d (%s)\n", id, filepath.Base(path))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVar(&metaFlags, "meta", nil, "Card metadata as key=value (repeatable)")
	return cmd
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"kartoteka/internal/config"
	"kartoteka/internal/hashdb"
	"kartoteka/internal/importer"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var workers int
	var metaFlags []string

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Bulk-import every card scan in a directory",
		Long: `Bulk-import every card scan in a directory.

Supported image files directly inside the directory are fingerprinted in
parallel and stored with the given metadata plus a shared batch id.
Re-scanning a directory is idempotent: cards already catalogued are counted
as duplicates. Undecodable files are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := parseMetaFlags(metaFlags)
			if err != nil {
				return err
			}
			dir, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, store *hashdb.Store) error {
				resolvedWorkers := cfg.Import.Workers
				if cmd.Flags().Changed("workers") {
					resolvedWorkers = workers
				}
				logger, err := ctx.ensureLogger()
				if err != nil {
					return err
				}

				imp := importer.New(store, newBuilder(cfg), logger, resolvedWorkers)
				report, err := imp.ImportDir(cmd.Context(), dir, meta)
				if err != nil {
					return err
				}

				if ctx.JSONMode() {
					return writeJSON(cmd, report)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Batch %s finished in %s\n", report.Batch, report.Elapsed.Round(time.Millisecond))
				fmt.Fprintf(out, "Scanned: %d\n", report.Scanned)
				fmt.Fprintf(out, "Added: %d\n", report.Added)
				fmt.Fprintf(out, "Duplicates: %d\n", report.Duplicates)
				if len(report.Failed) > 0 {
					fmt.Fprintf(out, "Failed: %d\n", len(report.Failed))
					for _, file := range report.Failed {
						fmt.Fprintf(out, "  %s\n", file)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Fingerprint workers (default from config; 0 uses all CPUs)")
	cmd.Flags().StringArrayVar(&metaFlags, "meta", nil, "Metadata applied to every imported card (repeatable)")
	return cmd
}

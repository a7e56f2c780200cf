package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gyeh/icd9/internal/db"
	"github.com/gyeh/icd9/internal/exitcode"
	"github.com/gyeh/icd9/internal/ingest"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Build a lookup table and load it into Postgres",
	RunE:  runLoad,
}

func init() {
	f := loadCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to RTF tabular list (required)")
	f.StringVar(&cfg.EffectiveDate, "effective-date", "", "Release date of the tabular list, e.g. 2014-10-01")
	f.StringSliceVar(&cfg.Kinds, "kinds", nil, "Code kinds to load: numeric, v, e (default all)")
	f.BoolVar(&cfg.Activate, "activate", false, "Mark this document as the active revision")
	f.BoolVar(&cfg.Force, "force", false, "Re-load even if the file SHA already exists")
	f.BoolVar(&cfg.KeepStaging, "keep-staging", false, "Keep staging rows after transform")
	_ = loadCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	log := newLogger()
	ctx := context.Background()

	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	summary, err := ingest.Run(ctx, pool, log, &cfg)
	if err != nil {
		pool.Close()
		var pe *ingest.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("load failed")
			switch pe.Phase {
			case "config":
				os.Exit(exitcode.UsageError)
			case "preflight":
				os.Exit(exitcode.ValidationError)
			case "stage":
				os.Exit(exitcode.CopyError)
			default:
				os.Exit(exitcode.TransformError)
			}
		}
		log.Error().Err(err).Msg("load failed")
		os.Exit(exitcode.TransformError)
	}

	fmt.Printf("Load complete: %d codes built, %d staged, %d upserted (%.1fs)\n",
		summary.CodesBuilt, summary.RowsStaged, summary.RowsUpserted, summary.DurationTotal.Seconds())
	kinds := make([]string, 0, len(summary.RowsByKind))
	for k := range summary.RowsByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf("  %-10s %d\n", k, summary.RowsByKind[k])
	}
	return nil
}

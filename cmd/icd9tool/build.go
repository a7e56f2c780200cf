package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/icd9/internal/exitcode"
	"github.com/gyeh/icd9/internal/model"
	"github.com/gyeh/icd9/internal/normalize"
	"github.com/gyeh/icd9/internal/parquetio"
	"github.com/gyeh/icd9/internal/rtfparse"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a lookup table from the RTF tabular list (no database writes)",
	Long: "Parses the tabular list, prints a report of what was built and, with --out, " +
		"writes the table as Parquet for use with --lookup.",
	Run: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to RTF tabular list (required)")
	f.StringVar(&cfg.OutPath, "out", "", "Write the lookup table to this Parquet file")
	_ = buildCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) {
	log := newLogger()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	sha, err := normalize.FileHash(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash file")
		os.Exit(exitcode.ValidationError)
	}

	res, err := rtfparse.BuildFile(cfg.FilePath, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to build lookup table")
		os.Exit(exitcode.BuildError)
	}
	rows := normalize.ToLookupRows(res.Table)

	byKind := make(map[string]int)
	billable := 0
	for _, r := range rows {
		byKind[r.Kind]++
		if r.Billable {
			billable++
		}
	}
	unresolved := 0
	for _, w := range res.Warnings {
		if errors.Is(w, rtfparse.ErrUnresolvedQualifierReference) {
			unresolved++
		}
	}

	fmt.Println("=== icd9tool build ===")
	fmt.Printf("File:       %s\n", cfg.FilePath)
	fmt.Printf("SHA-256:    %s\n", sha)
	fmt.Printf("Codes:      %d (%d billable)\n", len(rows), billable)
	fmt.Printf("Majors:     %d\n", res.Table.Majors.Len())
	fmt.Printf("Chapters:   %d\n", len(res.Table.Chapters))
	fmt.Printf("Warnings:   %d (%d unresolved qualifier blocks)\n", len(res.Warnings), unresolved)
	fmt.Println()
	fmt.Println("Codes by kind:")
	for _, ck := range model.AllCodeKinds {
		fmt.Printf("  %-10s %6d\n", ck.Name, byKind[ck.Column])
	}

	if cfg.OutPath != "" {
		if err := parquetio.WriteLookup(cfg.OutPath, rows); err != nil {
			log.Error().Err(err).Msg("failed to write lookup table")
			os.Exit(exitcode.CopyError)
		}
		fmt.Printf("\nWrote %d rows to %s\n", len(rows), cfg.OutPath)
	}
}

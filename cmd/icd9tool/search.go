package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gyeh/icd9/internal/db"
	"github.com/gyeh/icd9/internal/exitcode"
	embedsql "github.com/gyeh/icd9/internal/sql"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search TEXT...",
	Short: "Search active code descriptions in the database",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 25, "Maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	log := newLogger()
	ctx := context.Background()

	if cfg.DSN == "" {
		log.Error().Msg("--dsn or ICD9_DB_URL is required")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	term := strings.ToLower(strings.Join(strings.Fields(strings.Join(args, " ")), " "))
	rows, err := pool.Query(ctx, embedsql.SearchCodes, term, searchLimit)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var decimal, desc string
		var billable bool
		if err := rows.Scan(&decimal, &desc, &billable); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		mark := ""
		if billable {
			mark = "*"
		}
		fmt.Printf("%-8s %1s %s\n", decimal, mark, desc)
	}
	return rows.Err()
}

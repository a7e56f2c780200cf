package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/icd9/internal/config"
	"github.com/gyeh/icd9/internal/exitcode"
	"github.com/gyeh/icd9/internal/logging"
	"github.com/gyeh/icd9/internal/lookup"
	"github.com/gyeh/icd9/internal/parquetio"
	"github.com/gyeh/icd9/internal/rtfparse"
)

var (
	cfg        config.Config
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "icd9tool",
	Short: "ICD-9-CM code tools",
	Long: "Converts, expands and condenses ICD-9-CM codes, maps visit codes to comorbidity groups, " +
		"and builds code lookup tables from the CMS RTF tabular list into Parquet or Postgres.",
	SilenceUsage:      true,
	PersistentPreRunE: loadEnvironment,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", "", "Postgres connection string (or set ICD9_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&configPath, "config", "", "YAML file with defaults (kinds, workers, log_format)")
}

// loadEnvironment applies .env and the optional config file before any
// subcommand runs. Flags set on the command line win over both.
func loadEnvironment(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if cfg.DSN == "" {
		cfg.DSN = os.Getenv("ICD9_DB_URL")
	}
	if configPath == "" {
		return cfg.ValidateKinds()
	}

	flagged := cfg
	if err := cfg.LoadFromFile(configPath); err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("log-format") {
		cfg.LogFormat = flagged.LogFormat
	}
	if f.Changed("workers") {
		cfg.Workers = flagged.Workers
	}
	if f.Changed("kinds") {
		cfg.Kinds = flagged.Kinds
		return cfg.ValidateKinds()
	}
	return nil
}

// addTableFlags registers the two ways a command can get a lookup table.
func addTableFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "RTF tabular list to build the lookup table from")
	f.StringVar(&cfg.LookupPath, "lookup", "", "Parquet lookup table written by 'build' (faster than --file)")
}

// loadTable returns the lookup table named by --lookup or --file, or nil
// when neither is set. Failures exit the process.
func loadTable(log zerolog.Logger) *lookup.Table {
	if cfg.FilePath == "" && cfg.LookupPath == "" {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	if cfg.LookupPath != "" {
		t, err := parquetio.ReadLookup(cfg.LookupPath)
		if err != nil {
			log.Error().Err(err).Str("file", cfg.LookupPath).Msg("failed to read lookup table")
			os.Exit(exitcode.ValidationError)
		}
		return t
	}

	res, err := rtfparse.BuildFile(cfg.FilePath, log)
	if err != nil {
		log.Error().Err(err).Str("file", cfg.FilePath).Msg("failed to build lookup table")
		os.Exit(exitcode.BuildError)
	}
	return res.Table
}

func newLogger() zerolog.Logger {
	return logging.Setup(cfg.LogFormat)
}

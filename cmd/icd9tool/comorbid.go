package main

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gyeh/icd9/internal/comorbid"
	"github.com/gyeh/icd9/internal/config"
	"github.com/gyeh/icd9/internal/exitcode"
	"github.com/gyeh/icd9/internal/parquetio"
	"github.com/gyeh/icd9/internal/visit"
)

var (
	visitsPath     string
	visitCols      = visit.DefaultColumns
	poaFilter      string
	sortByVisit    bool
	applyHierarchy bool
	withScore      bool
)

var comorbidCmd = &cobra.Command{
	Use:   "comorbid",
	Short: "Map visit codes to comorbidity groups",
	Long: "Reads visit/code records from CSV or Parquet and writes one CSV row per visit " +
		"with a true/false column for every group of the comorbidity map.",
	Run: runComorbid,
}

func init() {
	f := comorbidCmd.Flags()
	f.StringVar(&visitsPath, "visits", "", "Visit records, .csv or .parquet (required)")
	f.StringVar(&cfg.MapPath, "map", "", "Comorbidity map YAML (required)")
	f.StringVar(&cfg.OutPath, "out", "", "Output CSV (default stdout)")
	f.StringVar(&poaFilter, "poa", "none", "POA filter: none, yes, no, notno, notyes")
	f.BoolVar(&sortByVisit, "sort", false, "Order visits by id instead of first occurrence")
	f.IntVar(&cfg.Workers, "workers", 1, "Map visits in parallel with this many workers")
	f.BoolVar(&applyHierarchy, "hierarchy", false, "Apply the map's hierarchy rules")
	f.BoolVar(&withScore, "score", false, "Add count and weighted score columns")
	f.StringVar(&visitCols.Visit, "visit-col", visitCols.Visit, "CSV header of the visit id column")
	f.StringVar(&visitCols.Code, "code-col", visitCols.Code, "CSV header of the code column")
	f.StringVar(&visitCols.POA, "poa-col", visitCols.POA, "CSV header of the POA column (empty: none)")
	_ = comorbidCmd.MarkFlagRequired("visits")
	_ = comorbidCmd.MarkFlagRequired("map")
	rootCmd.AddCommand(comorbidCmd)
}

func runComorbid(cmd *cobra.Command, args []string) {
	log := newLogger()

	filter, err := comorbid.ParseFilter(poaFilter)
	if err != nil {
		log.Error().Err(err).Msg("invalid --poa")
		os.Exit(exitcode.UsageError)
	}

	m, err := config.LoadComorbidityMap(cfg.MapPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to load comorbidity map")
		os.Exit(exitcode.ValidationError)
	}

	records, rowErrs, err := readVisits(visitsPath)
	if err != nil {
		log.Error().Err(err).Str("file", visitsPath).Msg("failed to read visits")
		os.Exit(exitcode.ValidationError)
	}
	for _, re := range rowErrs {
		log.Warn().Err(re.Err).Int("row", re.Row).Msg("visit row skipped")
	}

	res, err := comorbid.MapComorbidities(records, m, comorbid.Options{
		Filter:   filter,
		SortByID: sortByVisit,
		Workers:  cfg.Workers,
	})
	if err != nil {
		log.Error().Err(err).Msg("comorbidity mapping failed")
		os.Exit(exitcode.ValidationError)
	}
	for _, inv := range res.Invalid {
		log.Warn().Err(inv.Err).Str("visit", inv.Record.VisitID).Int("record", inv.Index).Msg("invalid code ignored")
	}
	if applyHierarchy {
		res.ApplyHierarchy(m.Hierarchy)
	}

	if err := writeOutput(cfg.OutPath, res, m); err != nil {
		log.Error().Err(err).Msg("failed to write output")
		os.Exit(exitcode.UsageError)
	}

	log.Info().
		Int("records", len(records)).
		Int("visits", len(res.Visits)).
		Int("groups", len(res.Groups)).
		Int("invalid", len(res.Invalid)+len(rowErrs)).
		Str("filter", filter.String()).
		Msg("comorbidity mapping complete")

	if len(res.Invalid) > 0 || len(rowErrs) > 0 {
		os.Exit(exitcode.PartialSuccess)
	}
}

func readVisits(path string) ([]visit.Record, []*visit.RowError, error) {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return parquetio.ReadVisits(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return visit.ReadCSV(f, visitCols)
}

// writeOutput writes the matrix to path, or stdout when path is empty.
func writeOutput(path string, res *comorbid.Result, m *comorbid.Map) error {
	if path == "" {
		return writeMatrix(os.Stdout, res, m, withScore)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeMatrix(f, res, m, withScore); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeMatrix(w io.Writer, res *comorbid.Result, m *comorbid.Map, score bool) error {
	cw := csv.NewWriter(w)
	header := append([]string{"visit_id"}, res.Groups...)
	var counts, scores []int
	if score {
		header = append(header, "count", "score")
		counts, scores = res.Count(), res.Score(m.Weights)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, v := range res.Visits {
		rec := make([]string, 0, len(header))
		rec = append(rec, v)
		for _, b := range res.Rows[i] {
			rec = append(rec, strconv.FormatBool(b))
		}
		if score {
			rec = append(rec, strconv.Itoa(counts[i]), strconv.Itoa(scores[i]))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/icd9/internal/exitcode"
	"github.com/gyeh/icd9/internal/lookup"
)

var explainCondense bool

var explainCmd = &cobra.Command{
	Use:   "explain CODE...",
	Short: "Describe codes using a lookup table",
	Args:  cobra.MinimumNArgs(1),
	Run:   runExplain,
}

func init() {
	f := explainCmd.Flags()
	f.BoolVar(&explainCondense, "condense", false, "Condense the codes before describing them")
	f.StringVar(&inputForm, "form", "auto", "Input form: auto, short or decimal")
	addTableFlags(explainCmd)
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) {
	log := newLogger()

	form, err := parseForm(inputForm)
	if err != nil {
		log.Error().Err(err).Msg("invalid --form")
		os.Exit(exitcode.UsageError)
	}
	t := loadTable(log)
	if t == nil {
		log.Error().Msg("--file or --lookup is required")
		os.Exit(exitcode.UsageError)
	}

	out, err := lookup.Explain(args, t, lookup.ExplainOptions{Form: form, Condense: explainCondense}, log)
	if err != nil {
		log.Error().Err(err).Msg("explain failed")
		os.Exit(exitcode.ValidationError)
	}

	undefined := 0
	for _, e := range out {
		mark := ""
		if e.Billable {
			mark = "*"
		}
		if e.Warning != nil {
			undefined++
			mark = "?"
		}
		fmt.Printf("%-8s %1s %s\n", e.Code.Decimal(), mark, e.Description)
		if e.Chapter != "" {
			fmt.Printf("%-8s   [%s]\n", "", e.Chapter)
		}
	}
	if undefined > 0 {
		os.Exit(exitcode.PartialSuccess)
	}
}

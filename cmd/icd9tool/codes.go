package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/icd9/internal/exitcode"
	"github.com/gyeh/icd9/internal/icd9"
)

var (
	convertTo  string
	inputForm  string
	descendAll bool
)

var convertCmd = &cobra.Command{
	Use:   "convert CODE...",
	Short: "Convert codes between short and decimal form",
	Args:  cobra.MinimumNArgs(1),
	Run:   runConvert,
}

var childrenCmd = &cobra.Command{
	Use:   "children CODE",
	Short: "List the children (or all descendants) of a code",
	Args:  cobra.ExactArgs(1),
	Run:   runChildren,
}

var expandCmd = &cobra.Command{
	Use:   "expand START[-END] [END]",
	Short: "Expand a code range into its codes",
	Args:  cobra.RangeArgs(1, 2),
	Run:   runExpand,
}

var condenseCmd = &cobra.Command{
	Use:   "condense CODE...",
	Short: "Collapse codes into the fewest ancestors covering them",
	Args:  cobra.MinimumNArgs(1),
	Run:   runCondense,
}

func init() {
	convertCmd.Flags().StringVar(&convertTo, "to", "decimal", "Output form: short or decimal")
	childrenCmd.Flags().BoolVar(&descendAll, "all", false, "List every descendant instead of direct children")
	for _, c := range []*cobra.Command{convertCmd, childrenCmd, expandCmd, condenseCmd} {
		c.Flags().StringVar(&inputForm, "form", "auto", "Input form: auto, short or decimal")
		if c != convertCmd {
			addTableFlags(c)
		}
		rootCmd.AddCommand(c)
	}
}

func parseForm(s string) (icd9.Form, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return icd9.Auto, nil
	case "short":
		return icd9.Short, nil
	case "decimal":
		return icd9.Decimal, nil
	}
	return icd9.Auto, fmt.Errorf("unknown code form %q", s)
}

// parseArgs parses every argument, logging each failure. Any failure exits
// with ValidationError after all arguments are checked.
func parseArgs(log zerolog.Logger, args []string) []icd9.Code {
	form, err := parseForm(inputForm)
	if err != nil {
		log.Error().Err(err).Msg("invalid --form")
		os.Exit(exitcode.UsageError)
	}
	codes := make([]icd9.Code, 0, len(args))
	failed := false
	for _, a := range args {
		c, err := icd9.Parse(a, form)
		if err != nil {
			log.Error().Err(err).Msg("invalid code")
			failed = true
			continue
		}
		codes = append(codes, c)
	}
	if failed {
		os.Exit(exitcode.ValidationError)
	}
	return codes
}

func printCodes(codes []icd9.Code) {
	for _, c := range codes {
		fmt.Println(c.Decimal())
	}
}

func runConvert(cmd *cobra.Command, args []string) {
	log := newLogger()
	form, err := parseForm(inputForm)
	if err != nil {
		log.Error().Err(err).Msg("invalid --form")
		os.Exit(exitcode.UsageError)
	}

	failed := 0
	for _, a := range args {
		c, err := icd9.Parse(a, form)
		if err != nil {
			log.Error().Err(err).Msg("invalid code")
			failed++
			continue
		}
		switch convertTo {
		case "short":
			fmt.Println(c.Short())
		case "decimal":
			fmt.Println(c.Decimal())
		default:
			log.Error().Str("to", convertTo).Msg("--to must be short or decimal")
			os.Exit(exitcode.UsageError)
		}
	}
	switch {
	case failed == len(args):
		os.Exit(exitcode.ValidationError)
	case failed > 0:
		os.Exit(exitcode.PartialSuccess)
	}
}

func runChildren(cmd *cobra.Command, args []string) {
	log := newLogger()
	c := parseArgs(log, args)[0]
	defined := definedSet(log)

	if descendAll {
		printCodes(icd9.Descendants(c, defined))
		return
	}
	printCodes(icd9.Children(c, defined))
}

func runExpand(cmd *cobra.Command, args []string) {
	log := newLogger()
	form, err := parseForm(inputForm)
	if err != nil {
		log.Error().Err(err).Msg("invalid --form")
		os.Exit(exitcode.UsageError)
	}

	var r icd9.Range
	switch {
	case len(args) == 2:
		codes := parseArgs(log, args)
		r, err = icd9.NewRange(codes[0], codes[1])
	case !strings.Contains(args[0], "-"):
		c := parseArgs(log, args)[0]
		r, err = icd9.NewRange(c, c)
	default:
		r, err = icd9.ParseRange(args[0], form)
	}
	if err != nil {
		log.Error().Err(err).Msg("invalid range")
		os.Exit(exitcode.ValidationError)
	}

	codes, err := r.Expand(definedSet(log))
	if err != nil {
		log.Error().Err(err).Str("range", r.String()).Msg("range expansion failed")
		os.Exit(exitcode.ValidationError)
	}
	printCodes(codes)
}

func runCondense(cmd *cobra.Command, args []string) {
	log := newLogger()
	codes := parseArgs(log, args)
	printCodes(icd9.Condense(codes, definedSet(log)))
}

func definedSet(log zerolog.Logger) *icd9.DefinedSet {
	if t := loadTable(log); t != nil {
		return t.Defined()
	}
	return nil
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gyeh/icd9/internal/comorbid"
	"github.com/gyeh/icd9/internal/config"
	"github.com/gyeh/icd9/internal/exitcode"
)

var (
	diffA, diffB string
	diffGroups   []string
	diffVerbose  bool
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare the groups of two comorbidity maps code by code",
	Run:   runDiff,
}

func init() {
	f := diffCmd.Flags()
	f.StringVar(&diffA, "a", "", "First comorbidity map YAML (required)")
	f.StringVar(&diffB, "b", "", "Second comorbidity map YAML (required)")
	f.StringSliceVar(&diffGroups, "group", nil, "Groups to compare (default: all)")
	f.BoolVar(&diffVerbose, "verbose", false, "List the differing codes")
	addTableFlags(diffCmd)
	_ = diffCmd.MarkFlagRequired("a")
	_ = diffCmd.MarkFlagRequired("b")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) {
	log := newLogger()

	var maps [2]*comorbid.Map
	for i, path := range []string{diffA, diffB} {
		m, err := config.LoadComorbidityMap(path)
		if err != nil {
			log.Error().Err(err).Msg("failed to load comorbidity map")
			os.Exit(exitcode.ValidationError)
		}
		maps[i] = m
	}

	groups := diffGroups
	if len(groups) == 0 {
		groups = maps[0].Groups.Keys()
		for _, g := range maps[1].Groups.Keys() {
			if !maps[0].Groups.Has(g) {
				groups = append(groups, g)
			}
		}
	}

	diffs, err := comorbid.Diff(maps[0], maps[1], groups, definedSet(log))
	if err != nil {
		log.Error().Err(err).Msg("diff failed")
		os.Exit(exitcode.ValidationError)
	}

	fmt.Printf("%-12s %8s %8s %8s\n", "group", "only_a", "only_b", "both")
	for _, g := range groups {
		d := diffs[g]
		fmt.Printf("%-12s %8d %8d %8d\n", g, len(d.OnlyInA), len(d.OnlyInB), len(d.InBoth))
		if diffVerbose {
			if len(d.OnlyInA) > 0 {
				fmt.Printf("  a: %s\n", strings.Join(d.OnlyInA, " "))
			}
			if len(d.OnlyInB) > 0 {
				fmt.Printf("  b: %s\n", strings.Join(d.OnlyInB, " "))
			}
		}
	}
}

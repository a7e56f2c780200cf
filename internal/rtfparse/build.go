package rtfparse

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/gyeh/icd9/internal/icd9"
	"github.com/gyeh/icd9/internal/lookup"
	"github.com/gyeh/icd9/internal/ordmap"
)

var (
	// ErrUnresolvedQualifierReference marks a digit footnote or subset
	// annotation whose target codes could not be determined. It is reported
	// as a warning; the block is skipped.
	ErrUnresolvedQualifierReference = errors.New("unresolved qualifier reference")

	ErrNoCodes = errors.New("no code lines found")
)

// QualifierError locates a skipped footnote or annotation in the source.
type QualifierError struct {
	Line int
	Text string
	Err  error
}

func (e *QualifierError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *QualifierError) Unwrap() error {
	return e.Err
}

// Result is the built lookup table plus the warnings collected on the way.
type Result struct {
	Table    *lookup.Table
	Warnings []error
}

// overrides are hand-checked descriptions the footnote rules get wrong. They
// only apply when the parent code made it into the table.
var overrides = []entry{
	{icd9.MustParse("066.40"), "West Nile fever, unspecified"},
	{icd9.MustParse("066.41"), "West Nile fever with encephalitis"},
	{icd9.MustParse("066.42"), "West Nile fever with other neurologic manifestation"},
	{icd9.MustParse("066.49"), "West Nile fever with other complications"},
}

// Build parses the raw lines of the tabular list into a lookup table.
func Build(lines []string, log zerolog.Logger) (*Result, error) {
	paras := joinLines(fixUnicode(lines))
	majors, chapters := extractStructure(paras)
	paras = filterExclusions(paras)

	paras, invalid, warns := extractQualifierSubsets(paras)
	paras, synth, more := resolveQualifiers(paras)
	warns = append(warns, more...)

	base := extractPrimary(paras)
	if len(base) == 0 {
		return nil, ErrNoCodes
	}

	tbl := merge(base, synth, invalid)
	tbl.Majors = majors
	tbl.Chapters = chapters

	for _, w := range warns {
		log.Warn().Err(w).Msg("skipping qualifier block")
	}
	log.Info().
		Int("paragraphs", len(paras)).
		Int("base", len(base)).
		Int("synthesized", len(synth)).
		Int("codes", tbl.Len()).
		Int("majors", majors.Len()).
		Int("chapters", len(chapters)).
		Int("warnings", len(warns)).
		Msg("lookup table built")

	return &Result{Table: tbl, Warnings: warns}, nil
}

// merge combines base and synthesized entries, resolves duplicate
// descriptions and applies overrides. Codes ruled out by subset annotations
// are dropped before synthesis, so they never act as parents. The table comes
// out in canonical code order.
func merge(base []entry, synth []qualified, invalid map[string]bool) *lookup.Table {
	cands := ordmap.New[string, []string](len(base))
	codes := make(map[string]icd9.Code, len(base))
	add := func(c icd9.Code, desc string) {
		k := c.Short()
		if invalid[k] {
			return
		}
		prev, _ := cands.Get(k)
		cands.Set(k, append(prev, desc))
		codes[k] = c
	}

	for _, e := range base {
		add(e.code, e.desc)
	}
	baseDesc := make(map[string]string, cands.Len())
	for k, v := range cands.All() {
		baseDesc[k] = pickDescription(v)
	}

	for _, q := range synth {
		if _, ok := baseDesc[q.code.Short()]; ok {
			continue
		}
		parent, ok := baseDesc[q.parent.Short()]
		if !ok {
			continue
		}
		add(q.code, parent+", "+q.suffix)
	}

	final := make(map[string]string, cands.Len())
	for k, v := range cands.All() {
		final[k] = pickDescription(v)
	}
	for _, o := range overrides {
		if p, _ := icd9.Parent(o.code); final[p.Short()] == "" || invalid[o.code.Short()] {
			continue
		}
		final[o.code.Short()] = o.desc
		codes[o.code.Short()] = o.code
	}
	sorted := make([]icd9.Code, 0, len(final))
	for k := range final {
		sorted = append(sorted, codes[k])
	}
	icd9.Sort(sorted)

	tbl := lookup.NewTable()
	for _, c := range sorted {
		tbl.Set(c, final[c.Short()])
	}
	return tbl
}

// pickDescription keeps the longest candidate; among equally long distinct
// candidates the first one seen wins.
func pickDescription(cands []string) string {
	best := cands[0]
	for _, c := range cands[1:] {
		if utf8.RuneCountInString(c) > utf8.RuneCountInString(best) {
			best = c
		}
	}
	return best
}

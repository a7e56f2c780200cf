package comorbid

import (
	"fmt"

	"github.com/gyeh/icd9/internal/icd9"
)

// GroupDiff holds the canonical short codes of one group split by which map
// contains them.
type GroupDiff struct {
	OnlyInA []string
	OnlyInB []string
	InBoth  []string
}

// Diff compares the groups of two maps code by code. Patterns are expanded
// first: ranges to their codes, and with a defined set single codes to their
// real subtree. An empty groups list compares every group of either map.
func Diff(a, b *Map, groups []string, defined *icd9.DefinedSet) (map[string]GroupDiff, error) {
	if len(groups) == 0 {
		groups = a.Groups.Keys()
		for _, g := range b.Groups.Keys() {
			if !a.Groups.Has(g) {
				groups = append(groups, g)
			}
		}
	}

	out := make(map[string]GroupDiff, len(groups))
	for _, g := range groups {
		if !a.Groups.Has(g) && !b.Groups.Has(g) {
			return nil, fmt.Errorf("group %q not in either map", g)
		}
		codesA, err := expandGroup(a, g, defined)
		if err != nil {
			return nil, fmt.Errorf("map A: %w", err)
		}
		codesB, err := expandGroup(b, g, defined)
		if err != nil {
			return nil, fmt.Errorf("map B: %w", err)
		}

		inB := make(map[string]bool, len(codesB))
		for _, c := range codesB {
			inB[c.Short()] = true
		}
		inA := make(map[string]bool, len(codesA))
		var d GroupDiff
		for _, c := range codesA {
			inA[c.Short()] = true
			if inB[c.Short()] {
				d.InBoth = append(d.InBoth, c.Short())
			} else {
				d.OnlyInA = append(d.OnlyInA, c.Short())
			}
		}
		for _, c := range codesB {
			if !inA[c.Short()] {
				d.OnlyInB = append(d.OnlyInB, c.Short())
			}
		}
		out[g] = d
	}
	return out, nil
}

// expandGroup returns the distinct codes of group g in canonical order.
func expandGroup(m *Map, g string, defined *icd9.DefinedSet) ([]icd9.Code, error) {
	raws, _ := m.Groups.Get(g)
	seen := make(map[string]bool)
	var out []icd9.Code
	for _, raw := range raws {
		p, err := parsePattern(g, raw)
		if err != nil {
			return nil, err
		}
		codes, err := p.expand(defined)
		if err != nil {
			return nil, &PatternError{Group: g, Pattern: raw, Err: err}
		}
		for _, c := range codes {
			if !seen[c.Short()] {
				seen[c.Short()] = true
				out = append(out, c)
			}
		}
	}
	icd9.Sort(out)
	return out, nil
}

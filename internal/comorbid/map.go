package comorbid

import (
	"fmt"
	"strings"

	"github.com/gyeh/icd9/internal/icd9"
	"github.com/gyeh/icd9/internal/ordmap"
)

// Map is comorbidity reference data: an ordered mapping from group name to
// code patterns. A pattern is a single code ("428", "398.91", "39891"),
// matching the code and everything below it, or a range ("402.01-402.91").
// A Map is not modified once loaded.
type Map struct {
	Groups *ordmap.Map[string, []string]
	// Hierarchy lists, per group, the less specific groups it supersedes,
	// e.g. complicated diabetes supersedes uncomplicated diabetes.
	Hierarchy map[string][]string
	// Weights scores groups, e.g. Charlson index weights.
	Weights map[string]int
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{
		Groups:    ordmap.New[string, []string](0),
		Hierarchy: map[string][]string{},
		Weights:   map[string]int{},
	}
}

// PatternError reports a pattern in a group that cannot be parsed.
type PatternError struct {
	Group   string
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("group %s pattern %q: %s", e.Group, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

type pattern struct {
	code    icd9.Code
	rng     icd9.Range
	isRange bool
}

func (p pattern) matches(c icd9.Code) bool {
	if p.isRange {
		return p.rng.Contains(c)
	}
	return icd9.IsAncestorOrSelf(p.code, c)
}

func (p pattern) expand(defined *icd9.DefinedSet) ([]icd9.Code, error) {
	if p.isRange {
		return p.rng.Expand(defined)
	}
	if defined == nil {
		return []icd9.Code{p.code}, nil
	}
	out := icd9.Descendants(p.code, defined)
	if defined.Contains(p.code) {
		out = append([]icd9.Code{p.code}, out...)
	}
	return out, nil
}

func parsePattern(group, raw string) (pattern, error) {
	if strings.Contains(raw, "-") {
		r, err := icd9.ParseRange(raw, icd9.Auto)
		if err != nil {
			return pattern{}, &PatternError{Group: group, Pattern: raw, Err: err}
		}
		return pattern{rng: r, isRange: true}, nil
	}
	c, err := icd9.Parse(raw, icd9.Auto)
	if err != nil {
		return pattern{}, &PatternError{Group: group, Pattern: raw, Err: err}
	}
	return pattern{code: c}, nil
}

// Matcher tests codes against every group of a compiled Map.
type Matcher struct {
	groups   []string
	patterns [][]pattern
}

// Compile parses every pattern of m. Any bad pattern fails the whole map.
func Compile(m *Map) (*Matcher, error) {
	mt := &Matcher{}
	for name, raws := range m.Groups.All() {
		ps := make([]pattern, 0, len(raws))
		for _, raw := range raws {
			p, err := parsePattern(name, raw)
			if err != nil {
				return nil, err
			}
			ps = append(ps, p)
		}
		mt.groups = append(mt.groups, name)
		mt.patterns = append(mt.patterns, ps)
	}
	return mt, nil
}

// Groups returns the group names in map order.
func (mt *Matcher) Groups() []string {
	return append([]string(nil), mt.groups...)
}

// Match returns, per group, whether c belongs to it.
func (mt *Matcher) Match(c icd9.Code) []bool {
	out := make([]bool, len(mt.groups))
	for i, ps := range mt.patterns {
		for _, p := range ps {
			if p.matches(c) {
				out[i] = true
				break
			}
		}
	}
	return out
}

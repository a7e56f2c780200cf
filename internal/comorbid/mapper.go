package comorbid

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gyeh/icd9/internal/icd9"
	"github.com/gyeh/icd9/internal/visit"
)

// Filter selects records by their present-on-arrival flag.
type Filter int

const (
	FilterNone   Filter = iota
	FilterYes           // only POA == Yes
	FilterNo            // only POA == No
	FilterNotNo         // anything but No, including missing flags
	FilterNotYes        // anything but Yes, including missing flags
)

// Keep reports whether a record with flag p passes the filter.
func (f Filter) Keep(p visit.POA) bool {
	switch f {
	case FilterYes:
		return p == visit.Yes
	case FilterNo:
		return p == visit.No
	case FilterNotNo:
		return p != visit.No
	case FilterNotYes:
		return p != visit.Yes
	default:
		return true
	}
}

func (f Filter) String() string {
	switch f {
	case FilterYes:
		return "yes"
	case FilterNo:
		return "no"
	case FilterNotNo:
		return "notno"
	case FilterNotYes:
		return "notyes"
	default:
		return "none"
	}
}

// ParseFilter reads a filter name as accepted on the command line.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "")) {
	case "", "none", "all":
		return FilterNone, nil
	case "yes":
		return FilterYes, nil
	case "no":
		return FilterNo, nil
	case "notno":
		return FilterNotNo, nil
	case "notyes":
		return FilterNotYes, nil
	}
	return FilterNone, fmt.Errorf("unknown poa filter %q", s)
}

// Options tunes MapComorbidities.
type Options struct {
	Filter   Filter
	SortByID bool // order visits by id instead of first occurrence
	Workers  int  // >1 maps visits in parallel
}

// InvalidRecord is a record whose code could not be parsed. It does not
// abort mapping; its visit keeps whatever its other records matched.
type InvalidRecord struct {
	Index  int
	Record visit.Record
	Err    error
}

// Result is the visit × group boolean matrix.
type Result struct {
	Groups  []string
	Visits  []string
	Rows    [][]bool
	Invalid []InvalidRecord
}

// MapComorbidities flags, for every visit with at least one record passing
// the POA filter, which groups of m its codes fall into. Visits without a
// matching code still get an all-false row.
func MapComorbidities(records []visit.Record, m *Map, opts Options) (*Result, error) {
	mt, err := Compile(m)
	if err != nil {
		return nil, err
	}

	var visits []string
	byVisit := make(map[string][]int)
	for i, r := range records {
		if !opts.Filter.Keep(r.POA) {
			continue
		}
		if _, ok := byVisit[r.VisitID]; !ok {
			visits = append(visits, r.VisitID)
		}
		byVisit[r.VisitID] = append(byVisit[r.VisitID], i)
	}

	rows := make([][]bool, len(visits))
	invalid := make([][]InvalidRecord, len(visits))
	mapChunk := func(lo, hi int) {
		cache := make(map[string][]bool)
		for vi := lo; vi < hi; vi++ {
			row := make([]bool, len(mt.groups))
			for _, idx := range byVisit[visits[vi]] {
				rec := records[idx]
				c, err := icd9.Parse(rec.Code, icd9.Auto)
				if err != nil {
					invalid[vi] = append(invalid[vi], InvalidRecord{Index: idx, Record: rec, Err: err})
					continue
				}
				hits, ok := cache[c.Short()]
				if !ok {
					hits = mt.Match(c)
					cache[c.Short()] = hits
				}
				for g, hit := range hits {
					row[g] = row[g] || hit
				}
			}
			rows[vi] = row
		}
	}

	if opts.Workers > 1 && len(visits) > 1 {
		chunk := (len(visits) + opts.Workers - 1) / opts.Workers
		var g errgroup.Group
		g.SetLimit(opts.Workers)
		for lo := 0; lo < len(visits); lo += chunk {
			hi := min(lo+chunk, len(visits))
			g.Go(func() error {
				mapChunk(lo, hi)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		mapChunk(0, len(visits))
	}

	res := &Result{Groups: mt.Groups(), Visits: visits, Rows: rows}
	for _, inv := range invalid {
		res.Invalid = append(res.Invalid, inv...)
	}
	sort.Slice(res.Invalid, func(i, j int) bool { return res.Invalid[i].Index < res.Invalid[j].Index })

	if opts.SortByID {
		res.sortByVisit()
	}
	return res, nil
}

func (r *Result) sortByVisit() {
	idx := make([]int, len(r.Visits))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return r.Visits[idx[a]] < r.Visits[idx[b]] })
	visits := make([]string, len(idx))
	rows := make([][]bool, len(idx))
	for i, j := range idx {
		visits[i] = r.Visits[j]
		rows[i] = r.Rows[j]
	}
	r.Visits, r.Rows = visits, rows
}

// GroupsFor returns the groups flagged for a visit, in map order.
func (r *Result) GroupsFor(visitID string) []string {
	for i, v := range r.Visits {
		if v == visitID {
			return r.flagged(i)
		}
	}
	return nil
}

func (r *Result) flagged(i int) []string {
	out := []string{}
	for g, hit := range r.Rows[i] {
		if hit {
			out = append(out, r.Groups[g])
		}
	}
	return out
}

// AsMap returns visit id -> flagged groups. Every visit in the result is
// present, with an empty slice when nothing matched.
func (r *Result) AsMap() map[string][]string {
	out := make(map[string][]string, len(r.Visits))
	for i, v := range r.Visits {
		out[v] = r.flagged(i)
	}
	return out
}

// Count returns the number of flagged groups per visit, aligned with Visits.
func (r *Result) Count() []int {
	out := make([]int, len(r.Visits))
	for i, row := range r.Rows {
		for _, hit := range row {
			if hit {
				out[i]++
			}
		}
	}
	return out
}

// Score sums group weights per visit, aligned with Visits. Groups without a
// weight count zero.
func (r *Result) Score(weights map[string]int) []int {
	out := make([]int, len(r.Visits))
	for i, row := range r.Rows {
		for g, hit := range row {
			if hit {
				out[i] += weights[r.Groups[g]]
			}
		}
	}
	return out
}

// ApplyHierarchy clears superseded groups in place: when a visit has group A
// flagged, every group listed under rules[A] is cleared.
func (r *Result) ApplyHierarchy(rules map[string][]string) {
	pos := make(map[string]int, len(r.Groups))
	for i, g := range r.Groups {
		pos[g] = i
	}
	for _, row := range r.Rows {
		// Decide from the unmodified row so rule order does not matter.
		orig := append([]bool(nil), row...)
		for top, lower := range rules {
			ti, ok := pos[top]
			if !ok || !orig[ti] {
				continue
			}
			for _, l := range lower {
				if li, ok := pos[l]; ok {
					row[li] = false
				}
			}
		}
	}
}

package icd9

import "sort"

// DefinedSet is an immutable, ordered set of real (defined) codes. A nil
// *DefinedSet means "no reference data": callers fall back to the full
// syntactic code space.
type DefinedSet struct {
	codes []Code
	index map[string]struct{}
}

// NewDefinedSet builds a set from codes; duplicates are dropped and Raw is cleared.
func NewDefinedSet(codes []Code) *DefinedSet {
	d := &DefinedSet{index: make(map[string]struct{}, len(codes))}
	for _, c := range codes {
		key := c.Short()
		if _, ok := d.index[key]; ok {
			continue
		}
		d.index[key] = struct{}{}
		d.codes = append(d.codes, Code{Kind: c.Kind, Major: c.Major, Minor: c.Minor})
	}
	Sort(d.codes)
	return d
}

// Contains reports whether c is a defined code.
func (d *DefinedSet) Contains(c Code) bool {
	if d == nil {
		return false
	}
	_, ok := d.index[c.Short()]
	return ok
}

// Len returns the number of defined codes.
func (d *DefinedSet) Len() int {
	if d == nil {
		return 0
	}
	return len(d.codes)
}

// Codes returns a copy of the defined codes in canonical order.
func (d *DefinedSet) Codes() []Code {
	if d == nil {
		return nil
	}
	return append([]Code(nil), d.codes...)
}

// IsBillable reports whether c is defined and has no defined descendants.
func (d *DefinedSet) IsBillable(c Code) bool {
	return d.Contains(c) && len(d.subtree(c)) == 1
}

// search returns the index of the first code not less than c.
func (d *DefinedSet) search(c Code) int {
	return sort.Search(len(d.codes), func(i int) bool {
		return Compare(d.codes[i], c) >= 0
	})
}

// between returns the defined codes in [lo, hi].
func (d *DefinedSet) between(lo, hi Code) []Code {
	if d == nil {
		return nil
	}
	i := d.search(lo)
	j := i
	for j < len(d.codes) && Compare(d.codes[j], hi) <= 0 {
		j++
	}
	return d.codes[i:j]
}

// subtree returns c (if defined) and every defined descendant of c. In
// canonical order a subtree is contiguous.
func (d *DefinedSet) subtree(c Code) []Code {
	return d.between(c, lastDescendant(c))
}

// lastIn returns the greatest defined code in c's subtree.
func (d *DefinedSet) lastIn(c Code) (Code, bool) {
	sub := d.subtree(c)
	if len(sub) == 0 {
		return Code{}, false
	}
	return sub[len(sub)-1], true
}

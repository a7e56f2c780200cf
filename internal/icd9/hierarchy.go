package icd9

import (
	"strings"
)

// Parent drops the last minor digit. ok is false for a bare major.
func Parent(c Code) (Code, bool) {
	if c.Minor == "" {
		return Code{}, false
	}
	return Code{Kind: c.Kind, Major: c.Major, Minor: c.Minor[:len(c.Minor)-1]}, true
}

// Children returns the one-digit extensions of c in ascending order. With a
// non-nil defined set only real children are returned. A code already at the
// deepest minor for its kind has no children.
func Children(c Code, defined *DefinedSet) []Code {
	if len(c.Minor) >= maxMinor(c.Kind) {
		return nil
	}
	var out []Code
	for d := byte('0'); d <= '9'; d++ {
		child := Code{Kind: c.Kind, Major: c.Major, Minor: c.Minor + string(d)}
		if defined != nil && !defined.Contains(child) {
			continue
		}
		out = append(out, child)
	}
	return out
}

// Descendants returns every code strictly below c, in canonical order.
func Descendants(c Code, defined *DefinedSet) []Code {
	if defined != nil {
		sub := defined.subtree(c)
		if len(sub) > 0 && sub[0].Equal(c) {
			sub = sub[1:]
		}
		return append([]Code(nil), sub...)
	}
	var out []Code
	last := lastDescendant(c)
	for n, ok := next(c); ok && Compare(n, last) <= 0; n, ok = next(n) {
		out = append(out, n)
	}
	return out
}

// IsAncestorOrSelf reports whether a is c or one of c's ancestors.
func IsAncestorOrSelf(a, c Code) bool {
	return a.Kind == c.Kind && a.Major == c.Major && strings.HasPrefix(c.Minor, a.Minor)
}

// lastDescendant is the final code of c's syntactic subtree in canonical order.
func lastDescendant(c Code) Code {
	minor := c.Minor + strings.Repeat("9", maxMinor(c.Kind)-len(c.Minor))
	return Code{Kind: c.Kind, Major: c.Major, Minor: minor}
}

// next walks the syntactic space of c's kind in canonical (pre-)order.
func next(c Code) (Code, bool) {
	if len(c.Minor) < maxMinor(c.Kind) {
		return Code{Kind: c.Kind, Major: c.Major, Minor: c.Minor + "0"}, true
	}
	minor := c.Minor
	for len(minor) > 0 {
		last := minor[len(minor)-1]
		if last < '9' {
			return Code{Kind: c.Kind, Major: c.Major, Minor: minor[:len(minor)-1] + string(last+1)}, true
		}
		minor = minor[:len(minor)-1]
	}
	v := c.majorValue() + 1
	if _, hi := majorBounds(c.Kind); v > hi {
		return Code{}, false
	}
	return Code{Kind: c.Kind, Major: formatMajor(c.Kind, v)}, true
}

// Range is an inclusive span of codes of a single kind.
type Range struct {
	Start Code
	End   Code
}

// NewRange checks that start and end share a kind and are ordered.
func NewRange(start, end Code) (Range, error) {
	if start.Kind != end.Kind {
		return Range{}, &RangeError{Start: start.Decimal(), End: end.Decimal(), Err: ErrRangeKindMismatch}
	}
	if Compare(start, end) > 0 {
		return Range{}, &RangeError{Start: start.Decimal(), End: end.Decimal(), Err: ErrRangeOrder}
	}
	return Range{Start: start, End: end}, nil
}

// ParseRange reads "401-405", "401.1-401.9" or "V10-V19". Endpoints are read
// in the given form.
func ParseRange(s string, form Form) (Range, error) {
	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return Range{}, codeErr(s, ErrMalformedCode, "range needs start-end")
	}
	start, err := Parse(lo, form)
	if err != nil {
		return Range{}, err
	}
	end, err := Parse(hi, form)
	if err != nil {
		return Range{}, err
	}
	return NewRange(start, end)
}

func (r Range) String() string {
	return r.Start.Decimal() + "-" + r.End.Decimal()
}

// Contains reports whether c would be produced by expanding r over the
// syntactic space, without materialising the expansion.
func (r Range) Contains(c Code) bool {
	if c.Kind != r.Start.Kind {
		return false
	}
	end := lastDescendant(r.End)
	if Compare(c, r.Start) < 0 || Compare(c, end) > 0 {
		return false
	}
	if c.Equal(r.Start) || c.Equal(r.End) {
		return true
	}
	return Compare(lastDescendant(c), end) <= 0
}

// Expand is ExpandRange over r.
func (r Range) Expand(defined *DefinedSet) ([]Code, error) {
	return ExpandRange(r.Start, r.End, defined)
}

// ExpandRange lists the codes covering [start, end]. The end endpoint covers
// its whole subtree. A code is emitted only when its own subtree fits inside
// the span, so ancestors that reach past either boundary are left out:
// 100.99-101.01 yields 100.99, 101.00, 101.01 and never 100, 101 or 101.0.
// Requested endpoints are always emitted. With a non-nil defined set only
// real codes are considered, and subtrees are judged by their real members.
func ExpandRange(start, end Code, defined *DefinedSet) ([]Code, error) {
	if _, err := NewRange(start, end); err != nil {
		return nil, err
	}

	isEndpoint := func(c Code) bool { return c.Equal(start) || c.Equal(end) }

	if defined == nil {
		last := lastDescendant(end)
		var out []Code
		for c, ok := start, true; ok && Compare(c, last) <= 0; c, ok = next(c) {
			if isEndpoint(c) || Compare(lastDescendant(c), last) <= 0 {
				out = append(out, Code{Kind: c.Kind, Major: c.Major, Minor: c.Minor})
			}
		}
		return out, nil
	}

	last := end
	if l, ok := defined.lastIn(end); ok && Compare(l, last) > 0 {
		last = l
	}
	var out []Code
	for _, c := range defined.between(start, last) {
		sub, _ := defined.lastIn(c)
		if isEndpoint(c) || Compare(sub, last) <= 0 {
			out = append(out, c)
		}
	}
	return out, nil
}

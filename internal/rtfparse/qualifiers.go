package rtfparse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gyeh/icd9/internal/icd9"
)

var (
	footnoteRe  = regexp.MustCompile(`(?i)\b(fourth|fifth)[- ]digit\b.*?\bfor use with\b(.*)$`)
	digitLineRe = regexp.MustCompile(`^\.?(\d)\s+(.+)$`)
)

// qualified is a code synthesized from a digit footnote. Its description is
// the parent's description plus suffix, filled in at merge time.
type qualified struct {
	code   icd9.Code
	parent icd9.Code
	suffix string
}

// resolveQualifiers consumes fourth- and fifth-digit footnotes together with
// the digit block that follows each one, and returns the codes they imply.
func resolveQualifiers(lines []line) ([]line, []qualified, []error) {
	out := make([]line, 0, len(lines))
	var found []qualified
	var warns []error
	var last icd9.Code
	haveLast := false

	for i := 0; i < len(lines); i++ {
		l := lines[i]
		if c, _, ok := leadingCode(l.text); ok {
			last, haveLast = c, true
			out = append(out, l)
			continue
		}
		m := footnoteRe.FindStringSubmatch(l.text)
		if m == nil {
			out = append(out, l)
			continue
		}
		minorLen := 1
		if strings.EqualFold(m[1], "fifth") {
			minorLen = 2
		}

		var suffixes [10]string
		prev := -1
		j := i + 1
		for ; j < len(lines); j++ {
			dm := digitLineRe.FindStringSubmatch(lines[j].text)
			if dm == nil {
				break
			}
			d := int(dm[1][0] - '0')
			if d <= prev {
				break
			}
			suffixes[d] = strings.TrimSpace(dm[2])
			prev = d
		}
		i = j - 1
		if prev < 0 {
			warns = append(warns, &QualifierError{Line: l.n, Text: l.text, Err: fmt.Errorf("%w: no digit block", ErrUnresolvedQualifierReference)})
			continue
		}

		ranges, err := footnoteTargets(m[2])
		if err == nil && len(ranges) == 0 {
			if haveLast {
				ranges = []icd9.Range{{Start: last, End: last}}
			} else {
				err = ErrUnresolvedQualifierReference
			}
		}
		if err != nil {
			warns = append(warns, &QualifierError{Line: l.n, Text: l.text, Err: err})
			continue
		}

		for _, r := range ranges {
			codes, err := r.Expand(nil)
			if err != nil {
				warns = append(warns, &QualifierError{Line: l.n, Text: l.text, Err: fmt.Errorf("%w: %v", ErrUnresolvedQualifierReference, err)})
				continue
			}
			for _, c := range codes {
				if len(c.Minor) != minorLen {
					continue
				}
				suffix := suffixes[c.Minor[len(c.Minor)-1]-'0']
				if suffix == "" {
					continue
				}
				parent, _ := icd9.Parent(c)
				found = append(found, qualified{code: c, parent: parent, suffix: suffix})
			}
		}
	}
	return out, found, warns
}

// nounWords may surround the code list of a footnote.
var nounWords = map[string]bool{
	"the": true, "following": true, "with": true,
	"category": true, "categories": true,
	"subcategory": true, "subcategories": true,
	"code": true, "codes": true,
}

// footnoteTargets reads the code list after "for use with". It accepts
// single codes, ranges and relative items such as ".1" or ".4-.9", which
// take the major of the item before them. An empty result means the
// footnote refers back to the preceding code.
func footnoteTargets(text string) ([]icd9.Range, error) {
	list := text
	if before, after, ok := strings.Cut(text, ":"); ok {
		list = after
		if strings.ContainsAny(before, "0123456789") {
			list = before
		}
	}
	if i := strings.Index(strings.ToLower(list), " to "); i >= 0 {
		list = list[:i]
	}
	list = strings.ReplaceAll(list, " and ", ",")

	var out []icd9.Range
	var prev icd9.Code
	havePrev := false
	for _, item := range strings.Split(list, ",") {
		item = cleanItem(item)
		if item == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(item, "-")
		start, err := resolveItem(lo, prev, havePrev)
		if err != nil {
			return nil, err
		}
		end := start
		if isRange {
			if end, err = resolveItem(hi, start.MajorCode(), true); err != nil {
				return nil, err
			}
		}
		r, err := icd9.NewRange(start, end)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnresolvedQualifierReference, err)
		}
		out = append(out, r)
		prev, havePrev = start.MajorCode(), true
	}
	return out, nil
}

// cleanItem drops prose words and punctuation around one list item.
func cleanItem(item string) string {
	var keep []string
	for _, w := range strings.Fields(item) {
		w = strings.Trim(w, "();")
		if nounWords[strings.ToLower(w)] {
			continue
		}
		if w != "-" && !strings.ContainsAny(w, "0123456789") {
			continue
		}
		keep = append(keep, w)
	}
	return strings.TrimRight(strings.Join(keep, ""), ".")
}

func resolveItem(s string, prev icd9.Code, havePrev bool) (icd9.Code, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, ".") {
		if !havePrev {
			return icd9.Code{}, fmt.Errorf("%w: relative item %q has no major", ErrUnresolvedQualifierReference, s)
		}
		s = prev.Major + s
	}
	c, err := icd9.Parse(s, icd9.Auto)
	if err != nil {
		return icd9.Code{}, fmt.Errorf("%w: %v", ErrUnresolvedQualifierReference, err)
	}
	return c, nil
}

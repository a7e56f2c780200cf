package rtfparse

import (
	"regexp"
	"strings"

	"github.com/gyeh/icd9/internal/icd9"
	"github.com/gyeh/icd9/internal/lookup"
	"github.com/gyeh/icd9/internal/ordmap"
)

// majorPat matches a three-character major of any kind.
const majorPat = `(?:[Vv]\d{2}|[Ee]?\d{3})`

var (
	// A code line starts with a full three-character major.
	codeLineRe = regexp.MustCompile(`^([Vv]\d{2}|[Ee]\d{3}|\d{3})(?:\.(\d{1,2}))?(?:\s+(.*))?$`)

	chapterParenRe   = regexp.MustCompile(`^(.+?)\s*\(\s*(` + majorPat + `)\s*-\s*(` + majorPat + `)\s*\)$`)
	chapterBracketRe = regexp.MustCompile(`^\[\s*(` + majorPat + `)\s*-\s*(` + majorPat + `)\s*\]\s*(.+)$`)

	bracketRangeRe = regexp.MustCompile(`^\[\s*` + majorPat + `(?:\.\d{1,2})?\s*-\s*` + majorPat + `(?:\.\d{1,2})?\s*\]`)
	parenRangeRe   = regexp.MustCompile(`\(\s*` + majorPat + `\s*-\s*` + majorPat + `\s*\)`)

	subsetRe = regexp.MustCompile(`\[\s*(\d(?:\s*[-,]\s*\d)*)\s*\]\s*$`)
)

// leadingCode splits a code line into its code and the text after it.
func leadingCode(text string) (icd9.Code, string, bool) {
	m := codeLineRe.FindStringSubmatch(text)
	if m == nil {
		return icd9.Code{}, "", false
	}
	raw := m[1]
	if m[2] != "" {
		raw += "." + m[2]
	}
	c, err := icd9.Parse(raw, icd9.Decimal)
	if err != nil {
		return icd9.Code{}, "", false
	}
	return c, strings.TrimSpace(m[3]), true
}

// extractStructure collects bold major headings and chapter headings. It
// must run before filterExclusions, which drops the chapter lines.
func extractStructure(lines []line) (*ordmap.Map[string, string], []lookup.Chapter) {
	majors := ordmap.New[string, string](0)
	var chapters []lookup.Chapter
	for _, l := range lines {
		if !l.bold {
			continue
		}
		if c, desc, ok := leadingCode(l.text); ok {
			if loc := subsetRe.FindStringIndex(desc); loc != nil {
				desc = strings.TrimSpace(desc[:loc[0]])
			}
			if c.IsMajor() && desc != "" && !majors.Has(c.Major) {
				majors.Set(c.Major, desc)
			}
			continue
		}
		var title, lo, hi string
		if m := chapterParenRe.FindStringSubmatch(l.text); m != nil {
			title, lo, hi = m[1], m[2], m[3]
		} else if m := chapterBracketRe.FindStringSubmatch(l.text); m != nil {
			lo, hi, title = m[1], m[2], m[3]
		} else {
			continue
		}
		start, err := icd9.Parse(lo, icd9.Short)
		if err != nil {
			continue
		}
		end, err := icd9.Parse(hi, icd9.Short)
		if err != nil {
			continue
		}
		if _, err := icd9.NewRange(start, end); err != nil {
			continue
		}
		chapters = append(chapters, lookup.Chapter{Start: start, End: end, Title: strings.TrimSpace(title)})
	}
	return majors, chapters
}

// fusedLines are paragraphs in the source where a heading or exclusion runs
// straight into the next code line. Only the code half is kept.
var fusedLines = []struct{ prefix, code string }{
	{"NEPHRITIS, NEPHROTIC SYNDROME, AND NEPHROSIS (580-589)", "580"},
	{"Excludes: hemangioma (228.0)", "229"},
}

func splitFused(text string) (string, bool) {
	for _, f := range fusedLines {
		rest, ok := strings.CutPrefix(text, f.prefix)
		if ok && strings.HasPrefix(strings.TrimSpace(rest), f.code) {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}

func isExclusion(text string) bool {
	return strings.HasPrefix(strings.ToLower(text), "excludes")
}

func isRangeHeading(text string) bool {
	if text == "" || isDigit(text[0]) || text[0] == '.' || footnoteRe.MatchString(text) {
		return false
	}
	if _, _, ok := leadingCode(text); ok {
		return false
	}
	return bracketRangeRe.MatchString(text) || parenRangeRe.MatchString(text)
}

// filterExclusions drops exclusion notes and range headings.
func filterExclusions(lines []line) []line {
	out := make([]line, 0, len(lines))
	for _, l := range lines {
		if kept, ok := splitFused(l.text); ok {
			l.text = kept
			out = append(out, l)
			continue
		}
		if isExclusion(l.text) || isRangeHeading(l.text) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// extractQualifierSubsets reads "[0,1,3]" style annotations, which limit the
// valid fifth digits of the code they follow or trail. It returns the
// remaining lines and the short codes the annotations rule out.
func extractQualifierSubsets(lines []line) ([]line, map[string]bool, []error) {
	out := make([]line, 0, len(lines))
	invalid := make(map[string]bool)
	var warns []error
	var last icd9.Code
	haveLast := false

	for _, l := range lines {
		c, _, isCode := leadingCode(l.text)
		loc := subsetRe.FindStringSubmatchIndex(l.text)
		if loc == nil {
			if isCode {
				last, haveLast = c, true
			}
			out = append(out, l)
			continue
		}
		digits := l.text[loc[2]:loc[3]]

		var target icd9.Code
		switch {
		case isCode:
			l.text = strings.TrimSpace(l.text[:loc[0]])
			out = append(out, l)
			last, haveLast = c, true
			target = c
		case loc[0] == 0:
			if !haveLast {
				warns = append(warns, &QualifierError{Line: l.n, Text: l.text, Err: ErrUnresolvedQualifierReference})
				continue
			}
			target = last
		default:
			out = append(out, l)
			continue
		}

		children := fifthDigits(target)
		if len(children) == 0 {
			warns = append(warns, &QualifierError{Line: l.n, Text: l.text, Err: ErrUnresolvedQualifierReference})
			continue
		}
		allowed := parseDigitSet(digits)
		for _, ch := range children {
			if !allowed[ch.Minor[len(ch.Minor)-1]-'0'] {
				invalid[ch.Short()] = true
			}
		}
	}
	return out, invalid, warns
}

// fifthDigits returns the fifth-digit codes a subset annotation on c
// constrains. An annotation on a three-digit category covers the fifth digit
// under every fourth digit.
func fifthDigits(c icd9.Code) []icd9.Code {
	if !c.IsMajor() {
		return icd9.Children(c, nil)
	}
	var out []icd9.Code
	for _, sub := range icd9.Children(c, nil) {
		out = append(out, icd9.Children(sub, nil)...)
	}
	return out
}

// parseDigitSet reads "0-2,4" into a membership table.
func parseDigitSet(s string) [10]bool {
	var set [10]bool
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := strings.Cut(part, "-")
		lo, hi = strings.TrimSpace(lo), strings.TrimSpace(hi)
		if lo == "" || !isDigit(lo[0]) {
			continue
		}
		a, b := lo[0]-'0', lo[0]-'0'
		if isRange && hi != "" && isDigit(hi[0]) {
			b = hi[0] - '0'
		}
		for d := a; d <= b; d++ {
			set[d] = true
		}
	}
	return set
}

// inlineNotes start the trailing notes some code lines carry.
var inlineNotes = []string{"excludes:", "includes:", "use additional code", "code first"}

func cutNotes(desc string) string {
	lower := strings.ToLower(desc)
	end := len(desc)
	for _, n := range inlineNotes {
		if i := strings.Index(lower, n); i >= 0 && i < end {
			end = i
		}
	}
	return strings.TrimRight(strings.TrimSpace(desc[:end]), ":;,")
}

type entry struct {
	code icd9.Code
	desc string
}

// extractPrimary turns the remaining code lines into base entries.
func extractPrimary(lines []line) []entry {
	var out []entry
	for _, l := range lines {
		c, desc, ok := leadingCode(l.text)
		if !ok {
			continue
		}
		if desc = cutNotes(desc); desc == "" {
			continue
		}
		out = append(out, entry{code: c, desc: desc})
	}
	return out
}

package lookup

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gyeh/icd9/internal/icd9"
)

// ExplainOptions controls Explain.
type ExplainOptions struct {
	Form     icd9.Form
	Condense bool // collapse fully covered subtrees to their ancestor first
}

// Explanation is one annotated code. Warning is set (wrapping
// icd9.ErrUndefinedCode) when the table has no entry for the code itself;
// Description then falls back to the major heading, if any.
type Explanation struct {
	Code        icd9.Code
	Description string
	Chapter     string
	Billable    bool
	Warning     error
}

// Explain annotates codes with their descriptions from t. A malformed or
// invalid code aborts with an error; codes that are merely absent from the
// table are logged and reported in Explanation.Warning.
func Explain(codes []string, t *Table, opts ExplainOptions, log zerolog.Logger) ([]Explanation, error) {
	parsed := make([]icd9.Code, 0, len(codes))
	for _, raw := range codes {
		c, err := icd9.Parse(raw, opts.Form)
		if err != nil {
			return nil, fmt.Errorf("explain: %w", err)
		}
		parsed = append(parsed, c)
	}

	defined := t.Defined()
	if opts.Condense {
		parsed = icd9.Condense(parsed, defined)
	}

	out := make([]Explanation, 0, len(parsed))
	for _, c := range parsed {
		e := Explanation{Code: c, Billable: defined.IsBillable(c)}
		if desc, ok := t.Get(c); ok {
			e.Description = desc
		} else {
			e.Warning = fmt.Errorf("%s: %w", c.Decimal(), icd9.ErrUndefinedCode)
			e.Description, _ = t.MajorDescription(c)
			log.Warn().Str("code", c.Decimal()).Msg("code not in lookup table")
		}
		if ch, ok := t.ChapterFor(c); ok {
			e.Chapter = ch.Title
		}
		out = append(out, e)
	}
	return out, nil
}

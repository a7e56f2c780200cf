package lookup

import (
	"iter"

	"github.com/gyeh/icd9/internal/icd9"
	"github.com/gyeh/icd9/internal/ordmap"
)

// Chapter is a ranged heading from the tabular list, e.g.
// "INTESTINAL INFECTIOUS DISEASES (001-009)".
type Chapter struct {
	Start icd9.Code
	End   icd9.Code
	Title string
}

// Contains reports whether c falls inside the chapter's span.
func (ch Chapter) Contains(c icd9.Code) bool {
	return icd9.Range{Start: ch.Start, End: ch.End}.Contains(c)
}

// Table maps canonical short codes to descriptions, along with the major
// and chapter headings of the source document.
type Table struct {
	codes    *ordmap.Map[string, string]
	Majors   *ordmap.Map[string, string]
	Chapters []Chapter
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		codes:  ordmap.New[string, string](0),
		Majors: ordmap.New[string, string](0),
	}
}

// Set stores the description for c under its short form.
func (t *Table) Set(c icd9.Code, desc string) {
	t.codes.Set(c.Short(), desc)
}

// Delete removes c from the code table.
func (t *Table) Delete(c icd9.Code) bool {
	return t.codes.Delete(c.Short())
}

// Get returns the description for c.
func (t *Table) Get(c icd9.Code) (string, bool) {
	return t.codes.Get(c.Short())
}

// Len is the number of coded entries.
func (t *Table) Len() int {
	return t.codes.Len()
}

// All iterates short code -> description in table order.
func (t *Table) All() iter.Seq2[string, string] {
	return t.codes.All()
}

// Defined returns the table's codes as a DefinedSet.
func (t *Table) Defined() *icd9.DefinedSet {
	codes := make([]icd9.Code, 0, t.codes.Len())
	for short := range t.codes.All() {
		c, err := icd9.Parse(short, icd9.Short)
		if err != nil {
			continue
		}
		codes = append(codes, c)
	}
	return icd9.NewDefinedSet(codes)
}

// MajorDescription returns the heading text of c's major.
func (t *Table) MajorDescription(c icd9.Code) (string, bool) {
	if d, ok := t.Majors.Get(c.Major); ok {
		return d, true
	}
	return t.codes.Get(c.Major)
}

// ChapterFor returns the most specific chapter containing c.
func (t *Table) ChapterFor(c icd9.Code) (Chapter, bool) {
	var best Chapter
	found := false
	for _, ch := range t.Chapters {
		if !ch.Contains(c) {
			continue
		}
		// narrower spans start later or end earlier
		if !found || icd9.Compare(ch.Start, best.Start) >= 0 && icd9.Compare(ch.End, best.End) <= 0 {
			best, found = ch, true
		}
	}
	return best, found
}

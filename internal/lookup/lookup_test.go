package lookup

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gyeh/icd9/internal/icd9"
)

func sampleTable() *Table {
	t := NewTable()
	t.Set(icd9.MustParse("428"), "Heart failure")
	t.Set(icd9.MustParse("428.0"), "Congestive heart failure, unspecified")
	t.Set(icd9.MustParse("428.1"), "Left heart failure")
	t.Set(icd9.MustParse("001.0"), "Cholera due to vibrio cholerae")
	t.Majors.Set("428", "Heart failure")
	t.Majors.Set("401", "Essential hypertension")
	t.Chapters = []Chapter{
		{Start: icd9.MustParse("390"), End: icd9.MustParse("459"), Title: "DISEASES OF THE CIRCULATORY SYSTEM"},
		{Start: icd9.MustParse("420"), End: icd9.MustParse("429"), Title: "OTHER FORMS OF HEART DISEASE"},
		{Start: icd9.MustParse("001"), End: icd9.MustParse("009"), Title: "INTESTINAL INFECTIOUS DISEASES"},
	}
	return t
}

func TestTable_Basics(t *testing.T) {
	tbl := sampleTable()
	if tbl.Len() != 4 {
		t.Fatalf("Len = %d, want 4", tbl.Len())
	}
	if d, ok := tbl.Get(icd9.MustParse("4281")); !ok || d != "Left heart failure" {
		t.Errorf("Get(4281) = %q, %v", d, ok)
	}
	defined := tbl.Defined()
	if defined.Len() != 4 || !defined.IsBillable(icd9.MustParse("428.0")) || defined.IsBillable(icd9.MustParse("428")) {
		t.Errorf("Defined set wrong: %v", defined.Codes())
	}
	if !tbl.Delete(icd9.MustParse("001.0")) || tbl.Len() != 3 {
		t.Error("Delete did not remove 001.0")
	}
}

func TestTable_ChapterFor(t *testing.T) {
	tbl := sampleTable()
	tests := []struct {
		code string
		want string
		ok   bool
	}{
		{"428.0", "OTHER FORMS OF HEART DISEASE", true},
		{"401.9", "DISEASES OF THE CIRCULATORY SYSTEM", true},
		{"003", "INTESTINAL INFECTIOUS DISEASES", true},
		{"V10", "", false},
	}
	for _, tt := range tests {
		ch, ok := tbl.ChapterFor(icd9.MustParse(tt.code))
		if ok != tt.ok || ch.Title != tt.want {
			t.Errorf("ChapterFor(%s) = %q, %v; want %q, %v", tt.code, ch.Title, ok, tt.want, tt.ok)
		}
	}
}

func TestExplain(t *testing.T) {
	tbl := sampleTable()
	got, err := Explain([]string{"4280", "401.1"}, tbl, ExplainOptions{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d explanations", len(got))
	}
	if got[0].Description != "Congestive heart failure, unspecified" || got[0].Warning != nil || !got[0].Billable {
		t.Errorf("4280 = %+v", got[0])
	}
	if got[0].Chapter != "OTHER FORMS OF HEART DISEASE" {
		t.Errorf("4280 chapter = %q", got[0].Chapter)
	}
	if !errors.Is(got[1].Warning, icd9.ErrUndefinedCode) {
		t.Errorf("401.1 warning = %v", got[1].Warning)
	}
	if got[1].Description != "Essential hypertension" {
		t.Errorf("401.1 should fall back to major heading, got %q", got[1].Description)
	}
}

func TestExplain_Condense(t *testing.T) {
	tbl := sampleTable()
	got, err := Explain([]string{"428.0", "428.1"}, tbl, ExplainOptions{Condense: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if len(got) != 1 || got[0].Code.Decimal() != "428" || got[0].Description != "Heart failure" {
		t.Errorf("condensed = %+v", got)
	}
}

func TestExplain_MalformedIsError(t *testing.T) {
	_, err := Explain([]string{"428.0", "4x"}, sampleTable(), ExplainOptions{}, zerolog.Nop())
	if !errors.Is(err, icd9.ErrMalformedCode) {
		t.Fatalf("expected ErrMalformedCode, got %v", err)
	}
}

package visit

import (
	"errors"
	"strings"
	"testing"
)

func TestParsePOA(t *testing.T) {
	tests := []struct {
		token string
		want  POA
	}{
		{"Y", Yes},
		{"yes", Yes},
		{" n ", No},
		{"NO", No},
		{"u", Unknown},
		{"W", Unknown},
		{"X", NotApplicable},
		{"n/a", NotApplicable},
		{"E", Exempt},
		{"1", Exempt},
		{"", Missing},
	}
	for _, tt := range tests {
		got, err := ParsePOA(tt.token)
		if err != nil {
			t.Errorf("ParsePOA(%q): %v", tt.token, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePOA(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}

	if _, err := ParsePOA("maybe"); !errors.Is(err, ErrInvalidPOA) {
		t.Errorf("ParsePOA(maybe): got %v, want ErrInvalidPOA", err)
	}
}

func TestReadCSV(t *testing.T) {
	in := "\xEF\xBB\xBFvisit_id,code,poa\n" +
		"1,4280,Y\n" +
		"1,401.1,N\n" +
		"2,4280,\n" +
		"3,V10,bogus\n"

	recs, rowErrs, err := ReadCSV(strings.NewReader(in), DefaultColumns)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	if recs[0] != (Record{VisitID: "1", Code: "4280", POA: Yes}) {
		t.Errorf("first record = %+v", recs[0])
	}
	if recs[2].POA != Missing {
		t.Errorf("empty POA should be Missing, got %v", recs[2].POA)
	}
	if len(rowErrs) != 1 || rowErrs[0].Row != 5 {
		t.Fatalf("row errors = %v", rowErrs)
	}
	if !errors.Is(rowErrs[0], ErrInvalidPOA) {
		t.Errorf("row error should wrap ErrInvalidPOA: %v", rowErrs[0])
	}
}

func TestReadCSV_CustomColumnsWithoutPOA(t *testing.T) {
	in := "Encounter,DX\nA,250.00\nB,V10\n"
	recs, _, err := ReadCSV(strings.NewReader(in), Columns{Visit: "encounter", Code: "dx"})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(recs) != 2 || recs[1].VisitID != "B" || recs[1].POA != Missing {
		t.Errorf("records = %+v", recs)
	}
}

func TestReadCSV_MissingColumn(t *testing.T) {
	if _, _, err := ReadCSV(strings.NewReader("a,b\n1,2\n"), DefaultColumns); err == nil {
		t.Fatal("expected error for missing visit column")
	}
}

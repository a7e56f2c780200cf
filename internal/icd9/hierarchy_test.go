package icd9

import (
	"errors"
	"strings"
	"testing"
)

func decimals(codes []Code) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = c.Decimal()
	}
	return out
}

func definedSet(t *testing.T, raws ...string) *DefinedSet {
	t.Helper()
	codes := make([]Code, 0, len(raws))
	for _, r := range raws {
		c, err := Parse(r, Auto)
		if err != nil {
			t.Fatalf("parse %q: %v", r, err)
		}
		codes = append(codes, c)
	}
	return NewDefinedSet(codes)
}

func TestParent(t *testing.T) {
	tests := []struct {
		code, want string
		ok         bool
	}{
		{"428.01", "428.0", true},
		{"428.0", "428", true},
		{"428", "", false},
		{"V10.91", "V10.9", true},
		{"E849.0", "E849", true},
	}
	for _, tt := range tests {
		p, ok := Parent(MustParse(tt.code))
		if ok != tt.ok {
			t.Errorf("Parent(%s) ok = %v, want %v", tt.code, ok, tt.ok)
			continue
		}
		if ok && p.Decimal() != tt.want {
			t.Errorf("Parent(%s) = %s, want %s", tt.code, p.Decimal(), tt.want)
		}
	}
}

func TestParentChildProperty(t *testing.T) {
	for _, raw := range []string{"001.0", "001.01", "428.99", "V10.9", "V10.91", "E849.7"} {
		c := MustParse(raw)
		p, ok := Parent(c)
		if !ok {
			t.Fatalf("Parent(%s) missing", raw)
		}
		if len(p.Minor) != len(c.Minor)-1 {
			t.Errorf("Parent(%s) = %s has wrong depth", raw, p)
		}
		found := false
		for _, ch := range Children(p, nil) {
			if ch.Equal(c) {
				found = true
			}
		}
		if !found {
			t.Errorf("%s not among children of %s", raw, p)
		}
	}
}

func TestChildren_Syntactic(t *testing.T) {
	got := decimals(Children(MustParse("003.2"), nil))
	if len(got) != 10 || got[0] != "003.20" || got[9] != "003.29" {
		t.Errorf("Children(003.2) = %v", got)
	}
	if got := Children(MustParse("003.21"), nil); len(got) != 0 {
		t.Errorf("leaf should have no children, got %v", decimals(got))
	}
	if got := Children(MustParse("E849.0"), nil); len(got) != 0 {
		t.Errorf("E code at one minor digit should have no children, got %v", decimals(got))
	}
	if got := decimals(Children(MustParse("E849"), nil)); len(got) != 10 || got[0] != "E849.0" {
		t.Errorf("Children(E849) = %v", got)
	}
}

func TestChildren_OnlyReal(t *testing.T) {
	defined := definedSet(t, "391", "003", "003.2", "003.20", "003.21", "003.22", "003.23", "003.24", "003.29")

	if got := Children(MustParse("391"), defined); len(got) != 0 {
		t.Errorf("Children(391) = %v, want empty", decimals(got))
	}
	got := decimals(Children(MustParse("0032"), defined))
	want := []string{"003.20", "003.21", "003.22", "003.23", "003.24", "003.29"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Children(0032) = %v, want %v", got, want)
	}
}

func TestDescendants(t *testing.T) {
	got := Descendants(MustParse("428"), nil)
	if len(got) != 110 {
		t.Fatalf("Descendants(428): got %d codes, want 110", len(got))
	}
	if got[0].Decimal() != "428.0" || got[1].Decimal() != "428.00" || got[len(got)-1].Decimal() != "428.99" {
		t.Errorf("unexpected order: first %s %s last %s", got[0], got[1], got[len(got)-1])
	}

	defined := definedSet(t, "428", "428.0", "428.2", "428.20", "428.21", "429")
	got = Descendants(MustParse("428"), defined)
	if strings.Join(decimals(got), ",") != "428.0,428.2,428.20,428.21" {
		t.Errorf("real Descendants(428) = %v", decimals(got))
	}
}

func TestExpandRange_ChildExact(t *testing.T) {
	got, err := ExpandRange(MustParse("100.99"), MustParse("101.01"), nil)
	if err != nil {
		t.Fatalf("ExpandRange: %v", err)
	}
	want := []string{"100.99", "101.00", "101.01"}
	if strings.Join(decimals(got), ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", decimals(got), want)
	}
	for _, c := range got {
		switch c.Decimal() {
		case "100", "100.0", "101", "101.0":
			t.Errorf("ancestor %s should not be included", c)
		}
	}
}

func TestExpandRange_MajorsIncludeEndSubtree(t *testing.T) {
	got, err := ExpandRange(MustParse("401"), MustParse("402"), nil)
	if err != nil {
		t.Fatalf("ExpandRange: %v", err)
	}
	if len(got) != 222 {
		t.Fatalf("got %d codes, want 222", len(got))
	}
	if got[0].Decimal() != "401" || got[len(got)-1].Decimal() != "402.99" {
		t.Errorf("bounds: %s .. %s", got[0], got[len(got)-1])
	}
}

func TestExpandRange_StartEndpointAlwaysIncluded(t *testing.T) {
	got, err := ExpandRange(MustParse("101"), MustParse("101.05"), nil)
	if err != nil {
		t.Fatalf("ExpandRange: %v", err)
	}
	want := "101,101.00,101.01,101.02,101.03,101.04,101.05"
	if strings.Join(decimals(got), ",") != want {
		t.Errorf("got %v, want %s", decimals(got), want)
	}
}

func TestExpandRange_VAndE(t *testing.T) {
	got, err := ExpandRange(MustParse("E800"), MustParse("E801"), nil)
	if err != nil {
		t.Fatalf("ExpandRange: %v", err)
	}
	if len(got) != 22 || got[len(got)-1].Decimal() != "E801.9" {
		t.Errorf("E800-E801: %v", decimals(got))
	}
	got, err = ExpandRange(MustParse("V90"), MustParse("V91"), nil)
	if err != nil {
		t.Fatalf("ExpandRange: %v", err)
	}
	if got[len(got)-1].Decimal() != "V91.99" {
		t.Errorf("V90-V91 last = %s", got[len(got)-1])
	}
}

func TestExpandRange_OnlyReal(t *testing.T) {
	defined := definedSet(t, "100", "100.0", "100.00", "100.01", "100.1", "101", "101.0", "101.1", "102")

	got, err := ExpandRange(MustParse("100.0"), MustParse("101"), defined)
	if err != nil {
		t.Fatalf("ExpandRange: %v", err)
	}
	want := "100.0,100.00,100.01,100.1,101,101.0,101.1"
	if strings.Join(decimals(got), ",") != want {
		t.Errorf("got %v, want %s", decimals(got), want)
	}

	got, err = ExpandRange(MustParse("100.01"), MustParse("101.0"), defined)
	if err != nil {
		t.Fatalf("ExpandRange: %v", err)
	}
	want = "100.01,100.1,101.0"
	if strings.Join(decimals(got), ",") != want {
		t.Errorf("got %v, want %s", decimals(got), want)
	}
}

func TestExpandRange_Errors(t *testing.T) {
	_, err := ExpandRange(MustParse("102"), MustParse("101"), nil)
	if !errors.Is(err, ErrRangeOrder) {
		t.Errorf("reversed range: got %v, want ErrRangeOrder", err)
	}
	_, err = ExpandRange(MustParse("999"), MustParse("V01"), nil)
	if !errors.Is(err, ErrRangeKindMismatch) {
		t.Errorf("mixed kinds: got %v, want ErrRangeKindMismatch", err)
	}
	var re *RangeError
	if !errors.As(err, &re) {
		t.Errorf("expected *RangeError, got %T", err)
	}
}

func TestRangeContains(t *testing.T) {
	r, err := ParseRange("100.99-101.01", Decimal)
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	expanded, _ := r.Expand(nil)
	inExpansion := make(map[string]bool)
	for _, c := range expanded {
		inExpansion[c.Short()] = true
	}
	for c, ok := MustParse("100"), true; ok && Compare(c, MustParse("102")) <= 0; c, ok = next(c) {
		if r.Contains(c) != inExpansion[c.Short()] {
			t.Errorf("Contains(%s) = %v, expansion says %v", c, r.Contains(c), inExpansion[c.Short()])
		}
	}
	if r.Contains(MustParse("V10")) {
		t.Error("range should not contain a V code")
	}
}

func TestParseRange_Errors(t *testing.T) {
	if _, err := ParseRange("401", Auto); !errors.Is(err, ErrMalformedCode) {
		t.Errorf("missing dash: got %v", err)
	}
	if _, err := ParseRange("405-401", Auto); !errors.Is(err, ErrRangeOrder) {
		t.Errorf("reversed: got %v", err)
	}
	if _, err := ParseRange("401-V10", Auto); !errors.Is(err, ErrRangeKindMismatch) {
		t.Errorf("mixed: got %v", err)
	}
}

func TestDefinedSet_Billable(t *testing.T) {
	defined := definedSet(t, "428", "428.0", "428.2", "428.20", "428.21", "V10")
	tests := []struct {
		code string
		want bool
	}{
		{"428", false},
		{"428.0", true},
		{"428.2", false},
		{"428.21", true},
		{"V10", true},
		{"428.9", false},
	}
	for _, tt := range tests {
		if got := defined.IsBillable(MustParse(tt.code)); got != tt.want {
			t.Errorf("IsBillable(%s) = %v, want %v", tt.code, got, tt.want)
		}
	}
	if defined.Len() != 6 {
		t.Errorf("Len = %d, want 6", defined.Len())
	}
}

func TestCondense(t *testing.T) {
	defined := definedSet(t, "428", "428.0", "428.1", "428.2", "428.20", "428.21", "429", "429.0")

	in := []Code{MustParse("428.0"), MustParse("428.1"), MustParse("428.20"), MustParse("428.21"), MustParse("429.0")}
	got := decimals(Condense(in, defined))
	if strings.Join(got, ",") != "428,429" {
		t.Errorf("Condense full = %v, want [428 429]", got)
	}

	in = []Code{MustParse("428.0"), MustParse("428.20"), MustParse("428.21")}
	got = decimals(Condense(in, defined))
	if strings.Join(got, ",") != "428.0,428.2" {
		t.Errorf("Condense partial = %v, want [428.0 428.2]", got)
	}

	in = []Code{MustParse("428.0"), MustParse("428.1")}
	got = decimals(Condense(in, nil))
	if strings.Join(got, ",") != "428.0,428.1" {
		t.Errorf("syntactic Condense = %v", got)
	}
}

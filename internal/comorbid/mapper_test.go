package comorbid

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/gyeh/icd9/internal/icd9"
	"github.com/gyeh/icd9/internal/visit"
)

func newMap(groups ...any) *Map {
	m := NewMap()
	for i := 0; i+1 < len(groups); i += 2 {
		m.Groups.Set(groups[i].(string), groups[i+1].([]string))
	}
	return m
}

func chfRecords() []visit.Record {
	return []visit.Record{
		{VisitID: "1", Code: "4280", POA: visit.Yes},
		{VisitID: "1", Code: "4011", POA: visit.No},
		{VisitID: "2", Code: "4280", POA: visit.NotApplicable},
	}
}

func TestMapComorbidities_POAFilters(t *testing.T) {
	m := newMap("CHF", []string{"428"})

	res, err := MapComorbidities(chfRecords(), m, Options{Filter: FilterYes})
	if err != nil {
		t.Fatalf("MapComorbidities: %v", err)
	}
	want := map[string][]string{"1": {"CHF"}}
	if got := res.AsMap(); !reflect.DeepEqual(got, want) {
		t.Errorf("FilterYes: got %v, want %v", got, want)
	}

	res, err = MapComorbidities(chfRecords(), m, Options{Filter: FilterNotNo})
	if err != nil {
		t.Fatalf("MapComorbidities: %v", err)
	}
	want = map[string][]string{"1": {"CHF"}, "2": {"CHF"}}
	if got := res.AsMap(); !reflect.DeepEqual(got, want) {
		t.Errorf("FilterNotNo: got %v, want %v", got, want)
	}
}

func TestFilter_NotNoBroaderThanYes(t *testing.T) {
	for _, p := range []visit.POA{visit.Exempt, visit.Unknown, visit.NotApplicable, visit.Missing} {
		if FilterYes.Keep(p) {
			t.Errorf("FilterYes kept %v", p)
		}
		if !FilterNotNo.Keep(p) {
			t.Errorf("FilterNotNo dropped %v", p)
		}
	}
	if FilterNotNo.Keep(visit.No) || !FilterNo.Keep(visit.No) || FilterNotYes.Keep(visit.Yes) {
		t.Error("No/NotYes filters misbehave")
	}
}

func TestMapComorbidities_AllFalseRowsAndOrder(t *testing.T) {
	m := newMap(
		"CHF", []string{"428"},
		"HTN", []string{"401-405"},
		"Mets", []string{"196.0-199.1"},
	)
	records := []visit.Record{
		{VisitID: "b", Code: "V10"},
		{VisitID: "a", Code: "402.01"},
		{VisitID: "b", Code: "428.0"},
		{VisitID: "c", Code: "E849.0"},
		{VisitID: "a", Code: "19889"},
	}
	res, err := MapComorbidities(records, m, Options{})
	if err != nil {
		t.Fatalf("MapComorbidities: %v", err)
	}
	if strings.Join(res.Visits, ",") != "b,a,c" {
		t.Errorf("first occurrence order: %v", res.Visits)
	}
	if got := res.GroupsFor("a"); !reflect.DeepEqual(got, []string{"HTN", "Mets"}) {
		t.Errorf("visit a groups = %v", got)
	}
	if got := res.GroupsFor("c"); len(got) != 0 {
		t.Errorf("visit c should have all-false row, got %v", got)
	}
	if _, ok := res.AsMap()["c"]; !ok {
		t.Error("visit c missing from AsMap")
	}
	if counts := res.Count(); !reflect.DeepEqual(counts, []int{1, 2, 0}) {
		t.Errorf("Count = %v", counts)
	}

	res, err = MapComorbidities(records, m, Options{SortByID: true})
	if err != nil {
		t.Fatalf("MapComorbidities: %v", err)
	}
	if strings.Join(res.Visits, ",") != "a,b,c" {
		t.Errorf("sorted order: %v", res.Visits)
	}
	if got := res.GroupsFor("b"); !reflect.DeepEqual(got, []string{"CHF"}) {
		t.Errorf("rows not moved with visits: b = %v", got)
	}
}

func TestMapComorbidities_RangeChildExact(t *testing.T) {
	m := newMap("X", []string{"100.99-101.01"})
	records := []visit.Record{
		{VisitID: "1", Code: "100"},
		{VisitID: "2", Code: "100.0"},
		{VisitID: "3", Code: "101.00"},
		{VisitID: "4", Code: "101"},
	}
	res, err := MapComorbidities(records, m, Options{})
	if err != nil {
		t.Fatalf("MapComorbidities: %v", err)
	}
	got := res.AsMap()
	if len(got["1"]) != 0 || len(got["2"]) != 0 || len(got["4"]) != 0 {
		t.Errorf("ancestors matched: %v", got)
	}
	if len(got["3"]) != 1 {
		t.Errorf("101.00 should match: %v", got)
	}
}

func TestMapComorbidities_InvalidCodesDoNotAbort(t *testing.T) {
	m := newMap("CHF", []string{"428"})
	records := []visit.Record{
		{VisitID: "1", Code: "V99"},
		{VisitID: "1", Code: "4281"},
		{VisitID: "2", Code: "junk"},
	}
	res, err := MapComorbidities(records, m, Options{})
	if err != nil {
		t.Fatalf("MapComorbidities: %v", err)
	}
	if len(res.Invalid) != 2 || res.Invalid[0].Index != 0 || res.Invalid[1].Index != 2 {
		t.Fatalf("Invalid = %+v", res.Invalid)
	}
	if !errors.Is(res.Invalid[0].Err, icd9.ErrInvalidCode) || !errors.Is(res.Invalid[1].Err, icd9.ErrMalformedCode) {
		t.Errorf("unexpected errors: %v, %v", res.Invalid[0].Err, res.Invalid[1].Err)
	}
	if got := res.GroupsFor("1"); !reflect.DeepEqual(got, []string{"CHF"}) {
		t.Errorf("visit 1 = %v", got)
	}
	if _, ok := res.AsMap()["2"]; !ok {
		t.Error("visit with only invalid codes should still appear")
	}
}

func TestMapComorbidities_BadPatternIsFatal(t *testing.T) {
	m := newMap("Bad", []string{"405-401"})
	_, err := MapComorbidities(chfRecords(), m, Options{})
	var pe *PatternError
	if !errors.As(err, &pe) || pe.Group != "Bad" {
		t.Fatalf("expected PatternError for group Bad, got %v", err)
	}
	if !errors.Is(err, icd9.ErrRangeOrder) {
		t.Errorf("expected ErrRangeOrder, got %v", err)
	}
}

func TestMapComorbidities_ParallelMatchesSequential(t *testing.T) {
	m := newMap(
		"CHF", []string{"428"},
		"HTN", []string{"401-405"},
		"Tumor", []string{"140-172", "174-195.8"},
	)
	var records []visit.Record
	codes := []string{"4280", "40291", "1500", "V10", "17490", "bad", "2500"}
	for i := 0; i < 500; i++ {
		records = append(records, visit.Record{
			VisitID: fmt.Sprintf("v%03d", i%97),
			Code:    codes[i%len(codes)],
		})
	}

	seq, err := MapComorbidities(records, m, Options{})
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	par, err := MapComorbidities(records, m, Options{Workers: 8})
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	if !reflect.DeepEqual(seq, par) {
		t.Error("parallel result differs from sequential")
	}
}

func TestResult_HierarchyAndScore(t *testing.T) {
	m := newMap(
		"DM", []string{"250.0-250.3"},
		"DMcx", []string{"250.4-250.9"},
		"CHF", []string{"428"},
	)
	records := []visit.Record{
		{VisitID: "1", Code: "25000"},
		{VisitID: "1", Code: "25040"},
		{VisitID: "2", Code: "25001"},
		{VisitID: "2", Code: "4280"},
	}
	res, err := MapComorbidities(records, m, Options{})
	if err != nil {
		t.Fatalf("MapComorbidities: %v", err)
	}
	res.ApplyHierarchy(map[string][]string{"DMcx": {"DM"}})
	if got := res.GroupsFor("1"); !reflect.DeepEqual(got, []string{"DMcx"}) {
		t.Errorf("visit 1 after hierarchy = %v", got)
	}
	if got := res.GroupsFor("2"); !reflect.DeepEqual(got, []string{"DM", "CHF"}) {
		t.Errorf("visit 2 after hierarchy = %v", got)
	}

	scores := res.Score(map[string]int{"DM": 1, "DMcx": 2, "CHF": 1})
	if !reflect.DeepEqual(scores, []int{2, 2}) {
		t.Errorf("Score = %v", scores)
	}
}

func TestParseFilter(t *testing.T) {
	tests := map[string]Filter{"": FilterNone, "yes": FilterYes, "No": FilterNo, "not-no": FilterNotNo, "notyes": FilterNotYes}
	for in, want := range tests {
		got, err := ParseFilter(in)
		if err != nil || got != want {
			t.Errorf("ParseFilter(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseFilter("sometimes"); err == nil {
		t.Error("expected error for unknown filter")
	}
}

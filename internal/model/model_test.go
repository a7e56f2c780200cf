package model

import (
	"testing"

	"github.com/google/uuid"

	"github.com/gyeh/icd9/internal/icd9"
)

func TestCodeKindByName(t *testing.T) {
	tests := []struct {
		name   string
		column string
		ok     bool
	}{
		{"numeric", "numeric", true},
		{"v", "v", true},
		{"E", "e", true},
		{"ICD10", "", false},
	}
	for _, tt := range tests {
		ck, ok := CodeKindByName(tt.name)
		if ok != tt.ok || ck.Column != tt.column {
			t.Errorf("CodeKindByName(%q) = %+v, %v", tt.name, ck, ok)
		}
	}
}

func TestCodeKindFor(t *testing.T) {
	for _, ck := range AllCodeKinds {
		if got := CodeKindFor(ck.Kind); got != ck {
			t.Errorf("CodeKindFor(%v) = %+v", ck.Kind, got)
		}
	}
	if CodeKindFor(icd9.ECode).Column != "e" {
		t.Error("E codes should map to column e")
	}
}

func TestStagingRow_CopyValuesMatchColumns(t *testing.T) {
	r := &StagingRow{IngestBatchID: uuid.New(), Code: "4280", Billable: true}
	vals := r.CopyValues()
	cols := StagingColumns()
	if len(vals) != len(cols) {
		t.Fatalf("%d values for %d columns", len(vals), len(cols))
	}
	for i, c := range cols {
		if c == "code" && vals[i] != "4280" {
			t.Errorf("code column holds %v", vals[i])
		}
		if c == "billable" && vals[i] != true {
			t.Errorf("billable column holds %v", vals[i])
		}
	}
}

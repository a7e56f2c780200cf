package model

import (
	"strings"

	"github.com/gyeh/icd9/internal/icd9"
)

// CodeKind describes one of the three ICD-9-CM code spaces.
type CodeKind struct {
	Name   string // config name, e.g. "V"
	Kind   icd9.Kind
	Column string // value stored in the kind column
}

// AllCodeKinds lists the code spaces in canonical order.
var AllCodeKinds = []CodeKind{
	{Name: "numeric", Kind: icd9.Numeric, Column: "numeric"},
	{Name: "V", Kind: icd9.VCode, Column: "v"},
	{Name: "E", Kind: icd9.ECode, Column: "e"},
}

// CodeKindByName returns the CodeKind for the given name, or ok=false.
// Names are matched case-insensitively.
func CodeKindByName(name string) (CodeKind, bool) {
	for _, ck := range AllCodeKinds {
		if strings.EqualFold(ck.Name, name) {
			return ck, true
		}
	}
	return CodeKind{}, false
}

// CodeKindFor returns the descriptor of k.
func CodeKindFor(k icd9.Kind) CodeKind {
	for _, ck := range AllCodeKinds {
		if ck.Kind == k {
			return ck
		}
	}
	return AllCodeKinds[0]
}

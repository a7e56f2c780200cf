package visit

import (
	"errors"
	"fmt"
	"strings"
)

// POA is the present-on-arrival flag attached to a diagnosis.
type POA int

const (
	Missing POA = iota
	Yes
	No
	NotApplicable
	Exempt
	Unknown
)

var poaNames = [...]string{
	Missing:       "missing",
	Yes:           "Y",
	No:            "N",
	NotApplicable: "X",
	Exempt:        "E",
	Unknown:       "U",
}

func (p POA) String() string {
	if p < 0 || int(p) >= len(poaNames) {
		return fmt.Sprintf("POA(%d)", int(p))
	}
	return poaNames[p]
}

// ErrInvalidPOA marks a POA token outside the known vocabulary.
var ErrInvalidPOA = errors.New("invalid present-on-arrival flag")

// ParsePOA maps a raw POA token to a flag, case-insensitively:
//
//	Y, yes                        -> Yes
//	N, no                         -> No
//	U, W, unknown                 -> Unknown
//	X, NA, N/A, not applicable    -> NotApplicable
//	E, 1, exempt                  -> Exempt
//	empty                         -> Missing
func ParsePOA(token string) (POA, error) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "":
		return Missing, nil
	case "Y", "YES":
		return Yes, nil
	case "N", "NO":
		return No, nil
	case "U", "W", "UNKNOWN":
		return Unknown, nil
	case "X", "NA", "N/A", "NOT APPLICABLE":
		return NotApplicable, nil
	case "E", "1", "EXEMPT":
		return Exempt, nil
	}
	return Missing, fmt.Errorf("%w: %q", ErrInvalidPOA, token)
}

// Record is one diagnosis code attached to a visit. Code is kept raw; it is
// validated when the record is mapped.
type Record struct {
	VisitID string
	Code    string
	POA     POA
}

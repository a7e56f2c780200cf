package icd9

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind is the ICD-9 code family: numeric diagnosis codes, V supplementary
// codes or E external-cause codes.
type Kind int

const (
	Numeric Kind = iota
	VCode
	ECode
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case VCode:
		return "V"
	case ECode:
		return "E"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Form tells Parse how to read a raw code string.
type Form int

const (
	// Auto reads a code as decimal when it contains a point, short otherwise.
	Auto Form = iota
	Short
	Decimal
)

// Code is a single parsed ICD-9-CM code.
type Code struct {
	Kind  Kind
	Major string // canonical: "001", "V10", "E849"
	Minor string // 0-2 digits (0-1 for E codes)
	Raw   string // input as given to Parse, empty for derived codes
}

// majorDigits is the number of digits after the kind prefix in a canonical major.
func majorDigits(k Kind) int {
	if k == VCode {
		return 2
	}
	return 3
}

// maxMinor is the deepest minor supported by the kind.
func maxMinor(k Kind) int {
	if k == ECode {
		return 1
	}
	return 2
}

func majorBounds(k Kind) (lo, hi int) {
	switch k {
	case VCode:
		return 1, 91
	default:
		return 0, 999
	}
}

func kindPrefix(k Kind) string {
	switch k {
	case VCode:
		return "V"
	case ECode:
		return "E"
	}
	return ""
}

// kindOf detects the V/E prefix, ignoring leading spaces and case.
func kindOf(s string) Kind {
	s = strings.TrimLeft(s, " ")
	if s == "" {
		return Numeric
	}
	switch s[0] {
	case 'V', 'v':
		return VCode
	case 'E', 'e':
		return ECode
	}
	return Numeric
}

// Parse reads raw as an ICD-9 code. A short code of three characters or
// fewer (four for E codes) is always a bare major: "020" is major 020, never
// 02.0. Errors wrap ErrMalformedCode or ErrInvalidCode.
func Parse(raw string, form Form) (Code, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Code{}, codeErr(raw, ErrMalformedCode, "empty code")
	}
	kind := kindOf(s)
	body := s
	if kind != Numeric {
		body = s[1:]
	}
	if form == Auto {
		form = Short
		if strings.Contains(body, ".") {
			form = Decimal
		}
	}

	n := majorDigits(kind)
	var major, minor string
	switch form {
	case Decimal:
		if i := strings.IndexByte(body, '.'); i >= 0 {
			major, minor = body[:i], body[i+1:]
		} else {
			major = body
		}
	case Short:
		if strings.Contains(body, ".") {
			return Code{}, codeErr(raw, ErrMalformedCode, "decimal point in short code")
		}
		if len(body) <= n {
			major = body
		} else {
			major, minor = body[:n], body[n:]
		}
	default:
		return Code{}, codeErr(raw, ErrMalformedCode, "unknown form")
	}

	if major == "" || !isDigits(major) {
		return Code{}, codeErr(raw, ErrMalformedCode, "major must be digits")
	}
	if !isDigits(minor) {
		return Code{}, codeErr(raw, ErrMalformedCode, "minor must be digits")
	}
	if len(major) > n {
		return Code{}, codeErr(raw, ErrInvalidCode, "major too long")
	}
	if len(minor) > maxMinor(kind) {
		return Code{}, codeErr(raw, ErrInvalidCode, "minor too long")
	}

	v, _ := strconv.Atoi(major)
	if lo, hi := majorBounds(kind); v < lo || v > hi {
		return Code{}, codeErr(raw, ErrInvalidCode, "major out of range")
	}

	return Code{
		Kind:  kind,
		Major: formatMajor(kind, v),
		Minor: minor,
		Raw:   raw,
	}, nil
}

// MustParse is Parse for literals known to be valid. It panics on error.
func MustParse(raw string) Code {
	c, err := Parse(raw, Auto)
	if err != nil {
		panic(err)
	}
	return c
}

// IsValid reports whether raw parses as a code in the given form. It never fails.
func IsValid(raw string, form Form) bool {
	_, err := Parse(raw, form)
	return err == nil
}

// IsValidMajor reports whether raw is a bare three character major.
func IsValidMajor(raw string) bool {
	c, err := Parse(raw, Auto)
	return err == nil && c.IsMajor() && !strings.Contains(raw, ".")
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func formatMajor(k Kind, v int) string {
	return kindPrefix(k) + fmt.Sprintf("%0*d", majorDigits(k), v)
}

func (c Code) majorValue() int {
	v, _ := strconv.Atoi(strings.TrimLeft(c.Major, "VE"))
	return v
}

// Short renders the code without a decimal point, e.g. "4280".
func (c Code) Short() string {
	return c.Major + c.Minor
}

// Decimal renders the code with a decimal point before the minor, e.g.
// "428.0". The point is omitted for a bare major.
func (c Code) Decimal() string {
	if c.Minor == "" {
		return c.Major
	}
	return c.Major + "." + c.Minor
}

func (c Code) String() string {
	return c.Decimal()
}

// IsMajor reports whether the code has no minor part.
func (c Code) IsMajor() bool {
	return c.Minor == ""
}

// MajorCode returns the bare major of c.
func (c Code) MajorCode() Code {
	return Code{Kind: c.Kind, Major: c.Major}
}

// Equal compares canonical identity, ignoring Raw.
func (c Code) Equal(o Code) bool {
	return c.Kind == o.Kind && c.Major == o.Major && c.Minor == o.Minor
}

// Compare orders codes numeric < V < E, then by major value, then by minor
// so that every code sorts directly before its own extensions.
func Compare(a, b Code) int {
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}
	if av, bv := a.majorValue(), b.majorValue(); av != bv {
		if av < bv {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Minor, b.Minor)
}

// Sort orders codes in place by Compare.
func Sort(codes []Code) {
	slices.SortStableFunc(codes, Compare)
}

// ShortToDecimal converts a short code string to decimal form.
func ShortToDecimal(s string) (string, error) {
	c, err := Parse(s, Short)
	if err != nil {
		return "", err
	}
	return c.Decimal(), nil
}

// DecimalToShort converts a decimal code string to short form.
func DecimalToShort(s string) (string, error) {
	c, err := Parse(s, Decimal)
	if err != nil {
		return "", err
	}
	return c.Short(), nil
}

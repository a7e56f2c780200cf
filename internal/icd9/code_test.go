package icd9

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw       string
		form      Form
		kind      Kind
		major     string
		minor     string
		wantShort string
		wantDec   string
	}{
		{"4280", Short, Numeric, "428", "0", "4280", "428.0"},
		{"428.0", Decimal, Numeric, "428", "0", "4280", "428.0"},
		{"428.0", Auto, Numeric, "428", "0", "4280", "428.0"},
		{"020", Short, Numeric, "020", "", "020", "020"},
		{"20", Short, Numeric, "020", "", "020", "020"},
		{"1", Auto, Numeric, "001", "", "001", "001"},
		{" 0032 ", Short, Numeric, "003", "2", "0032", "003.2"},
		{"25001", Short, Numeric, "250", "01", "25001", "250.01"},
		{"100.", Decimal, Numeric, "100", "", "100", "100"},
		{"v10", Short, VCode, "V10", "", "V10", "V10"},
		{"V1", Short, VCode, "V01", "", "V01", "V01"},
		{"V1091", Short, VCode, "V10", "91", "V1091", "V10.91"},
		{"V10.91", Auto, VCode, "V10", "91", "V1091", "V10.91"},
		{"E8490", Short, ECode, "E849", "0", "E8490", "E849.0"},
		{"e849.0", Auto, ECode, "E849", "0", "E8490", "E849.0"},
		{"E85", Short, ECode, "E085", "", "E085", "E085"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c, err := Parse(tt.raw, tt.form)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.raw, err)
			}
			if c.Kind != tt.kind || c.Major != tt.major || c.Minor != tt.minor {
				t.Errorf("got %v %q %q, want %v %q %q", c.Kind, c.Major, c.Minor, tt.kind, tt.major, tt.minor)
			}
			if c.Short() != tt.wantShort {
				t.Errorf("Short: got %q, want %q", c.Short(), tt.wantShort)
			}
			if c.Decimal() != tt.wantDec {
				t.Errorf("Decimal: got %q, want %q", c.Decimal(), tt.wantDec)
			}
			if c.Raw != tt.raw {
				t.Errorf("Raw: got %q, want %q", c.Raw, tt.raw)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		raw  string
		form Form
		want error
	}{
		{"", Auto, ErrMalformedCode},
		{"   ", Auto, ErrMalformedCode},
		{"4A0", Short, ErrMalformedCode},
		{"garbage", Auto, ErrMalformedCode},
		{"V", Auto, ErrMalformedCode},
		{"428.0", Short, ErrMalformedCode},
		{"428.x", Decimal, ErrMalformedCode},
		{"4280", Decimal, ErrInvalidCode},
		{"428.001", Decimal, ErrInvalidCode},
		{"428001", Short, ErrInvalidCode},
		{"V99", Auto, ErrInvalidCode},
		{"V00", Auto, ErrInvalidCode},
		{"E849.01", Decimal, ErrInvalidCode},
		{"E84901", Short, ErrInvalidCode},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, err := Parse(tt.raw, tt.form)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse(%q): got %v, want %v", tt.raw, err, tt.want)
			}
			var ce *CodeError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *CodeError, got %T", err)
			}
			if IsValid(tt.raw, tt.form) {
				t.Errorf("IsValid(%q) = true, want false", tt.raw)
			}
		})
	}
}

func TestIsValid_NeverPanics(t *testing.T) {
	for _, raw := range []string{"", ".", "..", "V.", "E.", "-1", "é", "\x00", "999999999", "V9.9.9"} {
		_ = IsValid(raw, Auto)
		_ = IsValid(raw, Short)
		_ = IsValid(raw, Decimal)
	}
}

func TestIsValidMajor(t *testing.T) {
	for _, raw := range []string{"428", "V10", "E849", "1"} {
		if !IsValidMajor(raw) {
			t.Errorf("IsValidMajor(%q) = false", raw)
		}
	}
	for _, raw := range []string{"4280", "428.", "V99", "x"} {
		if IsValidMajor(raw) {
			t.Errorf("IsValidMajor(%q) = true", raw)
		}
	}
}

func TestShortDecimalRoundTrip(t *testing.T) {
	for _, s := range []string{"001", "0010", "00100", "4280", "V1091", "V10", "E8490", "E849", "99999"} {
		dec, err := ShortToDecimal(s)
		if err != nil {
			t.Fatalf("ShortToDecimal(%q): %v", s, err)
		}
		back, err := DecimalToShort(dec)
		if err != nil {
			t.Fatalf("DecimalToShort(%q): %v", dec, err)
		}
		if back != s {
			t.Errorf("round trip %q -> %q -> %q", s, dec, back)
		}
	}
}

func TestCompare(t *testing.T) {
	ordered := []string{"001", "001.0", "001.00", "001.01", "001.1", "002", "999.99", "V01", "V10.9", "V91", "E000", "E849.9"}
	for i := 0; i+1 < len(ordered); i++ {
		a, b := MustParse(ordered[i]), MustParse(ordered[i+1])
		if Compare(a, b) >= 0 {
			t.Errorf("Compare(%s, %s) = %d, want < 0", a, b, Compare(a, b))
		}
		if Compare(b, a) <= 0 {
			t.Errorf("Compare(%s, %s) = %d, want > 0", b, a, Compare(b, a))
		}
	}
	if Compare(MustParse("428.0"), MustParse("4280")) != 0 {
		t.Error("decimal and short spellings should compare equal")
	}
}

func TestSort(t *testing.T) {
	codes := []Code{MustParse("E849"), MustParse("V10"), MustParse("428.1"), MustParse("428"), MustParse("010")}
	Sort(codes)
	want := []string{"010", "428", "428.1", "V10", "E849"}
	for i, c := range codes {
		if c.Decimal() != want[i] {
			t.Errorf("position %d: got %s, want %s", i, c.Decimal(), want[i])
		}
	}
}

package ingest

import (
	"testing"
	"time"
)

func TestNormString(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		maxLen int
		want   *string
	}{
		{"plain", "hello", 100, strPtr("hello")},
		{"trims whitespace", "  hello  ", 100, strPtr("hello")},
		{"blank is nil", "   ", 100, nil},
		{"missing is nil", nil, 100, nil},
		{"na is nil", "na", 100, nil},
		{"NA is nil", "NA", 100, nil},
		{"Na is nil", "Na", 100, nil},
		{"truncates to max runes", "abcdefgh", 5, strPtr("abcde")},
		{"numeric cell", 42, 100, strPtr("42")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normString(Row{"h": tt.value}, "h", tt.maxLen)
			if !eqStrPtr(got, tt.want) {
				t.Errorf("normString(%v) = %v, want %v", tt.value, deref(got), deref(tt.want))
			}
		})
	}
}

func TestStripNonNumeric(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"₹1,234.50", "1234.50"},
		{"Rs. 99", ".99"},
		{"-12.5", "-12.5"},
		{"1 234", "1234"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := stripNonNumeric(tt.in); got != tt.want {
			t.Errorf("stripNonNumeric(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormFloat(t *testing.T) {
	if got := normFloat(Row{"h": "₹1,234.50"}, "h"); got == nil || *got != 1234.50 {
		t.Errorf("currency amount: got %v, want 1234.50", deref2(got))
	}
	if got := normFloat(Row{"h": 12.5}, "h"); got == nil || *got != 12.5 {
		t.Errorf("typed float: got %v, want 12.5", deref2(got))
	}
	if got := normFloat(Row{"h": "n/a text"}, "h"); got != nil {
		t.Errorf("garbage: got %v, want nil", *got)
	}
	if got := normFloat(Row{"h": ""}, "h"); got != nil {
		t.Errorf("blank: got %v, want nil", *got)
	}
}

func TestNormInt(t *testing.T) {
	if got := normInt(Row{"h": "2.0"}, "h"); got == nil || *got != 2 {
		t.Errorf("decimal rendering: got %v, want 2", got)
	}
	if got := normInt(Row{"h": "3"}, "h"); got == nil || *got != 3 {
		t.Errorf("plain: got %v, want 3", got)
	}
	if got := normInt(Row{"h": nil}, "h"); got != nil {
		t.Errorf("missing: got %v, want nil", *got)
	}
}

func TestNormIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  *string
	}{
		{"plain id", "404-1234567-1234567", strPtr("404-1234567-1234567")},
		{"scientific string", "1.2345E+8", strPtr("123450000")},
		{"scientific lowercase", "1.2345e+8", strPtr("123450000")},
		{"scientific no plus", "5E3", strPtr("5000")},
		{"float tail", "123456789.0", strPtr("123456789")},
		{"float tail zeros", "123456789.000", strPtr("123456789")},
		{"real fraction kept", "12.34", strPtr("12.34")},
		{"na", "na", nil},
		{"blank", "  ", nil},
		{"typed float cell", 123456789.0, strPtr("123456789")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normIdentifier(Row{"h": tt.value}, "h")
			if !eqStrPtr(got, tt.want) {
				t.Errorf("normIdentifier(%v) = %v, want %v", tt.value, deref(got), deref(tt.want))
			}
		})
	}
}

func TestExpandScientific(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1.2345E+8", "123450000", true},
		{"1.2345E+4", "12345", true},
		{"9E0", "9", true},
		{"1.23E+1", "", false}, // fractional remainder
		{"1E-3", "", false},    // negative exponent
		{"E8", "", false},
		{"abcE8", "", false},
		{"12345", "", false},
	}
	for _, tt := range tests {
		got, ok := expandScientific(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("expandScientific(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNormDate(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    time.Time
		wantNil bool
	}{
		{"iso date", "2025-03-15", date(2025, 3, 15), false},
		{"iso datetime", "2025-03-15 10:30:00", time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC), false},
		{"day first slash", "15/03/2025", date(2025, 3, 15), false},
		{"day first dash", "15-03-2025", date(2025, 3, 15), false},
		{"two digit year", "15/03/25", date(2025, 3, 15), false},
		{"with time", "15/03/2025 14:05", time.Date(2025, 3, 15, 14, 5, 0, 0, time.UTC), false},
		{"with seconds", "15/03/2025 14:05:09", time.Date(2025, 3, 15, 14, 5, 9, 0, time.UTC), false},
		{"impossible date", "31/02/2025", time.Time{}, true},
		{"month out of range", "15/13/2025", time.Time{}, true},
		{"garbage", "soon", time.Time{}, true},
		{"na", "NA", time.Time{}, true},
		{"blank", "", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normDate(Row{"h": tt.value}, "h")
			if tt.wantNil {
				if got != nil {
					t.Errorf("normDate(%v) = %v, want nil", tt.value, *got)
				}
				return
			}
			if got == nil || !got.Equal(tt.want) {
				t.Errorf("normDate(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}

	native := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if got := normDate(Row{"h": native}, "h"); got == nil || !got.Equal(native) {
		t.Errorf("native time.Time: got %v, want %v", got, native)
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func eqStrPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}

func deref2(p *float64) any {
	if p == nil {
		return "<nil>"
	}
	return *p
}

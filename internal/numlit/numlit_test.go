package numlit

import (
	"errors"
	"math"
	"testing"
)

func TestParseIntLiteral(t *testing.T) {
	tests := []struct {
		lit  string
		want int64
	}{
		{"0", 0},
		{"42", 42},
		{"0x10", 16},
		{"0XfF", 255},
		{"0x7fffffffffffffff", math.MaxInt64},
		{"0xffffffffffffffff", -1},
		{"0x10000000000000001", 1},
		{"9223372036854775807", math.MaxInt64},
	}

	for _, tt := range tests {
		got, err := ParseIntLiteral(tt.lit)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.lit, err)
		}
		if got != tt.want {
			t.Fatalf("%q: expected %d, got %d", tt.lit, tt.want, got)
		}
	}
}

func TestParseIntLiteralErrors(t *testing.T) {
	if _, err := ParseIntLiteral("9223372036854775808"); !errors.Is(err, ErrIntRange) {
		t.Fatalf("expected ErrIntRange, got %v", err)
	}
	for _, lit := range []string{"", "0x", "12a", "0xg"} {
		if _, err := ParseIntLiteral(lit); err == nil || errors.Is(err, ErrIntRange) {
			t.Fatalf("%q: expected invalid literal error, got %v", lit, err)
		}
	}
}

func TestParseFloatLiteral(t *testing.T) {
	tests := []struct {
		lit  string
		want float64
	}{
		{"3.14", 3.14},
		{"1.", 1},
		{".5", 0.5},
		{"1e3", 1000},
		{"2.5E-1", 0.25},
		{"7e+2", 700},
		{"1e400", math.Inf(1)},
	}

	for _, tt := range tests {
		got, err := ParseFloatLiteral(tt.lit)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.lit, err)
		}
		if got != tt.want {
			t.Fatalf("%q: expected %v, got %v", tt.lit, tt.want, got)
		}
	}
}

func TestParseFloatLiteralErrors(t *testing.T) {
	for _, lit := range []string{".", "1e", "1e+", "0x1.8", "1.2.3", "1ex"} {
		if _, err := ParseFloatLiteral(lit); err == nil {
			t.Fatalf("%q: expected error", lit)
		}
	}
}

func TestNormalizeFloat(t *testing.T) {
	tests := []struct {
		lit  string
		want string
	}{
		{"1.", "1.0"},
		{".5", "0.5"},
		{"3.25", "3.25"},
		{"1E3", "1e3"},
		{".5e-2", "0.5e-2"},
		{"2.e+1", "2.0e+1"},
	}

	for _, tt := range tests {
		got, err := normalizeFloat(tt.lit)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.lit, err)
		}
		if got != tt.want {
			t.Fatalf("%q: expected %q, got %q", tt.lit, tt.want, got)
		}
	}
}

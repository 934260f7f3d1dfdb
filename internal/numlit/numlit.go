package numlit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrIntRange is returned for decimal integer literals that do not fit in
// an int64. Callers fall back to reading the literal as a float.
var ErrIntRange = errors.New("integer literal out of range")

// splitIntLiteral returns the base of lit and its digits without the
// 0x prefix.
func splitIntLiteral(lit string) (int, string, error) {
	base := 10
	digits := lit
	if hasHexPrefix(lit) {
		base = 16
		digits = lit[2:]
	}
	if err := validateDigits(digits, base); err != nil {
		return 0, "", fmt.Errorf("invalid integer literal: %w", err)
	}
	return base, digits, nil
}

func hasHexPrefix(lit string) bool {
	return len(lit) >= 2 && lit[0] == '0' && (lit[1] == 'x' || lit[1] == 'X')
}

// ParseIntLiteral parses a decimal or 0x-prefixed hexadecimal literal.
// Hexadecimal literals wrap around modulo 2^64, so 0xffffffffffffffff is -1.
func ParseIntLiteral(lit string) (int64, error) {
	base, digits, err := splitIntLiteral(lit)
	if err != nil {
		return 0, err
	}
	if base == 16 {
		var v uint64
		for i := 0; i < len(digits); i++ {
			v = v<<4 | uint64(HexValue(digits[i]))
		}
		return int64(v), nil
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return 0, ErrIntRange
		}
		return 0, fmt.Errorf("invalid integer literal")
	}
	return v, nil
}

// normalizeFloat rewrites lit into a form strconv accepts: "1." becomes
// "1.0" and ".5" becomes "0.5".
func normalizeFloat(lit string) (string, error) {
	if hasHexPrefix(lit) {
		return "", fmt.Errorf("float literal cannot use base prefix")
	}

	mantissa, expPart, hasExp := strings.Cut(strings.ReplaceAll(lit, "E", "e"), "e")
	if hasExp && expPart == "" {
		return "", fmt.Errorf("exponent requires digits")
	}

	norm, err := normalizeMantissa(mantissa)
	if err != nil {
		return "", err
	}
	if !hasExp {
		return norm, nil
	}

	sign := ""
	if expPart[0] == '+' || expPart[0] == '-' {
		sign = expPart[:1]
		expPart = expPart[1:]
	}
	if err := validateDigits(expPart, 10); err != nil {
		return "", fmt.Errorf("invalid float literal: %w", err)
	}
	return norm + "e" + sign + expPart, nil
}

func ParseFloatLiteral(lit string) (float64, error) {
	norm, err := normalizeFloat(lit)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(norm, 64)
	if err != nil {
		var numErr *strconv.NumError
		// Overflow saturates to ±Inf, which is what Lua does too.
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return v, nil
		}
		return 0, fmt.Errorf("invalid float literal")
	}
	return v, nil
}

// normalizeMantissa accepts "1.5", "1." and ".5" but not a lone ".".
func normalizeMantissa(mantissa string) (string, error) {
	if mantissa == "" {
		return "", fmt.Errorf("float literal requires digits")
	}
	intPart, fracPart, hasDot := strings.Cut(mantissa, ".")
	if !hasDot {
		if err := validateDigits(mantissa, 10); err != nil {
			return "", fmt.Errorf("invalid float literal: %w", err)
		}
		return mantissa, nil
	}
	if intPart == "" && fracPart == "" {
		return "", fmt.Errorf("float literal requires digits")
	}
	if intPart == "" {
		intPart = "0"
	}
	if fracPart == "" {
		fracPart = "0"
	}
	if err := validateDigits(intPart, 10); err != nil {
		return "", fmt.Errorf("invalid float literal: %w", err)
	}
	if err := validateDigits(fracPart, 10); err != nil {
		return "", fmt.Errorf("invalid float literal: %w", err)
	}
	return intPart + "." + fracPart, nil
}

func validateDigits(s string, base int) error {
	if s == "" {
		return fmt.Errorf("digits required")
	}
	for i := 0; i < len(s); i++ {
		if !IsDigitForBase(s[i], base) {
			return fmt.Errorf("invalid digit %q for base %d", s[i], base)
		}
	}
	return nil
}

func IsDigitForBase(ch byte, base int) bool {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch-'0') < base
	case base == 16 && ch >= 'a' && ch <= 'f':
		return true
	case base == 16 && ch >= 'A' && ch <= 'F':
		return true
	default:
		return false
	}
}

// HexValue returns the value of a hexadecimal digit.
func HexValue(ch byte) byte {
	switch {
	case ch >= '0' && ch <= '9':
		return ch - '0'
	case ch >= 'a' && ch <= 'f':
		return ch - 'a' + 10
	default:
		return ch - 'A' + 10
	}
}

package inibind

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Integer literals come in three spellings beyond plain decimal:
//
//	prefixed:  0xFF  0o77  0b101   (case-insensitive)
//	suffixed:  FFh   77o   101b    (case-insensitive)
//	decimal:   255
//
// Prefix detection wins over suffix detection so that "0b11" is binary
// three rather than an octal literal ending in "b".  A suffix is only
// honored when every preceding character is a valid digit for the base
// the suffix names; "0h" is therefore hexadecimal zero while a plain
// "100" stays decimal.  Surrounding whitespace is always tolerated.

// splitNumeral picks the base for a literal whose sign has already
// been stripped and returns the digit body.  An unrecognized spelling
// comes back as base 10 with the input unchanged so strconv can
// produce the syntax error.
func splitNumeral(s string) (base int, body string) {
	if len(s) >= 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			return 16, s[2:]
		case 'o', 'O':
			return 8, s[2:]
		case 'b', 'B':
			return 2, s[2:]
		}
	}
	if len(s) >= 2 {
		var suffixBase int
		switch s[len(s)-1] {
		case 'h', 'H':
			suffixBase = 16
		case 'o', 'O':
			suffixBase = 8
		case 'b', 'B':
			suffixBase = 2
		}
		if suffixBase != 0 && validDigits(s[:len(s)-1], suffixBase) {
			return suffixBase, s[:len(s)-1]
		}
	}
	return 10, s
}

func validDigits(body string, base int) bool {
	if body == "" {
		return false
	}
	for i := 0; i < len(body); i++ {
		var d int
		switch c := body[i]; {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case c >= 'a' && c <= 'z':
			d = int(c-'a') + 10
		case c >= 'A' && c <= 'Z':
			d = int(c-'A') + 10
		default:
			return false
		}
		if d >= base {
			return false
		}
	}
	return true
}

// hasBaseIndicator reports whether text carries a prefix or suffix
// base marker.  The float converter uses it to decide whether a
// failed decimal parse deserves a second chance as an integer literal.
func hasBaseIndicator(text string) bool {
	s := strings.TrimSpace(text)
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	base, _ := splitNumeral(s)
	return base != 10
}

// ParseInt decodes a signed integer literal in any supported spelling,
// range-checked against bitSize (8, 16, 32, or 64).  Syntax problems
// come back as FormatError, out-of-range values as OverflowError.
func ParseInt(text string, bitSize int) (int64, error) {
	s := strings.TrimSpace(text)
	negative := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}
	base, body := splitNumeral(s)
	u, err := strconv.ParseUint(body, base, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, OverflowError(errors.Errorf("%q does not fit in %d bits", text, bitSize))
		}
		return 0, FormatError(errors.Errorf("%q is not a valid integer literal", text))
	}
	limit := uint64(1) << uint(bitSize-1)
	if negative {
		if u > limit {
			return 0, OverflowError(errors.Errorf("%q does not fit in %d bits", text, bitSize))
		}
		// at u == limit this wraps to exactly the minimum value
		return -int64(u), nil
	}
	if u >= limit {
		return 0, OverflowError(errors.Errorf("%q does not fit in %d bits", text, bitSize))
	}
	return int64(u), nil
}

// ParseUint is ParseInt for unsigned destinations.  A leading "+" is
// accepted, a minus sign is not.
func ParseUint(text string, bitSize int) (uint64, error) {
	s := strings.TrimSpace(text)
	if len(s) > 0 && s[0] == '+' {
		s = s[1:]
	}
	base, body := splitNumeral(s)
	u, err := strconv.ParseUint(body, base, bitSize)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, OverflowError(errors.Errorf("%q does not fit in %d bits", text, bitSize))
		}
		return 0, FormatError(errors.Errorf("%q is not a valid integer literal", text))
	}
	return u, nil
}

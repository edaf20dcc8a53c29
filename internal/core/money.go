// Package core holds the entry domain: validation, money parsing and the
// monetary input formatting used while typing.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

const maxSafeInt64 = (1<<63 - 1) / 100

// ParseDecimalToCents converts a decimal string to cents.
//
// Dot (12.34) and comma (12,34) are both accepted as decimal separator and
// the third decimal is rounded half-up. Zero and negative values are errors.
//
//	ParseDecimalToCents("12.345") -> 1235, nil
//	ParseDecimalToCents("12,344") -> 1234, nil
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if strings.Contains(fracPart, ".") {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return 0, ErrInvalidAmount
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var frac int64
	for i := 0; i < 2 && i < len(fracPart); i++ {
		frac = frac*10 + int64(fracPart[i]-'0')
	}
	if len(fracPart) == 1 {
		frac *= 10
	}
	if len(fracPart) > 2 && fracPart[2] >= '5' {
		frac++
	}
	cents := iv*100 + frac
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// ParseAmount accepts what FormatMonetaryInput produces ("12,349.00") as
// well as plain decimals. Commas are thousands separators only when a dot
// is present.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", "")
	}
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents}, nil
}

// FormatMonetaryInput turns whatever was typed into a cents amount. Only
// digits count, leading zeros are dropped, and trailing digits are cut
// until the number fits in an int64.
//
//	"fas1234"             -> "12.34"
//	"fas0001s234juhda900" -> "12,349.00"
func FormatMonetaryInput(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := strings.TrimLeft(b.String(), "0")
	if len(digits) > 19 {
		digits = digits[:19]
	}
	var n int64
	for digits != "" {
		v, err := strconv.ParseInt(digits, 10, 64)
		if err == nil {
			n = v
			break
		}
		digits = digits[:len(digits)-1]
	}
	return FormatCents(n)
}

// FormatCents renders non-negative cents as "1,234.56".
func FormatCents(cents int64) string {
	neg := cents < 0
	s := strconv.FormatUint(abs(cents), 10)
	for len(s) < 3 {
		s = "0" + s
	}
	whole, frac := s[:len(s)-2], s[len(s)-2:]
	out := groupThousands(whole) + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func abs(v int64) uint64 {
	if v < 0 {
		return uint64(-(v + 1)) + 1
	}
	return uint64(v)
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

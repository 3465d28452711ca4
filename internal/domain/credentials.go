package domain

import "strings"

// CUILDigits is the number of digits in a complete CUIL.
const CUILDigits = 11

// Credentials holds the operator's FirmAR credentials. The CUIL is stored in
// its formatted display form; NormalizeCUIL recovers the digit-only value.
type Credentials struct {
	CUIL     string `json:"cuil"`
	Password string `json:"-"`
	PIN      string `json:"-"`
}

// NormalizeCUIL strips every non-digit character from a CUIL string.
func NormalizeCUIL(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCUIL renders a CUIL progressively in the XX-XXXXXXXX-X grouping.
// Up to two digits are shown as typed, three to ten get the first hyphen,
// and a complete value gets both. Input beyond eleven digits is truncated.
func FormatCUIL(raw string) string {
	digits := NormalizeCUIL(raw)
	if len(digits) > CUILDigits {
		digits = digits[:CUILDigits]
	}
	switch {
	case len(digits) <= 2:
		return digits
	case len(digits) <= 10:
		return digits[:2] + "-" + digits[2:]
	default:
		return digits[:2] + "-" + digits[2:10] + "-" + digits[10:]
	}
}

// IsCUILComplete reports whether the value contains exactly eleven digits.
func IsCUILComplete(cuil string) bool {
	return len(NormalizeCUIL(cuil)) == CUILDigits
}

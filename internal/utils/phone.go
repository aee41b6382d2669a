package utils

import (
	"regexp"
	"strings"
)

// CountryPrefix is the dialing prefix prepended to national numbers.
const CountryPrefix = "91"

var (
	nationalPhoneRe = regexp.MustCompile(`^[6-9]\d{9}$`)
	emailRe         = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	separatorRe     = regexp.MustCompile(`[\s\-()+]`)
)

// NormalizePhone converts arbitrary phone input into the canonical
// country-prefixed dial form ("91" + 10 digits). Separators and a
// leading "+" are stripped; a number already carrying the prefix is
// returned as-is. The function never fails: validity is judged
// separately, before normalization.
func NormalizePhone(raw string) string {
	cleaned := separatorRe.ReplaceAllString(raw, "")
	cleaned = strings.TrimPrefix(cleaned, "+")

	if strings.HasPrefix(cleaned, CountryPrefix) && len(cleaned) == 12 {
		return cleaned
	}
	return CountryPrefix + cleaned
}

// ValidateNationalPhone reports whether a pre-normalization national
// number is a plausible mobile number: exactly 10 digits, first digit
// 6-9.
func ValidateNationalPhone(tenDigits string) bool {
	return nationalPhoneRe.MatchString(tenDigits)
}

// ValidateEmail reports whether s has a local@domain.tld shape.
func ValidateEmail(s string) bool {
	return emailRe.MatchString(s)
}

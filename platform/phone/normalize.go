// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizeE164 canonicalizes a phone number for the given default region
// (ISO 3166-1 alpha-2, e.g. "PH").
//
// A local 11-digit number with a single leading zero is always rewritten to
// the region's country code (0917... -> +63917... for PH), even when the
// number fails strict validation, since parser output is frequently OCR'd or
// hand-typed. Other inputs are formatted to E.164 when they parse as valid;
// anything else passes through with only dial characters kept.
func NormalizeE164(input, region string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	dial := stripNonDial(trimmed)
	if dial == "" {
		return trimmed
	}

	if len(dial) == 11 && dial[0] == '0' && isDigits(dial) {
		code := phonenumbers.GetCountryCodeForRegion(region)
		if code > 0 {
			return "+" + strconv.Itoa(code) + dial[1:]
		}
	}

	number, err := phonenumbers.Parse(dial, region)
	if err != nil {
		return dial
	}
	if !phonenumbers.IsValidNumber(number) {
		return dial
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}

// stripNonDial removes everything except digits and a leading plus.
func stripNonDial(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

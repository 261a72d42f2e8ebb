package model

import (
	"fmt"
	"strings"
)

// PopulousCountryCodes are the ISO 3166 codes of the 20 most populous countries.
var PopulousCountryCodes = []string{
	"CN", "IN", "US", "ID", "BR", "PK", "NG", "BD", "RU", "JP",
	"MX", "PH", "VN", "ET", "EG", "DE", "IR", "TR", "CD", "FR",
}

// FlagDownload is a downloaded country flag image.
type FlagDownload struct {
	CountryCode string
	URL         string
	SizeBytes   int64
}

// NormalizeCountryCode validates and returns the country code in upper case.
func NormalizeCountryCode(cc string) (string, error) {
	cc = strings.ToUpper(strings.TrimSpace(cc))
	if len(cc) != 2 {
		return "", fmt.Errorf("country code %q must have 2 letters: %w", cc, ErrNotValid)
	}
	for _, r := range cc {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("country code %q must be alphabetic: %w", cc, ErrNotValid)
		}
	}
	return cc, nil
}

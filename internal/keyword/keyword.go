// Package keyword generates domain names from language keywords.
package keyword

import (
	"fmt"
	"strings"
)

// DefaultTLD is the top level domain used when none is set.
const DefaultTLD = "dev"

// GoKeywords are the reserved keywords of the Go language.
var GoKeywords = []string{
	"break", "case", "chan", "const", "continue",
	"default", "defer", "else", "fallthrough", "for",
	"func", "go", "goto", "if", "import",
	"interface", "map", "package", "range", "return",
	"select", "struct", "switch", "type", "var",
}

// Domains returns a "<word>.<tld>" domain for every word of at most maxLen
// characters, in the words order. A maxLen of 0 doesn't filter.
func Domains(words []string, maxLen int, tld string) ([]string, error) {
	if maxLen < 0 {
		return nil, fmt.Errorf("max length can't be negative")
	}
	if tld == "" {
		tld = DefaultTLD
	}
	tld = strings.TrimPrefix(tld, ".")

	domains := []string{}
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if maxLen > 0 && len(w) > maxLen {
			continue
		}
		domains = append(domains, strings.ToLower(w+"."+tld))
	}

	return domains, nil
}

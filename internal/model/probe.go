package model

import (
	"fmt"
	"strings"
)

// Probe is the outcome of checking if a domain name can be resolved.
type Probe struct {
	Domain string
	// Found is false when the domain doesn't exist, this is not an error.
	Found bool
}

// ValidateDomain validates a domain name to be probed.
func ValidateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("domain is required: %w", ErrNotValid)
	}
	if strings.ContainsAny(domain, " /\t\n") {
		return fmt.Errorf("domain %q has invalid characters: %w", domain, ErrNotValid)
	}
	return nil
}

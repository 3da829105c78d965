package domain

import (
	"fmt"
	"strings"
)

// CanonicalName returns a DNS name in the canonical form used throughout the
// server: lowercased, trimmed of surrounding whitespace, and without a
// trailing dot. Wire encoding re-adds the root label where needed.
func CanonicalName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	for strings.HasSuffix(name, ".") {
		name = strings.TrimSuffix(name, ".")
	}
	return name
}

// ValidateName checks a DNS name (relative or absolute) against label rules:
// labels are non-empty, at most 63 octets, contain only alphanumerics and
// hyphens, and do not begin or end with a hyphen.
func ValidateName(name string) error {
	name = CanonicalName(name)
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if len(name) > 253 {
		return fmt.Errorf("name exceeds 253 octets: %s", name)
	}
	for _, label := range strings.Split(name, ".") {
		if err := validateLabel(label); err != nil {
			return fmt.Errorf("invalid name %q: %w", name, err)
		}
	}
	return nil
}

func validateLabel(label string) error {
	if label == "" {
		return fmt.Errorf("empty label")
	}
	if len(label) > 63 {
		return fmt.Errorf("label exceeds 63 octets: %s", label)
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return fmt.Errorf("label must not begin or end with a hyphen: %s", label)
	}
	for _, c := range label {
		if !isLabelChar(c) {
			return fmt.Errorf("label contains invalid character %q: %s", c, label)
		}
	}
	return nil
}

func isLabelChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '-':
		return true
	}
	return false
}

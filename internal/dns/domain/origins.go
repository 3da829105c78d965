package domain

import (
	"fmt"
	"slices"
	"strings"
)

// ZoneOrigins holds the set of DNS names the server is authoritative for:
// one primary origin plus zero or more aliases. Origins are stored canonical
// and sorted most-specific-first (most labels, then longest, then lexical),
// so the first suffix match during relativization is always the most
// specific one. Built once from configuration, immutable afterwards.
type ZoneOrigins struct {
	primary string
	origins []string
}

// NewZoneOrigins validates and canonicalizes the primary origin and aliases.
func NewZoneOrigins(primary string, aliases []string) (ZoneOrigins, error) {
	primary = CanonicalName(primary)
	if err := ValidateName(primary); err != nil {
		return ZoneOrigins{}, fmt.Errorf("invalid primary origin: %w", err)
	}

	seen := map[string]struct{}{primary: {}}
	origins := []string{primary}
	for _, alias := range aliases {
		alias = CanonicalName(alias)
		if err := ValidateName(alias); err != nil {
			return ZoneOrigins{}, fmt.Errorf("invalid alias origin: %w", err)
		}
		if _, ok := seen[alias]; ok {
			continue
		}
		seen[alias] = struct{}{}
		origins = append(origins, alias)
	}

	slices.SortFunc(origins, compareSpecificity)

	return ZoneOrigins{primary: primary, origins: origins}, nil
}

func compareSpecificity(a, b string) int {
	if d := strings.Count(b, ".") - strings.Count(a, "."); d != 0 {
		return d
	}
	if d := len(b) - len(a); d != 0 {
		return d
	}
	return strings.Compare(a, b)
}

// Primary returns the primary zone origin.
func (z ZoneOrigins) Primary() string {
	return z.primary
}

// All returns every origin, most specific first.
func (z ZoneOrigins) All() []string {
	return slices.Clone(z.origins)
}

// Relativize maps an absolute query name to its form relative to the most
// specific matching origin. The apex itself relativizes to the empty string.
// The second return value is false when no origin is an ancestor of (or
// equal to) the query name.
func (z ZoneOrigins) Relativize(name string) (string, bool) {
	name = CanonicalName(name)
	for _, origin := range z.origins {
		if name == origin {
			return "", true
		}
		if strings.HasSuffix(name, "."+origin) {
			return name[:len(name)-len(origin)-1], true
		}
	}
	return "", false
}

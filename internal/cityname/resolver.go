// Package cityname corrects common misspellings and aliases of city names
// before they are sent to the weather provider.
package cityname

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// defaultCorrections maps a normalized alias to the canonical city name.
var defaultCorrections = map[string]string{
	"los vegas":     "Las Vegas",
	"new york city": "New York",
	"san francisco": "San Francisco",
	"mumbai":        "Mumbai",
	"delhi":         "Delhi",
	"bangalore":     "Bengaluru",
}

// DefaultCorrections returns a copy of the built-in alias table.
func DefaultCorrections() map[string]string {
	out := make(map[string]string, len(defaultCorrections))
	for alias, canonical := range defaultCorrections {
		out[alias] = canonical
	}
	return out
}

// Resolver looks names up in an immutable correction table. It is safe for
// concurrent use.
type Resolver struct {
	table map[string]string
}

// New builds a resolver from the built-in table plus extra aliases. Extra
// keys are normalized the same way lookups are; entries with an empty alias
// or canonical name are ignored.
func New(extra map[string]string) *Resolver {
	table := make(map[string]string, len(defaultCorrections)+len(extra))
	for alias, canonical := range defaultCorrections {
		table[normalize(alias)] = canonical
	}
	for alias, canonical := range extra {
		key := normalize(alias)
		canonical = strings.TrimSpace(canonical)
		if key == "" || canonical == "" {
			continue
		}
		table[key] = canonical
	}
	return &Resolver{table: table}
}

// CorrectedNameFor returns the canonical name for raw if raw is a known
// alias, otherwise raw exactly as given.
func (r *Resolver) CorrectedNameFor(raw string) string {
	if canonical, ok := r.SuggestionFor(raw); ok {
		return canonical
	}
	return raw
}

// SuggestionFor reports the canonical name for raw, if the table has one.
func (r *Resolver) SuggestionFor(raw string) (string, bool) {
	canonical, ok := r.table[normalize(raw)]
	return canonical, ok
}

// Len returns the number of entries in the table.
func (r *Resolver) Len() int { return len(r.table) }

// Caser values carry state, so each call gets its own.
func normalize(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// Package translate defines the word lookup collaborator used when adding
// entries, plus provider-independent helpers and a bounded result cache.
package translate

import (
	"context"
	"errors"
	"strings"
)

// ErrLookupFailed is returned when a provider could not be reached or its
// response could not be understood. It is distinct from "no translations".
var ErrLookupFailed = errors.New("translation lookup failed")

// Translator returns candidate translations for a word. A nil or empty
// slice with a nil error means the provider knows no translation.
type Translator interface {
	Lookup(ctx context.Context, word string) ([]string, error)
}

// Func adapts a plain function to the Translator interface.
type Func func(ctx context.Context, word string) ([]string, error)

// Lookup calls f.
func (f Func) Lookup(ctx context.Context, word string) ([]string, error) {
	return f(ctx, word)
}

// Noop never finds a translation. It is used when lookups are disabled.
type Noop struct{}

// Lookup always returns nil.
func (Noop) Lookup(context.Context, string) ([]string, error) {
	return nil, nil
}

// Clean trims candidates, drops empty values and echoes of the source word
// (case-insensitive), and removes duplicates while keeping first-seen order.
func Clean(word string, candidates []string) []string {
	source := strings.ToLower(strings.TrimSpace(word))
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))

	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" || strings.ToLower(c) == source {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// NormalizeWord returns the lookup key for word.
func NormalizeWord(word string) string {
	return strings.TrimSpace(word)
}

// Package normalizer canonicalizes free-text driver and recipient names
// so that spellings such as "BIG RICH", "BigRich" and "BIGRICH" compare
// equal.
//
// The alias table is configuration, not package state: every Normalizer
// owns its own table.
//
// Example usage:
//
//	n, err := normalizer.New(normalizer.DefaultAliases())
//	n.Normalize("big-rich") // "Rich"
package normalizer

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Normalizer maps raw names onto canonical driver names.
type Normalizer struct {
	aliases map[string]string
}

// DefaultAliases returns the alias table for the current driver roster.
func DefaultAliases() map[string]string {
	return map[string]string{
		"RICHLITTLE":  "Little Rich",
		"BIGRICH":     "Rich",
		"STEVEMARTIN": "Steve",
		"TONY":        "Tony",
	}
}

// New builds a Normalizer from alias -> canonical name pairs. Alias keys
// are canonicalized the same way input is, so "RICH-LITTLE" and
// "RICHLITTLE" are one key. Every canonical name is also registered as
// an alias of itself, which makes Normalize idempotent; a table where a
// canonical name is itself an alias of a different name is rejected.
func New(aliases map[string]string) (*Normalizer, error) {
	table := make(map[string]string, len(aliases)*2)

	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, alias := range keys {
		name := strings.TrimSpace(aliases[alias])
		key := Key(alias)
		if key == "" || name == "" {
			return nil, fmt.Errorf("alias %q -> %q: alias and name must be non-empty", alias, aliases[alias])
		}
		if existing, ok := table[key]; ok && existing != name {
			return nil, fmt.Errorf("alias %q maps to both %q and %q", alias, existing, name)
		}
		table[key] = name
	}

	for _, alias := range keys {
		name := table[Key(alias)]
		self := Key(name)
		if existing, ok := table[self]; ok && existing != name {
			return nil, fmt.Errorf("canonical name %q is an alias of %q", name, existing)
		}
		table[self] = name
	}

	return &Normalizer{aliases: table}, nil
}

// MustNew is New for tables known to be valid.
func MustNew(aliases map[string]string) *Normalizer {
	n, err := New(aliases)
	if err != nil {
		panic(err)
	}
	return n
}

// Key uppercases raw and strips whitespace and hyphens.
func Key(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsSpace(r) || r == '-' {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// Normalize returns the canonical name for raw. Names not in the table
// are returned unchanged.
func (n *Normalizer) Normalize(raw string) string {
	if name, ok := n.aliases[Key(raw)]; ok {
		return name
	}
	return raw
}

// Known reports whether raw resolves through the alias table.
func (n *Normalizer) Known(raw string) bool {
	_, ok := n.aliases[Key(raw)]
	return ok
}

// Names returns the sorted canonical names.
func (n *Normalizer) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, name := range n.aliases {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

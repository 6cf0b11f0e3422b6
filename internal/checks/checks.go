// Package checks runs quality checks against translated units. The
// rule engine here is intentionally small; the translate workflow only
// needs the set of failing check ids before and after an edit.
package checks

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/glosshq/gloss/internal/domain"
)

// Check is a single quality rule.
type Check interface {
	// ID is the stable identifier stored in check comparisons.
	ID() string
	// Name is the human-readable rule name shown to users.
	Name() string
	// Fails reports whether the unit violates the rule. Untranslated
	// units are never checked.
	Fails(unit domain.Unit) bool
}

// Registry is an ordered set of checks.
type Registry struct {
	checks []Check
	byID   map[string]Check
}

// NewRegistry creates a registry with the given checks.
func NewRegistry(checks ...Check) *Registry {
	byID := make(map[string]Check, len(checks))
	for _, c := range checks {
		byID[c.ID()] = c
	}
	return &Registry{checks: checks, byID: byID}
}

// Default returns the registry with the standard rules.
func Default() *Registry {
	return NewRegistry(
		endWhitespace{},
		endStop{},
		placeholders{},
	)
}

// Run returns the ids of all failing checks for the unit.
func (r *Registry) Run(unit domain.Unit) []string {
	if unit.Target == "" {
		return nil
	}
	var failing []string
	for _, c := range r.checks {
		if c.Fails(unit) {
			failing = append(failing, c.ID())
		}
	}
	return failing
}

// Name resolves a check id to its display name, falling back to the id
// itself for unknown checks.
func (r *Registry) Name(id string) string {
	if c, ok := r.byID[id]; ok {
		return c.Name()
	}
	return id
}

// endWhitespace flags targets whose trailing whitespace disagrees with
// the source.
type endWhitespace struct{}

func (endWhitespace) ID() string   { return "end_whitespace" }
func (endWhitespace) Name() string { return "Trailing whitespace" }

func (endWhitespace) Fails(unit domain.Unit) bool {
	return hasTrailingSpace(unit.Source) != hasTrailingSpace(unit.Target)
}

func hasTrailingSpace(s string) bool {
	if s == "" {
		return false
	}
	runes := []rune(s)
	return unicode.IsSpace(runes[len(runes)-1])
}

// endStop flags targets whose trailing punctuation disagrees with the
// source.
type endStop struct{}

func (endStop) ID() string   { return "end_stop" }
func (endStop) Name() string { return "Mismatched full stop" }

func (endStop) Fails(unit domain.Unit) bool {
	return hasEndStop(unit.Source) != hasEndStop(unit.Target)
}

func hasEndStop(s string) bool {
	s = strings.TrimRight(s, " \t\n")
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case '.', '!', '?', ':', ';':
		return true
	}
	return strings.HasSuffix(s, "。") || strings.HasSuffix(s, "…")
}

// placeholderPattern matches printf-style format tokens.
var placeholderPattern = regexp.MustCompile(`%[#0+ -]*[0-9]*(?:\.[0-9]+)?[sdfgxXeEcvqt%]`)

// placeholders flags targets missing format tokens present in the
// source, which would break runtime formatting.
type placeholders struct{}

func (placeholders) ID() string   { return "placeholders" }
func (placeholders) Name() string { return "Missing placeholders" }

func (placeholders) Fails(unit domain.Unit) bool {
	wanted := placeholderPattern.FindAllString(unit.Source, -1)
	if len(wanted) == 0 {
		return false
	}
	have := map[string]int{}
	for _, token := range placeholderPattern.FindAllString(unit.Target, -1) {
		have[token]++
	}
	for _, token := range wanted {
		if have[token] == 0 {
			return true
		}
		have[token]--
	}
	return false
}

// Package autofix applies automatic cleanups to user-submitted target
// text before it is persisted. Fixes are conservative: they only
// reconcile the target with properties the source already has.
package autofix

import "strings"

// Fix is one automatic cleanup rule.
type Fix interface {
	// Name describes the fix for the "following fixups were applied"
	// notice.
	Name() string
	// Apply returns the fixed target. Returning the input unchanged
	// means the fix did not trigger.
	Apply(source, target string) string
}

// Apply runs all standard fixes in order and returns the cleaned
// target along with the names of the fixes that changed it.
func Apply(source, target string) (string, []string) {
	var applied []string
	for _, fix := range fixes {
		fixed := fix.Apply(source, target)
		if fixed != target {
			applied = append(applied, fix.Name())
			target = fixed
		}
	}
	return target, applied
}

var fixes = []Fix{
	trailingWhitespace{},
	ellipsis{},
	controlChars{},
}

// trailingWhitespace strips trailing whitespace the source does not have.
type trailingWhitespace struct{}

func (trailingWhitespace) Name() string { return "Trailing whitespace" }

func (trailingWhitespace) Apply(source, target string) string {
	if strings.TrimRight(source, " \t") != source {
		// Source legitimately ends in whitespace; leave the target alone.
		return target
	}
	return strings.TrimRight(target, " \t")
}

// ellipsis replaces three dots with the ellipsis character when the
// source uses it.
type ellipsis struct{}

func (ellipsis) Name() string { return "Ellipsis" }

func (ellipsis) Apply(source, target string) string {
	if !strings.HasSuffix(source, "…") {
		return target
	}
	if strings.HasSuffix(target, "...") {
		return strings.TrimSuffix(target, "...") + "…"
	}
	return target
}

// controlChars removes control characters that never belong in
// translations.
type controlChars struct{}

func (controlChars) Name() string { return "Control characters" }

func (controlChars) Apply(source, target string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, target)
}

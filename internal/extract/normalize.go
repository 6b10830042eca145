package extract

import (
	"strings"
	"unicode/utf8"
)

// TruncationMarker is appended to text cut down to the maximum length.
const TruncationMarker = "... [Content truncated for length]"

// Limits bound the normalized text. All counts are in characters (runes).
type Limits struct {
	// MinChars is the threshold below which text counts as unreadable.
	MinChars int
	// MaxChars is the final output cap, marker included. Values below the
	// marker length are raised to it.
	MaxChars int
	// GuardChars triggers the binary-contamination guard.
	GuardChars int
	// GuardLines is how many lines the guard keeps at most.
	GuardLines int
	// GuardLineChars drops lines of at least this length while guarding.
	GuardLineChars int
}

// DefaultLimits returns the production limits.
func DefaultLimits() Limits {
	return Limits{
		MinChars:       50,
		MaxChars:       50000,
		GuardChars:     100000,
		GuardLines:     200,
		GuardLineChars: 1000,
	}
}

func (l Limits) withDefaults() Limits {
	def := DefaultLimits()
	if l.MinChars <= 0 {
		l.MinChars = def.MinChars
	}
	if l.MaxChars <= 0 {
		l.MaxChars = def.MaxChars
	}
	if marker := utf8.RuneCountInString(TruncationMarker); l.MaxChars < marker {
		l.MaxChars = marker
	}
	if l.GuardChars <= 0 {
		l.GuardChars = def.GuardChars
	}
	if l.GuardLines <= 0 {
		l.GuardLines = def.GuardLines
	}
	if l.GuardLineChars <= 0 {
		l.GuardLineChars = def.GuardLineChars
	}
	return l
}

// Clean drops invalid UTF-8 and NUL bytes and trims surrounding whitespace.
func Clean(text string) string {
	text = strings.ToValidUTF8(text, "")
	text = strings.ReplaceAll(text, "\x00", "")
	return strings.TrimSpace(text)
}

// SizeGuard handles suspiciously large text: past GuardChars it keeps at most
// GuardLines lines and drops any line of GuardLineChars or more.
func SizeGuard(text string, limits Limits) (string, bool) {
	limits = limits.withDefaults()
	if utf8.RuneCountInString(text) <= limits.GuardChars {
		return text, false
	}

	lines := strings.Split(text, "\n")
	if len(lines) > limits.GuardLines {
		lines = lines[:limits.GuardLines]
	}

	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) >= limits.GuardLineChars {
			continue
		}
		kept = append(kept, line)
	}

	return strings.TrimSpace(strings.Join(kept, "\n")), true
}

// Truncate caps text at MaxChars. When it cuts, the result ends with
// TruncationMarker and is exactly MaxChars long.
func Truncate(text string, limits Limits) (string, bool) {
	limits = limits.withDefaults()
	if utf8.RuneCountInString(text) <= limits.MaxChars {
		return text, false
	}

	keep := limits.MaxChars - utf8.RuneCountInString(TruncationMarker)
	runes := []rune(text)
	return string(runes[:keep]) + TruncationMarker, true
}

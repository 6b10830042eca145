package scoring

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrNoJSON        = errors.New("no JSON found")
	ErrMalformedJSON = errors.New("malformed JSON")
)

var fencePattern = regexp.MustCompile("```[A-Za-z0-9_+-]*[ \t]*\r?\n?")

// Locate returns the first top-level JSON object in text. Scanning starts at
// the first '{' and follows brace depth until it returns to zero; braces
// inside string literals do not count. Anything after that object, including
// further objects, is ignored.
func Locate(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", ErrNoJSON
	}

	var (
		depth    int
		inString bool
		escaped  bool
	)

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return StripFences(text[start : i+1]), nil
			}
		}
	}

	return "", ErrMalformedJSON
}

// StripFences removes markdown code fence markers, with or without a
// language tag.
func StripFences(s string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(s, ""))
}

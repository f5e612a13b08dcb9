package bridge

import (
	"strings"
	"unicode"
)

// StripHandleSpaces walks an arbitrary decoded JSON value and removes
// all whitespace from every string found under a key literally named
// "handle". It mutates maps in place and returns the (possibly
// replaced) value so callers can normalize scalars too.
func StripHandleSpaces(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for key, child := range val {
			if key == "handle" {
				if s, ok := child.(string); ok {
					val[key] = stripWhitespace(s)
					continue
				}
			}
			val[key] = StripHandleSpaces(child)
		}
		return val
	case []any:
		for i, child := range val {
			val[i] = StripHandleSpaces(child)
		}
		return val
	default:
		return v
	}
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ConstructHandle derives a camel-case handle from a display name:
// lower-case everything, then capitalize the first letter of every
// word except the first and join without separators.
func ConstructHandle(name string) string {
	words := strings.Split(strings.ToLower(name), " ")
	for i := 1; i < len(words); i++ {
		if words[i] == "" {
			continue
		}
		words[i] = strings.ToUpper(words[i][:1]) + words[i][1:]
	}
	return strings.Join(words, "")
}

package normalizer

import (
	"regexp"
	"strings"
)

var (
	reIdentHead    = regexp.MustCompile(`^[A-Za-z_$][\w$]*`)
	reLineComment  = regexp.MustCompile(`//[^\n]*`)
	reBlockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// patternBindings returns every local name a destructuring pattern binds.
// Object keys never bind; only alias targets, defaulted names, and rest
// elements introduce names. Nesting recurses to arbitrary depth.
func patternBindings(pattern string) []string {
	pattern = strings.TrimSpace(stripComments(pattern))
	if len(pattern) < 2 {
		return nil
	}
	open := pattern[0]
	if open != '{' && open != '[' {
		return nil
	}
	inner := pattern[1 : len(pattern)-1]
	var names []string
	for _, entry := range splitTopLevel(inner, ',') {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue // array holes, trailing commas
		}
		names = append(names, entryBindings(entry, open == '{')...)
	}
	return names
}

// entryBindings handles one pattern entry: a rest element, an object entry
// with a (possibly computed) key, or a bare target.
func entryBindings(entry string, object bool) []string {
	if strings.HasPrefix(entry, "...") {
		return targetBindings(entry[3:])
	}
	if object {
		// A computed key "[expr]: target" still splits at the top-level colon
		// because the bracketed expression counts as nesting.
		if _, val, ok := cutTopLevel(entry, ':'); ok {
			return targetBindings(val)
		}
	}
	return targetBindings(entry)
}

// targetBindings resolves a binding target: strips a default value, recurses
// into nested patterns, and otherwise yields the identifier.
func targetBindings(target string) []string {
	if v, _, ok := cutTopLevel(target, '='); ok {
		target = v
	}
	target = strings.TrimSpace(target)
	if target == "" {
		return nil
	}
	if target[0] == '{' || target[0] == '[' {
		return patternBindings(target)
	}
	if m := reIdentHead.FindString(target); m != "" {
		return []string{m}
	}
	return nil
}

func stripComments(s string) string {
	s = reBlockComment.ReplaceAllString(s, "")
	return reLineComment.ReplaceAllString(s, "")
}

// splitTopLevel splits s at sep occurrences outside any bracket nesting.
// Quotes are not tracked, by the same tradeoff the whole transform makes.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case sep:
			if depth <= 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// cutTopLevel cuts s around the first top-level sep, like strings.Cut.
func cutTopLevel(s string, sep byte) (before, after string, found bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case sep:
			if depth <= 0 {
				return s[:i], s[i+1:], true
			}
		}
	}
	return s, "", false
}

// balancedSpan returns the prefix of s running from its opening bracket to
// the matching close. ok is false when the brackets never balance.
func balancedSpan(s string) (string, bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

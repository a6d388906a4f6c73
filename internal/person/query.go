// Name query parsing and matching for person search.
package person

import "strings"

// Query represents a parsed name search query.
type Query struct {
	Given   string // Given name (may be empty for surname-only queries)
	Surname string // Surname (required)
}

// ParseQuery parses a name search string into a structured Query.
//
// Supported formats:
//   - "Wang"          → surname="Wang" (single word = surname only)
//   - "Anshi Wang"    → given="Anshi", surname="Wang"
//   - "Wang, Anshi"   → given="Anshi", surname="Wang" (comma = Surname, Given)
//
// Names are trimmed but case is preserved (matching is case-insensitive).
func ParseQuery(input string) Query {
	input = strings.TrimSpace(input)
	if input == "" {
		return Query{}
	}

	if idx := strings.Index(input, ","); idx > 0 {
		surname := strings.TrimSpace(input[:idx])
		given := strings.TrimSpace(input[idx+1:])
		return Query{Given: given, Surname: surname}
	}

	parts := strings.Fields(input)
	if len(parts) == 1 {
		return Query{Surname: parts[0]}
	}

	// Multiple words: last word is the surname, rest is the given name
	surname := parts[len(parts)-1]
	given := strings.Join(parts[:len(parts)-1], " ")
	return Query{Given: given, Surname: surname}
}

// Matches checks if the query matches a person's primary or alternate name.
//
// Matching rules:
//   - Surname: case-insensitive substring match against either name
//   - Given name: case-insensitive prefix match when present in the query
func (q Query) Matches(p Person) bool {
	if q.Surname == "" {
		return false
	}
	return q.matchesName(p.Name) || q.matchesName(p.AltName)
}

func (q Query) matchesName(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	if !strings.Contains(lower, strings.ToLower(q.Surname)) {
		return false
	}
	if q.Given == "" {
		return true
	}
	// Any word in the name may carry the given-name prefix
	for _, word := range strings.Fields(lower) {
		if strings.HasPrefix(word, strings.ToLower(q.Given)) {
			return true
		}
	}
	return false
}

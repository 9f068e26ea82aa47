package analyze

import (
	"regexp"
	"strings"
)

// NameMatcher is the text-matching capability competitor detection delegates
// name/alias matching to.
type NameMatcher interface {
	// Matches reports whether name (or any alias) appears in text
	Matches(text, name string, aliases []string) bool
	// Count returns the number of occurrences of name (and aliases) in text
	Count(text, name string, aliases []string) int
}

// substringMatcher is the default matcher: case-insensitive substring presence
// and a global case-insensitive regex count with metacharacters escaped.
type substringMatcher struct{}

// NewMatcher returns the default name matcher
func NewMatcher() NameMatcher {
	return substringMatcher{}
}

func (substringMatcher) Matches(text, name string, aliases []string) bool {
	lower := strings.ToLower(text)
	for _, candidate := range namesOf(name, aliases) {
		if strings.Contains(lower, strings.ToLower(candidate)) {
			return true
		}
	}
	return false
}

func (substringMatcher) Count(text, name string, aliases []string) int {
	total := 0
	for _, candidate := range namesOf(name, aliases) {
		total += countOccurrences(text, candidate)
	}
	return total
}

// countOccurrences counts case-insensitive occurrences of name in text,
// escaping regex metacharacters in the name
func countOccurrences(text, name string) int {
	if strings.TrimSpace(name) == "" {
		return 0
	}
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(name))
	if err != nil {
		return 0
	}
	return len(re.FindAllStringIndex(text, -1))
}

func namesOf(name string, aliases []string) []string {
	names := make([]string, 0, len(aliases)+1)
	if strings.TrimSpace(name) != "" {
		names = append(names, name)
	}
	for _, alias := range aliases {
		if strings.TrimSpace(alias) != "" {
			names = append(names, alias)
		}
	}
	return names
}

package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bgricker/buildharness/internal/suite"
)

// Pattern represents a compiled filter condition supporting substring and regex matching.
type Pattern struct {
	raw   string
	regex *regexp.Regexp
	lower string
}

// Compile transforms raw pattern strings into Pattern values.
func Compile(patterns []string) ([]Pattern, error) {
	result := make([]Pattern, 0, len(patterns))
	for _, raw := range patterns {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.HasPrefix(raw, "/") && strings.HasSuffix(raw, "/") && len(raw) >= 2 {
			expr := raw[1 : len(raw)-1]
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("compile regexp %q: %w", raw, err)
			}
			result = append(result, Pattern{raw: raw, regex: re})
			continue
		}
		result = append(result, Pattern{raw: raw, lower: strings.ToLower(raw)})
	}
	return result, nil
}

// String returns the pattern as the user wrote it.
func (p Pattern) String() string {
	return p.raw
}

// Match reports whether the pattern matches the supplied string.
func (p Pattern) Match(s string) bool {
	if s == "" {
		return false
	}
	if p.regex != nil {
		return p.regex.MatchString(s)
	}
	return strings.Contains(strings.ToLower(s), p.lower)
}

// FilterTests keeps tests matching any only pattern (all tests when only is
// empty) and drops tests matching any skip pattern. Order is preserved.
func FilterTests(tests []suite.Test, onlyPatterns, skipPatterns []Pattern) []suite.Test {
	if len(tests) == 0 {
		return nil
	}
	result := make([]suite.Test, 0, len(tests))
	for _, t := range tests {
		if len(onlyPatterns) > 0 && !matchesTest(t, onlyPatterns) {
			continue
		}
		if len(skipPatterns) > 0 && matchesTest(t, skipPatterns) {
			continue
		}
		result = append(result, t)
	}
	return result
}

func matchesTest(t suite.Test, patterns []Pattern) bool {
	for _, pattern := range patterns {
		if pattern.Match(t.ID) || pattern.Match(t.Source) {
			return true
		}
	}
	return false
}

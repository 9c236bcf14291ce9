package textblock

import (
	"regexp"
	"strings"
)

// ReplaceFirstMatch rewrites the first line matching pattern to
// replacement. When no line matches, the content is returned unchanged:
// the pattern-substitution upsert assumes a prior install step already
// created a placeholder line and is a no-op otherwise.
func ReplaceFirstMatch(content string, pattern *regexp.Regexp, replacement string) (result string, changed bool) {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if !pattern.MatchString(line) {
			continue
		}
		if line == replacement {
			return content, false
		}
		lines[i] = replacement
		return strings.Join(lines, "\n"), true
	}
	return content, false
}

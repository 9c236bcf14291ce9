package textblock

import "strings"

// HasLine reports whether content contains a line exactly equal to line.
func HasLine(content, line string) bool {
	for _, l := range strings.Split(content, "\n") {
		if l == line {
			return true
		}
	}
	return false
}

// EnsureLine appends line to content unless an exactly equal line already
// exists. This is the single-line upsert: weaker than a managed block (no
// replace-on-change), used for one-off environment-setup lines. Upserting
// the same line twice leaves exactly one occurrence.
func EnsureLine(content, line string) (result string, changed bool) {
	if HasLine(content, line) {
		return content, false
	}
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + line + "\n", true
}

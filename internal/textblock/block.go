// Package textblock implements idempotent edits to user-owned text files:
// a marker-delimited managed block, a single-line upsert, and a
// pattern-substitution upsert. All three operate on file content as a
// string; reading, writing and ownership are the caller's concern.
package textblock

import (
	"errors"
	"strings"
)

// ErrUnterminatedBlock reports a start marker with no matching end marker.
// Callers must treat this as fatal: removing a partial span could destroy
// user content below the orphaned marker.
var ErrUnterminatedBlock = errors.New("start marker without matching end marker")

// Block is a managed section delimited by two unique marker lines.
// A line must equal the marker exactly to delimit the section.
type Block struct {
	Start string
	End   string
}

// NewBlock creates a Block, rejecting empty or identical markers.
func NewBlock(start, end string) (Block, error) {
	if start == "" || end == "" {
		return Block{}, errors.New("block markers cannot be empty")
	}
	if start == end {
		return Block{}, errors.New("start and end markers must differ")
	}
	return Block{Start: start, End: end}, nil
}

// Sync converges content on a single managed block whose body equals
// rendered: every existing span is deleted, then one block is appended
// after a separating blank line. Content outside the markers is never
// touched. Re-running with the same rendered body is byte-stable.
func (b Block) Sync(content, rendered string) (string, error) {
	stripped, _, err := b.Remove(content)
	if err != nil {
		return "", err
	}

	out := stripped
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}

	body := rendered
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}

	return out + "\n" + b.Start + "\n" + body + b.End + "\n", nil
}

// Remove deletes every managed span, including the blank separator line
// Sync places before the start marker, and reports whether anything was
// removed.
func (b Block) Remove(content string) (string, bool, error) {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	removed := false

	for i := 0; i < len(lines); i++ {
		if lines[i] != b.Start {
			out = append(out, lines[i])
			continue
		}

		end := -1
		for j := i + 1; j < len(lines); j++ {
			if lines[j] == b.End {
				end = j
				break
			}
		}
		if end == -1 {
			return "", false, ErrUnterminatedBlock
		}

		// Drop the separator blank line from a previous sync so
		// repeated syncs do not accumulate empty lines.
		if len(out) > 0 && out[len(out)-1] == "" {
			out = out[:len(out)-1]
		}

		i = end
		removed = true
	}

	if !removed {
		return content, false, nil
	}
	return strings.Join(out, "\n"), true, nil
}

// Body extracts the current body of the first managed span, marker lines
// excluded. found is false when no start marker exists.
func (b Block) Body(content string) (body string, found bool, err error) {
	lines := strings.Split(content, "\n")
	for i := 0; i < len(lines); i++ {
		if lines[i] != b.Start {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			if lines[j] == b.End {
				if j == i+1 {
					return "", true, nil
				}
				return strings.Join(lines[i+1:j], "\n") + "\n", true, nil
			}
		}
		return "", false, ErrUnterminatedBlock
	}
	return "", false, nil
}

// Present reports whether a start marker line exists in content.
func (b Block) Present(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		if line == b.Start {
			return true
		}
	}
	return false
}

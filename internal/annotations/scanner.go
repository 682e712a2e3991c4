package annotations

import (
	"errors"
	"strings"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
)

// marker is an annotation marker found by scan.
type marker struct {
	kind domain.BlockKind

	// start is the byte offset of '@'.
	start int

	// payload is the byte offset just after the marker name.
	payload int

	// end is the byte offset where the block's region stops.
	end int

	// line is the 1-based line number of the marker.
	line int
}

// scan walks text once, line by line, and returns the markers it contains
// with their regions resolved.
func scan(text string) []marker {
	var (
		markers []marker
		fence   string
		line    int
	)

	// closeOpen ends the region of the latest marker.
	closeOpen := func(at int) {
		if n := len(markers); n > 0 && markers[n-1].end < 0 {
			markers[n-1].end = at
		}
	}

	for offset := 0; offset < len(text); {
		line++
		next := strings.IndexByte(text[offset:], '\n')
		var content string
		if next < 0 {
			content = text[offset:]
			next = len(text)
		} else {
			content = text[offset : offset+next]
			next = offset + next + 1
		}

		indent, rest := splitIndent(content)

		switch {
		case fence != "":
			if strings.HasPrefix(rest, fence) && strings.TrimSpace(strings.TrimLeft(rest, fence[:1])) == "" {
				fence = ""
			}
		case indent > 3:
			// Indented code.
		case strings.HasPrefix(rest, "```") || strings.HasPrefix(rest, "~~~"):
			fence = fenceOf(rest)
		case isHeading(rest):
			closeOpen(offset)
		case strings.HasPrefix(rest, "@"):
			if kind, nameEnd, ok := parseMarker(rest); ok {
				closeOpen(offset)
				at := offset + indent
				markers = append(markers, marker{
					kind:    kind,
					start:   at,
					payload: at + nameEnd,
					end:     -1,
					line:    line,
				})
			}
		}

		offset = next
	}

	closeOpen(len(text))
	return markers
}

// splitIndent counts leading spaces (tabs count as four) and returns the rest.
func splitIndent(s string) (int, string) {
	n := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n, s[i:]
		}
	}
	return n, ""
}

func fenceOf(s string) string {
	c := s[0]
	i := 0
	for i < len(s) && s[i] == c {
		i++
	}
	return s[:i]
}

// isHeading reports whether s opens an ATX heading.
func isHeading(s string) bool {
	i := 0
	for i < len(s) && s[i] == '#' {
		i++
	}
	if i == 0 || i > 6 {
		return false
	}
	return i == len(s) || s[i] == ' ' || s[i] == '\t'
}

// parseMarker recognises "@name" at the start of s. The name must be followed
// by whitespace, '{' or the end of the line.
func parseMarker(s string) (domain.BlockKind, int, bool) {
	i := 1
	for i < len(s) && (s[i] >= 'a' && s[i] <= 'z' || s[i] == '-') {
		i++
	}
	if i < len(s) && s[i] != ' ' && s[i] != '\t' && s[i] != '{' && s[i] != '\r' {
		return 0, 0, false
	}
	kind, ok := domain.KindForMarker(s[1:i])
	return kind, i, ok
}

var (
	errNoPayload    = errors.New("payload must start with '{'")
	errUnterminated = errors.New("unterminated payload")
)

// objectSpan locates the balanced JSON object that starts at the first
// non-space byte of text[from:to]. It returns the half-open byte range.
func objectSpan(text string, from, to int) (int, int, error) {
	start := from
	for start < to && isSpace(text[start]) {
		start++
	}
	if start == to || text[start] != '{' {
		return 0, 0, errNoPayload
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < to; i++ {
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
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return start, i + 1, nil
			}
		}
	}
	return 0, 0, errUnterminated
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

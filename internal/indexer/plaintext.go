package indexer

import (
	"html"
	"regexp"
	"strings"
)

// Pre-compiled regular expressions for elements whose text is never indexed.
var (
	scriptTag = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
)

// PlainText strips markup from rendered HTML and collapses whitespace.
//
// The tag scanner is tolerant: a '<' only opens a tag when followed by a
// letter, '/', '!' or '?', so literal comparisons such as "a < b" survive.
// A '<' with no closing '>' after it is kept as text. Entities are decoded
// after tags are removed.
func PlainText(markup string) string {
	markup = scriptTag.ReplaceAllString(markup, " ")
	markup = styleTag.ReplaceAllString(markup, " ")

	var b strings.Builder
	b.Grow(len(markup))

	closed := true
	for i := 0; i < len(markup); {
		c := markup[i]
		if c == '<' && closed && i+1 < len(markup) && opensTag(markup[i+1]) {
			end := strings.IndexByte(markup[i:], '>')
			if end >= 0 {
				// Tags separate words.
				b.WriteByte(' ')
				i += end + 1
				continue
			}
			// No '>' follows anywhere, so no later tag can close either.
			closed = false
		}
		b.WriteByte(c)
		i++
	}

	return strings.Join(strings.Fields(html.UnescapeString(b.String())), " ")
}

func opensTag(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '/' || c == '!' || c == '?'
}

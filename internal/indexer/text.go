package indexer

import (
	"math"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// WordsPerMinute is the reading speed used for ReadingTime.
const WordsPerMinute = 200

// excerptNoise lists Markdown punctuation removed from excerpts.
var excerptNoise = strings.NewReplacer(
	"#", "",
	"*", "",
	"`", "",
	"[", "",
	"]", "",
	"(", "",
	")", "",
)

// Truncate returns the first n grapheme clusters of s and whether anything
// was cut.
func Truncate(s string, n int) (string, bool) {
	if n <= 0 {
		return "", s != ""
	}

	state := -1
	rest := s
	count := 0
	for len(rest) > 0 {
		if count == n {
			return s[:len(s)-len(rest)], true
		}
		_, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		count++
	}
	return s, false
}

// Excerpt strips Markdown punctuation from text and truncates it to length
// grapheme clusters, appending "..." when shortened.
func Excerpt(text string, length int) string {
	clean := strings.TrimSpace(excerptNoise.Replace(text))
	excerpt, cut := Truncate(clean, length)
	if cut {
		return strings.TrimRightFunc(excerpt, unicode.IsSpace) + "..."
	}
	return excerpt
}

// WordCount counts whitespace separated tokens. Every Han ideograph counts
// as a word of its own and standalone punctuation is not counted.
func WordCount(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			count++
			inWord = false
		case unicode.IsSpace(r):
			inWord = false
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			// Punctuation never starts a word.
		default:
			if !inWord {
				count++
				inWord = true
			}
		}
	}
	return count
}

// ReadingTime returns the estimated reading time in whole minutes.
func ReadingTime(words int) int {
	if words <= 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / WordsPerMinute))
}

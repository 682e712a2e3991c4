package annotations

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
	"github.com/studydeck/studydeck-cli/internal/logger"
)

var placeholderPattern = regexp.MustCompile(`<!-- ([A-Z][A-Z-]*):(\d+) -->`)

// occurrence is a placeholder found in converted markup.
type occurrence struct {
	start, end int
	token      domain.PlaceholderToken
	fragment   string
	used       bool
}

// Splice replaces every placeholder in markup with the rendered fragment of
// its block. For each kind and each ordinal in ascending order, the first
// remaining occurrence of the token is replaced. Fragments are never scanned
// for placeholders themselves.
//
// A block whose token is absent from markup, or a token left over after all
// blocks were consumed, yields *domain.DanglingPlaceholderError.
func Splice(markup string, ext *Extraction, r *Renderer) (string, error) {
	occurrences := findPlaceholders(markup)

	for _, kind := range domain.SplicedKinds() {
		for _, block := range ext.Blocks[kind] {
			occ := firstUnused(occurrences, block.Token())
			if occ == nil {
				return "", &domain.DanglingPlaceholderError{Token: block.Token(), Missing: true}
			}
			fragment, err := r.Render(block)
			if err != nil {
				return "", err
			}
			occ.fragment = fragment
			occ.used = true
		}
	}

	var out strings.Builder
	out.Grow(len(markup))
	cursor := 0
	for i := range occurrences {
		occ := &occurrences[i]
		if !occ.used {
			return "", &domain.DanglingPlaceholderError{Token: occ.token}
		}
		out.WriteString(markup[cursor:occ.start])
		out.WriteString(occ.fragment)
		cursor = occ.end
	}
	out.WriteString(markup[cursor:])

	logger.Debug("Spliced %d fragments", len(occurrences))
	return out.String(), nil
}

// findPlaceholders returns the placeholder tokens in markup in position order.
// Comments naming unknown kinds are not placeholders and are skipped.
func findPlaceholders(markup string) []occurrence {
	var found []occurrence
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(markup, -1) {
		kind, ok := domain.KindForPlaceholder(markup[m[2]:m[3]])
		if !ok {
			continue
		}
		ordinal, err := strconv.Atoi(markup[m[4]:m[5]])
		if err != nil {
			continue
		}
		found = append(found, occurrence{
			start: m[0],
			end:   m[1],
			token: domain.PlaceholderToken{Kind: kind, Ordinal: ordinal},
		})
	}
	return found
}

func firstUnused(occurrences []occurrence, token domain.PlaceholderToken) *occurrence {
	for i := range occurrences {
		if !occurrences[i].used && occurrences[i].token == token {
			return &occurrences[i]
		}
	}
	return nil
}

package annotations

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
	"github.com/studydeck/studydeck-cli/internal/logger"
)

var errDuplicateMeta = errors.New("duplicate @meta block ignored")

// Extraction is the result of extracting annotations from one document.
// It is passed by value between pipeline stages and never mutated after
// Extract returns.
type Extraction struct {
	// Body is the document text with parsed blocks replaced by placeholders.
	Body string

	// Meta is the decoded @meta payload, zero if absent.
	Meta domain.Meta

	// HasMeta reports whether an @meta block was found.
	HasMeta bool

	// Blocks holds parsed blocks per kind, ordered by ordinal.
	Blocks map[domain.BlockKind][]domain.Block

	// Order lists the placeholder tokens in source order.
	Order []domain.PlaceholderToken

	// Warnings holds *domain.BlockParseError values for blocks left as text.
	Warnings []error
}

// BlockCount returns the number of spliceable blocks.
func (e *Extraction) BlockCount() int {
	return len(e.Order)
}

// Extract scans raw for annotation blocks. Blocks that fail to parse stay in
// the body as literal text and are reported in Warnings. An @meta marker
// without a '{' payload is text; a malformed payload is fatal and returned
// as *domain.MetaParseError.
func Extract(raw string) (*Extraction, error) {
	ext := &Extraction{
		Blocks: make(map[domain.BlockKind][]domain.Block),
	}

	var body strings.Builder
	body.Grow(len(raw))
	cursor := 0

	for _, m := range scan(raw) {
		if m.kind == domain.KindMeta {
			start, end, err := objectSpan(raw, m.payload, m.end)
			if errors.Is(err, errNoPayload) {
				// "@meta" followed by prose is ordinary text.
				continue
			}
			if ext.HasMeta {
				ext.warn(&domain.BlockParseError{Kind: m.kind, Line: m.line, Err: errDuplicateMeta})
				continue
			}
			if err != nil {
				return nil, &domain.MetaParseError{Err: fmt.Errorf("line %d: %w", m.line, err)}
			}
			if err := json.Unmarshal([]byte(raw[start:end]), &ext.Meta); err != nil {
				return nil, &domain.MetaParseError{Err: fmt.Errorf("line %d: %w", m.line, err)}
			}
			ext.HasMeta = true
			body.WriteString(raw[cursor:m.start])
			cursor = end
			continue
		}

		payload, end, err := parseBlock(raw, m)
		if err != nil {
			ext.warn(&domain.BlockParseError{Kind: m.kind, Line: m.line, Err: err})
			continue
		}

		block := domain.Block{
			Kind:    m.kind,
			Ordinal: len(ext.Blocks[m.kind]),
			Line:    m.line,
			Payload: payload,
		}
		ext.Blocks[m.kind] = append(ext.Blocks[m.kind], block)
		ext.Order = append(ext.Order, block.Token())

		body.WriteString(raw[cursor:m.start])
		body.WriteString("\n" + block.Token().String() + "\n")
		cursor = end
	}

	body.WriteString(raw[cursor:])
	ext.Body = body.String()

	logger.Debug("Extracted %d blocks, %d warnings, meta=%t", len(ext.Order), len(ext.Warnings), ext.HasMeta)
	return ext, nil
}

func (e *Extraction) warn(err error) {
	logger.Debug("Skipped block: %v", err)
	e.Warnings = append(e.Warnings, err)
}

// parseBlock decodes and validates the payload of a non-meta marker and
// returns the offset where the block's source text ends.
func parseBlock(raw string, m marker) (domain.Payload, int, error) {
	if m.kind == domain.KindCallout {
		if first := strings.TrimLeft(raw[m.payload:m.end], " \t\r\n"); !strings.HasPrefix(first, "{") {
			return parseTextCallout(raw, m)
		}
	}

	start, end, err := objectSpan(raw, m.payload, m.end)
	if err != nil {
		return nil, 0, err
	}

	payload := newPayload(m.kind)
	if err := json.Unmarshal([]byte(raw[start:end]), payload); err != nil {
		return nil, 0, err
	}
	if err := payload.Validate(); err != nil {
		return nil, 0, err
	}
	return payload, end, nil
}

// parseTextCallout takes the trimmed region text as Markdown content.
func parseTextCallout(raw string, m marker) (domain.Payload, int, error) {
	region := raw[m.payload:m.end]
	content := strings.TrimSpace(region)
	callout := &domain.Callout{Content: content}
	if err := callout.Validate(); err != nil {
		return nil, 0, err
	}
	end := m.payload + len(strings.TrimRight(region, " \t\r\n"))
	return callout, end, nil
}

func newPayload(kind domain.BlockKind) domain.Payload {
	switch kind {
	case domain.KindQuiz:
		return &domain.Quiz{}
	case domain.KindMemoryCard:
		return &domain.MemoryCard{}
	case domain.KindExercise:
		return &domain.Exercise{}
	default:
		return &domain.Callout{}
	}
}

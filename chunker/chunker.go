package chunker

import (
	"log/slog"
	"strings"

	"github.com/poiesic/counsel/core"
)

// Chunker splits raw document text into overlapping segments sized to the
// document length. Splitting is deterministic: the same text and
// configuration always produce the same chunk sequence.
type Chunker struct {
	config *Config
	logger *slog.Logger
}

// New creates a chunker with the given options applied to the default
// configuration.
func New(opts ...ConfigOption) (*Chunker, error) {
	config := NewConfig(opts...)
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Chunker{
		config: config,
		logger: slog.Default().With("component", "chunker"),
	}, nil
}

// Chunk splits the document text into ordered chunks. Chunk size grows with
// document length within the configured range; consecutive chunks overlap by
// a size-scaled character count. Splits prefer structural boundaries
// (articles, sections, clauses, headings) over raw character positions.
//
// Returns ErrEmptyDocument when the text is empty or whitespace-only.
func (c *Chunker) Chunk(document, text string) ([]*core.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	n := len(text)
	size, overlap := c.dimensions(n)
	markers := scanSections(text)

	c.logger.Debug("chunking document",
		"document", document,
		"length", n,
		"chunkSize", size,
		"overlap", overlap,
		"sections", len(markers))

	// Short documents become a single chunk with no overlap.
	if n <= c.config.MinChunkSize {
		chunk := &core.Chunk{
			Id:       core.ChunkID(document, 0),
			Document: document,
			Seq:      0,
			Text:     text,
			Overlap:  0,
			Section:  labelFor(markers, n),
		}
		return []*core.Chunk{chunk}, nil
	}

	var chunks []*core.Chunk
	start := 0
	prevEnd := 0

	for start < n {
		seq := len(chunks)

		end := start + size
		if end >= n || seq == c.config.MaxChunks-1 {
			// Final chunk absorbs the remainder
			end = n
		} else {
			end = c.splitPoint(text, markers, start, end)
		}

		chunkOverlap := 0
		if seq > 0 {
			chunkOverlap = prevEnd - start
		}

		chunks = append(chunks, &core.Chunk{
			Id:       core.ChunkID(document, seq),
			Document: document,
			Seq:      seq,
			Text:     text[start:end],
			Overlap:  chunkOverlap,
			Section:  labelFor(markers, end),
		})

		if end >= n {
			break
		}

		next := end - overlap
		if next <= start {
			// Guard against stalls on degenerate configurations
			next = end
		}
		prevEnd = end
		start = next
	}

	return chunks, nil
}

// dimensions computes the chunk size and overlap for a document of the given
// length. Size interpolates linearly from MinChunkSize to MaxChunkSize over
// SizeRampLength; overlap scales with the chosen size. The chunk ceiling can
// push the size past MaxChunkSize so coverage is never dropped.
func (c *Chunker) dimensions(textLen int) (size, overlap int) {
	cfg := c.config

	ramp := textLen
	if ramp > cfg.SizeRampLength {
		ramp = cfg.SizeRampLength
	}
	size = cfg.MinChunkSize + (cfg.MaxChunkSize-cfg.MinChunkSize)*ramp/cfg.SizeRampLength

	sizeSpan := cfg.MaxChunkSize - cfg.MinChunkSize
	if sizeSpan == 0 {
		overlap = cfg.MinOverlap
	} else {
		overlap = cfg.MinOverlap + (cfg.MaxOverlap-cfg.MinOverlap)*(size-cfg.MinChunkSize)/sizeSpan
	}

	// Enforce the chunk ceiling by widening the stride
	stride := size - overlap
	if maxCovered := stride * cfg.MaxChunks; maxCovered < textLen {
		stride = (textLen + cfg.MaxChunks - 1) / cfg.MaxChunks
		size = stride + overlap
	}

	return size, overlap
}

// splitPoint chooses where to end a chunk that starts at start and may
// extend at most to limit. Preference order: structural marker, sentence
// boundary, whitespace, hard cut. The returned position always yields a
// chunk of at least MinChunkSize characters.
func (c *Chunker) splitPoint(text string, markers []sectionMarker, start, limit int) int {
	lo := start + c.config.MinChunkSize
	if lo >= limit {
		return limit
	}

	if pos := findMarkerIn(markers, lo, limit); pos > 0 {
		return pos
	}

	if pos := lastSentenceEnd(text, lo, limit); pos > 0 {
		return pos
	}

	if idx := strings.LastIndexAny(text[lo:limit], " \t\n"); idx >= 0 {
		return lo + idx + 1
	}

	return limit
}

// lastSentenceEnd finds the latest sentence boundary in (lo, limit): a
// terminator followed by whitespace. Returns the position just past the
// terminator, or -1 when none exists.
func lastSentenceEnd(text string, lo, limit int) int {
	for i := limit - 1; i > lo; i-- {
		ch := text[i]
		if ch != '.' && ch != '!' && ch != '?' {
			continue
		}
		if i+1 < len(text) {
			next := text[i+1]
			if next != ' ' && next != '\t' && next != '\n' {
				continue
			}
		}
		return i + 1
	}
	return -1
}

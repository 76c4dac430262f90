package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/poiesic/counsel/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// filler produces deterministic sentence-structured text of exactly n characters.
func filler(n int) string {
	const sentence = "The insured shall provide written notice of any claim within thirty days. "
	return strings.Repeat(sentence, n/len(sentence)+1)[:n]
}

func TestChunk_EmptyDocument(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	for _, text := range []string{"", "   ", "\n\t\n"} {
		chunks, err := c.Chunk("doc-1", text)
		require.ErrorIs(t, err, ErrEmptyDocument)
		assert.Nil(t, chunks)
	}
}

func TestChunk_ShortDocument(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	text := filler(500)
	chunks, err := c.Chunk("doc-1", text)
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].Seq)
	assert.Equal(t, text, chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Overlap)
	assert.Equal(t, "doc-1", chunks[0].Document)
	assert.Equal(t, core.ChunkID("doc-1", 0), chunks[0].Id)
}

func TestChunk_OverlapWithinRange(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	text := filler(10_000)
	chunks, err := c.Chunk("doc-1", text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, chunk := range chunks {
		if i == 0 {
			assert.Equal(t, 0, chunk.Overlap)
			continue
		}

		assert.GreaterOrEqual(t, chunk.Overlap, 200, "chunk %d overlap", i)
		assert.LessOrEqual(t, chunk.Overlap, 500, "chunk %d overlap", i)

		// The recorded overlap must be actual shared text
		prev := chunks[i-1]
		assert.Equal(t,
			prev.Text[len(prev.Text)-chunk.Overlap:],
			chunk.Text[:chunk.Overlap],
			"chunk %d shared prefix", i)
	}
}

func TestChunk_CoversInput(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	for _, size := range []int{2_000, 10_000, 60_000, 150_000} {
		text := filler(size)
		chunks, err := c.Chunk("doc-1", text)
		require.NoError(t, err)

		covered := 0
		for _, chunk := range chunks {
			covered += chunk.Length() - chunk.Overlap
		}
		assert.Equal(t, size, covered, "document of %d chars", size)
	}
}

func TestChunk_Ceiling(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	chunks, err := c.Chunk("doc-1", filler(300_000))
	require.NoError(t, err)

	assert.LessOrEqual(t, len(chunks), 50)
}

func TestChunk_Deterministic(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	text := filler(25_000)
	first, err := c.Chunk("doc-1", text)
	require.NoError(t, err)
	second, err := c.Chunk("doc-1", text)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Id, second[i].Id)
		assert.Equal(t, first[i].Text, second[i].Text)
		assert.Equal(t, first[i].Overlap, second[i].Overlap)
		assert.Equal(t, first[i].Section, second[i].Section)
	}
}

func TestChunk_SequenceAndIDs(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	chunks, err := c.Chunk("policy-42", filler(12_000))
	require.NoError(t, err)

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Seq)
		assert.Equal(t, core.ChunkID("policy-42", i), chunk.Id)
		assert.Equal(t, "policy-42", chunk.Document)
	}
}

func TestChunk_SplitsAtSectionMarker(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	// Heading placed so it falls inside the split window of the first chunk
	prefix := strings.Repeat("word ", 309) + "puff\n" // 1550 chars
	heading := "Section 2.1 Exclusions\n"
	body := strings.Repeat("The insurer shall pay covered losses. ", 90)
	text := prefix + heading + body

	chunks, err := c.Chunk("doc-1", text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	// First chunk ends exactly where the heading begins
	assert.Equal(t, len(prefix), chunks[0].Length())
	assert.Equal(t, "Section 2.1 Exclusions", chunks[1].Section)
}

func TestChunk_SectionLabels(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	var b strings.Builder
	for i := 1; i <= 6; i++ {
		fmt.Fprintf(&b, "Section %d. Coverage Terms\n", i)
		b.WriteString(strings.Repeat("The policy covers losses arising from water damage. ", 40))
		b.WriteString("\n")
	}

	chunks, err := c.Chunk("doc-1", b.String())
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	assert.Equal(t, "Section 1. Coverage Terms", chunks[0].Section)
	for _, chunk := range chunks {
		assert.Contains(t, chunk.Section, "Section")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		opts []ConfigOption
		want error
	}{
		{"inverted chunk range", []ConfigOption{WithChunkSizeRange(3500, 1500)}, ErrInvalidChunkRange},
		{"zero min chunk", []ConfigOption{WithChunkSizeRange(0, 3500)}, ErrInvalidChunkRange},
		{"inverted overlap range", []ConfigOption{WithOverlapRange(500, 200)}, ErrInvalidOverlapRange},
		{"overlap swallows chunk", []ConfigOption{WithChunkSizeRange(400, 600), WithOverlapRange(200, 450)}, ErrInvalidOverlapRange},
		{"zero max chunks", []ConfigOption{WithMaxChunks(0)}, ErrInvalidMaxChunks},
		{"zero ramp", []ConfigOption{WithSizeRampLength(0)}, ErrInvalidSizeRamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestChunk_CustomCeiling(t *testing.T) {
	c, err := New(WithMaxChunks(5))
	require.NoError(t, err)

	chunks, err := c.Chunk("doc-1", filler(40_000))
	require.NoError(t, err)

	assert.LessOrEqual(t, len(chunks), 5)

	// Coverage still holds even though chunks outgrew the configured max size
	covered := 0
	for _, chunk := range chunks {
		covered += chunk.Length() - chunk.Overlap
	}
	assert.Equal(t, 40_000, covered)
}

package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchunk/internal/adapter/jsonsplit"
	"docchunk/internal/domain"
)

func autoSettings(t *testing.T) domain.ChunkingSettings {
	t.Helper()
	s, err := domain.NewChunkingSettings("auto", 100, 0)
	require.NoError(t, err)
	return s
}

func TestCompositeChunkerRoutesJSON(t *testing.T) {
	c := NewCompositeChunker(NewJSONChunker(jsonsplit.NewRecursiveSplitter()), NewFixedSizeChunker())

	chunks, err := c.Chunk([]domain.SourceDocument{source(`{ "a" : 1 }`, "/a.json")}, autoSettings(t))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, `{"a":1}`, chunks[0].Content)
}

func TestCompositeChunkerFallsBackForText(t *testing.T) {
	c := NewCompositeChunker(NewJSONChunker(jsonsplit.NewRecursiveSplitter()), NewFixedSizeChunker())

	for _, content := range []string{"plain text", "{broken", `[1, 2, 3]`} {
		chunks, err := c.Chunk([]domain.SourceDocument{source(content, "/a.txt")}, autoSettings(t))
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, content, chunks[0].Content)
	}
}

func TestCompositeChunkerFallsBackOnSplitterError(t *testing.T) {
	c := NewCompositeChunker(NewJSONChunker(&stubSplitter{err: jsonsplit.ErrUnsupportedShape}), NewFixedSizeChunker())

	chunks, err := c.Chunk([]domain.SourceDocument{source(`{"a":1}`, "/a.json")}, autoSettings(t))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, `{"a":1}`, chunks[0].Content)
}

func TestNewByStrategy(t *testing.T) {
	for _, s := range domain.Strategies() {
		c, err := New(s)
		require.NoError(t, err, s)
		assert.NotNil(t, c)
	}

	_, err := New("layout")
	assert.ErrorIs(t, err, domain.ErrUnknownStrategy)
}

package chunker

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchunk/internal/adapter/jsonsplit"
	"docchunk/internal/domain"
)

type stubSplitter struct {
	fragments []any
	err       error
	gotSize   int
}

func (s *stubSplitter) Split(value any, maxChunkSize int) ([]any, error) {
	s.gotSize = maxChunkSize
	return s.fragments, s.err
}

func settings(t *testing.T, size int) domain.ChunkingSettings {
	t.Helper()
	s, err := domain.NewChunkingSettings("json", size, 0)
	require.NoError(t, err)
	return s
}

func source(content, url string) domain.SourceDocument {
	return domain.SourceDocument{Content: content, Source: url}
}

func TestJSONChunkerSingleSmallDocument(t *testing.T) {
	c := NewJSONChunker(jsonsplit.NewRecursiveSplitter())

	chunks, err := c.Chunk([]domain.SourceDocument{source(`{"a": 1, "b": "two"}`, "/data/in.json")}, settings(t, 500))
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, 0, chunks[0].Chunk)
	assert.Equal(t, 0, chunks[0].Offset)
	assert.Equal(t, 0, chunks[0].Metadata["offset"])
	assert.Equal(t, `{"a":1,"b":"two"}`, chunks[0].Content)
	assert.Equal(t, "/data/in.json", chunks[0].Source)
}

func TestJSONChunkerConcatenatesDocuments(t *testing.T) {
	c := NewJSONChunker(jsonsplit.NewRecursiveSplitter())

	docs := []domain.SourceDocument{
		source(`{"a":`, "https://example.com/part1.json"),
		source(`1}`, "https://example.com/part2.json"),
	}
	chunks, err := c.Chunk(docs, settings(t, 500))
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, `{"a":1}`, chunks[0].Content)
	assert.Equal(t, "https://example.com/part1.json", chunks[0].Source)
}

func TestJSONChunkerIndexesAndOffsets(t *testing.T) {
	first := jsonsplit.NewObject()
	first.Set("name", "ünïcode")
	second := jsonsplit.NewObject()
	second.Set("n", 1)
	third := jsonsplit.NewObject()
	third.Set("list", []any{"x", "y"})

	splitter := &stubSplitter{fragments: []any{first, second, third}}
	c := NewJSONChunker(splitter)

	docs := []domain.SourceDocument{
		source(`{"ignored":`, "/first.json"),
		source(`true}`, "/second.json"),
	}
	chunks, err := c.Chunk(docs, settings(t, 64))
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, 64, splitter.gotSize)

	assert.Equal(t, `{"name":"ünïcode"}`, chunks[0].Content)
	assert.Equal(t, `{"n":1}`, chunks[1].Content)
	assert.Equal(t, `{"list":["x","y"]}`, chunks[2].Content)

	offset := 0
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Chunk)
		assert.Equal(t, offset, chunk.Offset)
		assert.Equal(t, "/first.json", chunk.Source)
		offset += utf8.RuneCountInString(chunk.Content)
	}
	assert.Equal(t, 18, chunks[1].Offset)
}

func TestJSONChunkerRealSplitOffsets(t *testing.T) {
	c := NewJSONChunker(jsonsplit.NewRecursiveSplitter(jsonsplit.WithMinChunkSize(1)))

	chunks, err := c.Chunk([]domain.SourceDocument{
		source(`{"a":"xxxxxxxxxx","b":"yyyyyyyyyy","c":"zzzzzzzzzz"}`, "/in.json"),
	}, settings(t, 40))
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, 0, chunks[0].Offset)
	assert.Equal(t, 35, chunks[1].Offset)
	assert.NotEqual(t, chunks[0].ID, chunks[1].ID)
}

func TestJSONChunkerKeepsHTMLCharacters(t *testing.T) {
	c := NewJSONChunker(jsonsplit.NewRecursiveSplitter(jsonsplit.WithMinChunkSize(1)))

	docs := []domain.SourceDocument{source(`{"q":"a<b && c>d","n":{"x":"<"}}`, "/page.json")}
	chunks, err := c.Chunk(docs, settings(t, 25))
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, `{"q":"a<b && c>d"}`, chunks[0].Content)
	assert.Equal(t, 0, chunks[0].Offset)
	assert.Equal(t, `{"n":{"x":"<"}}`, chunks[1].Content)
	assert.Equal(t, 18, chunks[1].Offset)
}

func TestJSONChunkerMalformedInput(t *testing.T) {
	c := NewJSONChunker(jsonsplit.NewRecursiveSplitter())

	chunks, err := c.Chunk([]domain.SourceDocument{source("{not json", "/bad.json")}, settings(t, 500))
	assert.Nil(t, chunks)

	var malformed *domain.MalformedInputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "/bad.json", malformed.Source)
}

func TestJSONChunkerEmptyInput(t *testing.T) {
	c := NewJSONChunker(jsonsplit.NewRecursiveSplitter())

	chunks, err := c.Chunk(nil, settings(t, 500))
	assert.Nil(t, chunks)
	assert.ErrorIs(t, err, domain.ErrNoDocuments)
}

func TestJSONChunkerPropagatesSplitterError(t *testing.T) {
	boom := errors.New("boom")
	c := NewJSONChunker(&stubSplitter{err: boom})

	chunks, err := c.Chunk([]domain.SourceDocument{source(`{}`, "/x.json")}, settings(t, 500))
	assert.Nil(t, chunks)
	assert.Same(t, boom, err)
}

func TestJSONChunkerUnsupportedShape(t *testing.T) {
	c := NewJSONChunker(jsonsplit.NewRecursiveSplitter())

	_, err := c.Chunk([]domain.SourceDocument{source(`[1, 2]`, "/x.json")}, settings(t, 500))
	assert.ErrorIs(t, err, jsonsplit.ErrUnsupportedShape)
}

func TestJSONChunkerDoesNotMutateInput(t *testing.T) {
	c := NewJSONChunker(jsonsplit.NewRecursiveSplitter())
	docs := []domain.SourceDocument{source(`{"a":1}`, "/x.json")}

	_, err := c.Chunk(docs, settings(t, 500))
	require.NoError(t, err)
	assert.Equal(t, source(`{"a":1}`, "/x.json"), docs[0])
}

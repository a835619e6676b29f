package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchunk/internal/domain"
)

type countingChunker struct {
	calls int
	err   error
}

func (c *countingChunker) Chunk(documents []domain.SourceDocument, settings domain.ChunkingSettings) ([]domain.SourceDocument, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	if len(documents) == 0 {
		return nil, domain.ErrNoDocuments
	}
	return []domain.SourceDocument{
		domain.NewSourceDocumentFromMetadata(documents[0].Content, documents[0].Source, map[string]any{"offset": 0}, 0),
	}, nil
}

var jsonSettings = domain.ChunkingSettings{Strategy: domain.StrategyJSON, Size: 100}

func docs(content, source string) []domain.SourceDocument {
	return []domain.SourceDocument{{Content: content, Source: source}}
}

func TestCachedChunkerHitsCache(t *testing.T) {
	inner := &countingChunker{}
	cache := NewChunkCache(10)
	c := NewCachedChunker(inner, cache)

	first, err := c.Chunk(docs(`{"a":1}`, "/a.json"), jsonSettings)
	require.NoError(t, err)
	second, err := c.Chunk(docs(`{"a":1}`, "/a.json"), jsonSettings)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)

	hits, misses := cache.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestCachedChunkerKeyIncludesSourceAndSettings(t *testing.T) {
	inner := &countingChunker{}
	c := NewCachedChunker(inner, NewChunkCache(10))

	_, _ = c.Chunk(docs(`{"a":1}`, "/a.json"), jsonSettings)
	_, _ = c.Chunk(docs(`{"a":1}`, "/b.json"), jsonSettings)
	_, _ = c.Chunk(docs(`{"a":1}`, "/a.json"), domain.ChunkingSettings{Strategy: domain.StrategyJSON, Size: 200})

	assert.Equal(t, 3, inner.calls)
}

func TestCachedChunkerDoesNotCacheErrors(t *testing.T) {
	inner := &countingChunker{err: errors.New("boom")}
	cache := NewChunkCache(10)
	c := NewCachedChunker(inner, cache)

	_, err := c.Chunk(docs("x", "/a.json"), jsonSettings)
	assert.Error(t, err)
	_, err = c.Chunk(docs("x", "/a.json"), jsonSettings)
	assert.Error(t, err)

	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 0, cache.Size())
}

func TestCachedChunkerEmptyInputPassesThrough(t *testing.T) {
	c := NewCachedChunker(&countingChunker{}, NewChunkCache(10))

	_, err := c.Chunk(nil, jsonSettings)
	assert.ErrorIs(t, err, domain.ErrNoDocuments)
}

func TestChunkCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewChunkCache(2)
	cache.Put("a", nil)
	cache.Put("b", nil)
	_, _ = cache.Get("a")
	cache.Put("c", nil)

	_, okA := cache.Get("a")
	_, okB := cache.Get("b")
	_, okC := cache.Get("c")
	assert.True(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)

	cache.Invalidate()
	assert.Equal(t, 0, cache.Size())
}

func TestChunkCacheReturnsCopies(t *testing.T) {
	cache := NewChunkCache(2)
	cache.Put("k", []domain.SourceDocument{{Content: "x", Metadata: map[string]any{"offset": 0}}})

	got, ok := cache.Get("k")
	require.True(t, ok)
	got[0].Content = "changed"
	got[0].Metadata["offset"] = 5

	again, _ := cache.Get("k")
	assert.Equal(t, "x", again[0].Content)
	assert.Equal(t, 0, again[0].Metadata["offset"])
}

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"docchunk/internal/domain"
	"docchunk/internal/port"
)

// ChunkCache is a small LRU of chunk results keyed by input content, source
// and settings.
type ChunkCache struct {
	mu      sync.Mutex
	entries map[string][]domain.SourceDocument
	order   []string
	maxSize int
	hits    int
	misses  int
}

func NewChunkCache(maxSize int) *ChunkCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &ChunkCache{
		entries: make(map[string][]domain.SourceDocument),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
	}
}

func cacheKey(documents []domain.SourceDocument, settings domain.ChunkingSettings) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%d|%s|", settings.Strategy, settings.Size, settings.Overlap, documents[0].Source)
	for _, doc := range documents {
		h.Write([]byte(doc.Content))
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}

func (c *ChunkCache) Get(key string) ([]domain.SourceDocument, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	chunks, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.moveToEnd(key)
	return cloneChunks(chunks), true
}

func (c *ChunkCache) Put(key string, chunks []domain.SourceDocument) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = cloneChunks(chunks)
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	c.entries[key] = cloneChunks(chunks)
	c.order = append(c.order, key)
}

func (c *ChunkCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]domain.SourceDocument)
	c.order = c.order[:0]
}

func (c *ChunkCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns hit and miss counts since creation.
func (c *ChunkCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *ChunkCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *ChunkCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *ChunkCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// cloneChunks copies the slice and each metadata map so callers cannot
// change cached entries.
func cloneChunks(chunks []domain.SourceDocument) []domain.SourceDocument {
	if chunks == nil {
		return nil
	}
	out := make([]domain.SourceDocument, len(chunks))
	for i, c := range chunks {
		if c.Metadata != nil {
			meta := make(map[string]any, len(c.Metadata))
			for k, v := range c.Metadata {
				meta[k] = v
			}
			c.Metadata = meta
		}
		out[i] = c
	}
	return out
}

// CachedChunker serves repeated chunk requests from a ChunkCache. Errors are
// not cached.
type CachedChunker struct {
	chunker port.DocumentChunker
	cache   *ChunkCache
}

func NewCachedChunker(chunker port.DocumentChunker, cache *ChunkCache) *CachedChunker {
	return &CachedChunker{
		chunker: chunker,
		cache:   cache,
	}
}

func (c *CachedChunker) Chunk(documents []domain.SourceDocument, settings domain.ChunkingSettings) ([]domain.SourceDocument, error) {
	if len(documents) == 0 {
		return c.chunker.Chunk(documents, settings)
	}

	key := cacheKey(documents, settings)
	if chunks, hit := c.cache.Get(key); hit {
		return chunks, nil
	}

	chunks, err := c.chunker.Chunk(documents, settings)
	if err != nil {
		return nil, err
	}

	c.cache.Put(key, chunks)
	return chunks, nil
}

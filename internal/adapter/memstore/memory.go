package memstore

import (
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"

	"docchunk/internal/domain"
)

type MemoryStore struct {
	mu      sync.RWMutex
	sources map[string]domain.SourceRecord
	chunks  map[string]domain.SourceDocument
	runs    map[string]domain.Run
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sources: make(map[string]domain.SourceRecord),
		chunks:  make(map[string]domain.SourceDocument),
		runs:    make(map[string]domain.Run),
	}
}

func (s *MemoryStore) PutSource(rec domain.SourceRecord, chunks []domain.SourceDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteSource(rec.Path)
	rec.ChunkIDs = make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		s.chunks[chunk.ID] = chunk
		rec.ChunkIDs = append(rec.ChunkIDs, chunk.ID)
	}
	s.sources[rec.Path] = rec
	return nil
}

func (s *MemoryStore) GetSource(path string) (domain.SourceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.sources[path]
	if !ok {
		return domain.SourceRecord{}, fmt.Errorf("source %s: %w", path, domain.ErrNotFound)
	}
	return rec, nil
}

// ListSources returns records sorted by path, matching the bolt key order.
func (s *MemoryStore) ListSources() ([]domain.SourceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := make([]domain.SourceRecord, 0, len(s.sources))
	for _, rec := range s.sources {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Path < recs[j].Path })
	return recs, nil
}

func (s *MemoryStore) GetChunks(path string) ([]domain.SourceDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.sources[path]
	if !ok {
		return nil, fmt.Errorf("source %s: %w", path, domain.ErrNotFound)
	}
	chunks := make([]domain.SourceDocument, 0, len(rec.ChunkIDs))
	for _, id := range rec.ChunkIDs {
		if chunk, ok := s.chunks[id]; ok {
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}

func (s *MemoryStore) DeleteSource(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteSource(path)
	return nil
}

func (s *MemoryStore) deleteSource(path string) {
	rec, ok := s.sources[path]
	if !ok {
		return
	}
	for _, id := range rec.ChunkIDs {
		delete(s.chunks, id)
	}
	delete(s.sources, path)
}

func (s *MemoryStore) PutRun(run domain.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) Runs() []domain.Run {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := make([]domain.Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	return runs
}

func (s *MemoryStore) GetStats() (domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := domain.Stats{
		TotalSources: len(s.sources),
		TotalChunks:  len(s.chunks),
	}
	if len(s.chunks) > 0 {
		total := 0
		for _, chunk := range s.chunks {
			total += utf8.RuneCountInString(chunk.Content)
		}
		stats.AvgChunkLen = float64(total) / float64(len(s.chunks))
	}
	return stats, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

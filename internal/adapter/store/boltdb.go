package store

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"go.etcd.io/bbolt"

	"docchunk/internal/domain"
)

var (
	bucketChunks  = []byte("chunks")
	bucketSources = []byte("sources")
	bucketRuns    = []byte("runs")
	bucketMeta    = []byte("meta")
)

type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketChunks, bucketSources, bucketRuns, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// PutSource replaces everything stored for rec.Path in one transaction.
// rec.ChunkIDs is overwritten with the IDs of chunks.
func (s *BoltStore) PutSource(rec domain.SourceRecord, chunks []domain.SourceDocument) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := deleteSource(tx, rec.Path); err != nil {
			return err
		}

		chunkBucket := tx.Bucket(bucketChunks)
		rec.ChunkIDs = make([]string, 0, len(chunks))
		for _, chunk := range chunks {
			data, err := json.Marshal(chunk)
			if err != nil {
				return err
			}
			if err := chunkBucket.Put([]byte(chunk.ID), data); err != nil {
				return err
			}
			rec.ChunkIDs = append(rec.ChunkIDs, chunk.ID)
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketSources).Put([]byte(rec.Path), data)
	})
}

func (s *BoltStore) GetSource(path string) (domain.SourceRecord, error) {
	var rec domain.SourceRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSources).Get([]byte(path))
		if data == nil {
			return fmt.Errorf("source %s: %w", path, domain.ErrNotFound)
		}
		return json.Unmarshal(data, &rec)
	})
	return rec, err
}

func (s *BoltStore) ListSources() ([]domain.SourceRecord, error) {
	var recs []domain.SourceRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSources).ForEach(func(k, v []byte) error {
			var rec domain.SourceRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			recs = append(recs, rec)
			return nil
		})
	})
	return recs, err
}

// GetChunks returns the chunks of path in the order they were produced.
func (s *BoltStore) GetChunks(path string) ([]domain.SourceDocument, error) {
	var chunks []domain.SourceDocument
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSources).Get([]byte(path))
		if data == nil {
			return fmt.Errorf("source %s: %w", path, domain.ErrNotFound)
		}
		var rec domain.SourceRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}

		chunkBucket := tx.Bucket(bucketChunks)
		for _, id := range rec.ChunkIDs {
			data := chunkBucket.Get([]byte(id))
			if data == nil {
				continue
			}
			var chunk domain.SourceDocument
			if err := json.Unmarshal(data, &chunk); err != nil {
				return fmt.Errorf("failed to decode chunk %s: %w", id, err)
			}
			chunks = append(chunks, chunk)
		}
		return nil
	})
	return chunks, err
}

func (s *BoltStore) DeleteSource(path string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return deleteSource(tx, path)
	})
}

func deleteSource(tx *bbolt.Tx, path string) error {
	sources := tx.Bucket(bucketSources)
	data := sources.Get([]byte(path))
	if data == nil {
		return nil
	}
	var rec domain.SourceRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	chunkBucket := tx.Bucket(bucketChunks)
	for _, id := range rec.ChunkIDs {
		if err := chunkBucket.Delete([]byte(id)); err != nil {
			return err
		}
	}
	return sources.Delete([]byte(path))
}

func (s *BoltStore) PutRun(run domain.Run) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(run)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketRuns).Put([]byte(run.ID), data)
	})
}

func (s *BoltStore) GetRun(id string) (domain.Run, error) {
	var run domain.Run
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketRuns).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("run %s: %w", id, domain.ErrNotFound)
		}
		return json.Unmarshal(data, &run)
	})
	return run, err
}

func (s *BoltStore) GetStats() (domain.Stats, error) {
	var stats domain.Stats
	err := s.db.View(func(tx *bbolt.Tx) error {
		err := tx.Bucket(bucketSources).ForEach(func(k, v []byte) error {
			stats.TotalSources++
			return nil
		})
		if err != nil {
			return err
		}

		totalLen := 0
		err = tx.Bucket(bucketChunks).ForEach(func(k, v []byte) error {
			var chunk domain.SourceDocument
			if err := json.Unmarshal(v, &chunk); err != nil {
				return err
			}
			stats.TotalChunks++
			totalLen += utf8.RuneCountInString(chunk.Content)
			return nil
		})
		if err != nil {
			return err
		}
		if stats.TotalChunks > 0 {
			stats.AvgChunkLen = float64(totalLen) / float64(stats.TotalChunks)
		}
		return nil
	})
	return stats, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

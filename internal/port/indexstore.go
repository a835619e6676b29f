package port

import "docchunk/internal/domain"

// DocumentStore persists chunk documents grouped by the file they came from.
type DocumentStore interface {
	// PutSource replaces the record and chunks stored for rec.Path.
	PutSource(rec domain.SourceRecord, chunks []domain.SourceDocument) error

	GetSource(path string) (domain.SourceRecord, error)

	ListSources() ([]domain.SourceRecord, error)

	GetChunks(path string) ([]domain.SourceDocument, error)

	DeleteSource(path string) error

	PutRun(run domain.Run) error

	GetStats() (domain.Stats, error)

	Close() error
}

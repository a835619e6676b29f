package port

import "docchunk/internal/domain"

// DocumentChunker cuts an ordered list of documents, treated as one logical
// document, into chunk documents.
type DocumentChunker interface {
	Chunk(documents []domain.SourceDocument, settings domain.ChunkingSettings) ([]domain.SourceDocument, error)
}

// JSONSplitter splits a decoded JSON value into fragments whose serialized
// size stays within maxChunkSize wherever the structure allows.
type JSONSplitter interface {
	Split(value any, maxChunkSize int) ([]any, error)
}

package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docchunk/internal/adapter/fs"
	"docchunk/internal/domain"
	"docchunk/internal/logger"
	"docchunk/internal/port"
)

// ChunkUseCase chunks documents and keeps a store of chunked files in sync
// with a directory.
type ChunkUseCase struct {
	store     port.DocumentStore
	walker    port.FileWalker
	chunker   port.DocumentChunker
	settings  domain.ChunkingSettings
	blockSize int
	log       logger.Logger
}

// NewChunkUseCase creates a new chunk use case. store and walker may be nil
// when only ChunkDocuments and ChunkFiles are used.
func NewChunkUseCase(
	store port.DocumentStore,
	walker port.FileWalker,
	chunker port.DocumentChunker,
	settings domain.ChunkingSettings,
	blockSize int,
	log logger.Logger,
) *ChunkUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ChunkUseCase{
		store:     store,
		walker:    walker,
		chunker:   chunker,
		settings:  settings,
		blockSize: blockSize,
		log:       log,
	}
}

// ProgressFunc is called after each file is processed.
type ProgressFunc func(processed, total int, currentFile string)

// IndexResult contains the results of an indexing operation.
type IndexResult struct {
	RunID         string
	FilesChunked  int
	FilesSkipped  int
	FilesDeleted  int
	ChunksCreated int
	Errors        []string
}

// ChunkDocuments chunks documents as one logical document.
func (u *ChunkUseCase) ChunkDocuments(documents []domain.SourceDocument) ([]domain.SourceDocument, error) {
	chunks, err := u.chunker.Chunk(documents, u.settings)
	if err != nil {
		return nil, err
	}
	if len(documents) > 0 {
		u.log.Debug("chunked documents", "source", documents[0].Source, "parts", len(documents), "chunks", len(chunks))
	}
	return chunks, nil
}

// ChunkFiles reads paths in order as consecutive parts of one logical
// document and chunks them. The first path becomes the source of every chunk.
func (u *ChunkUseCase) ChunkFiles(paths []string) ([]domain.SourceDocument, error) {
	if len(paths) == 0 {
		return nil, domain.ErrNoDocuments
	}

	var documents []domain.SourceDocument
	for _, path := range paths {
		docs, err := fs.ReadDocuments(path, u.blockSize)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		for _, doc := range docs {
			doc.Source = paths[0]
			documents = append(documents, doc)
		}
	}

	return u.ChunkDocuments(documents)
}

// Index chunks every changed file under root into the store, removes files
// that disappeared and records the run. Per-file failures are collected in
// the result rather than aborting the run.
func (u *ChunkUseCase) Index(root string, progress ProgressFunc) (*IndexResult, error) {
	if u.store == nil || u.walker == nil {
		return nil, errors.New("index requires a store and a file walker")
	}

	run := domain.Run{
		ID:        uuid.NewString(),
		Root:      root,
		StartedAt: time.Now().UTC(),
	}
	result := &IndexResult{RunID: run.ID}
	log := u.log.With("run", run.ID)

	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}
	log.Info("scanned directory", "root", root, "files", len(files))

	existing, err := u.store.ListSources()
	if err != nil {
		return nil, fmt.Errorf("failed to list existing sources: %w", err)
	}
	existingMap := make(map[string]domain.SourceRecord, len(existing))
	for _, rec := range existing {
		existingMap[rec.Path] = rec
	}

	seenPaths := make(map[string]bool, len(files))

	for i, file := range files {
		seenPaths[file.Path] = true
		modTime := time.Unix(0, file.ModTime).UTC()

		if rec, ok := existingMap[file.Path]; ok && !rec.ModTime.Before(modTime) {
			result.FilesSkipped++
			log.Debug("unchanged", "file", file.Path)
			reportProgress(progress, i+1, len(files), file.Path)
			continue
		}

		n, err := u.indexFile(file.Path, modTime)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to chunk %s: %v", file.Path, err))
			log.Warn("chunking failed", "file", file.Path, "err", err)
		} else {
			result.FilesChunked++
			result.ChunksCreated += n
			log.Debug("chunked file", "file", file.Path, "chunks", n)
		}
		reportProgress(progress, i+1, len(files), file.Path)
	}

	for path := range existingMap {
		if seenPaths[path] {
			continue
		}
		if err := u.store.DeleteSource(path); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to delete %s: %v", path, err))
			continue
		}
		result.FilesDeleted++
		log.Debug("removed vanished file", "file", path)
	}

	run.FinishedAt = time.Now().UTC()
	run.FilesChunked = result.FilesChunked
	run.FilesSkipped = result.FilesSkipped
	run.FilesDeleted = result.FilesDeleted
	run.ChunksCreated = result.ChunksCreated
	run.Errors = result.Errors
	if err := u.store.PutRun(run); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	log.Info("index complete",
		"chunked", result.FilesChunked,
		"skipped", result.FilesSkipped,
		"deleted", result.FilesDeleted,
		"chunks", result.ChunksCreated,
		"errors", len(result.Errors),
	)
	return result, nil
}

// indexFile chunks one file and replaces its stored chunks. A file that fails
// to chunk keeps its previous chunks.
func (u *ChunkUseCase) indexFile(path string, modTime time.Time) (int, error) {
	docs, err := fs.ReadDocuments(path, u.blockSize)
	if err != nil {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}

	chunks, err := u.ChunkDocuments(docs)
	if err != nil {
		return 0, err
	}

	rec := domain.SourceRecord{
		Path:     path,
		ModTime:  modTime,
		Strategy: string(u.settings.Strategy),
	}
	if err := u.store.PutSource(rec, chunks); err != nil {
		return 0, fmt.Errorf("failed to store chunks: %w", err)
	}
	return len(chunks), nil
}

func reportProgress(progress ProgressFunc, processed, total int, file string) {
	if progress != nil {
		progress(processed, total, file)
	}
}

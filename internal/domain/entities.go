package domain

import "time"

// SourceRecord tracks one indexed file and the chunks stored for it.
type SourceRecord struct {
	Path     string    `json:"path"`
	ModTime  time.Time `json:"mod_time"`
	Strategy string    `json:"strategy"`
	ChunkIDs []string  `json:"chunk_ids"`
}

// Run summarizes one index pass over a directory.
type Run struct {
	ID            string    `json:"id"`
	Root          string    `json:"root"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	FilesChunked  int       `json:"files_chunked"`
	FilesSkipped  int       `json:"files_skipped"`
	FilesDeleted  int       `json:"files_deleted"`
	ChunksCreated int       `json:"chunks_created"`
	Errors        []string  `json:"errors,omitempty"`
}

// Stats describes the current contents of a document store.
type Stats struct {
	TotalSources int
	TotalChunks  int
	AvgChunkLen  float64
}

package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
	"path"
	"strings"
)

const (
	azureBlobHost       = "blob.core.windows.net"
	sasTokenPlaceholder = "_SAS_TOKEN_PLACEHOLDER_"
)

// SourceDocument is one unit of text: either an input part handed to a
// chunker or a chunk produced by one.
type SourceDocument struct {
	ID         string         `json:"id"`
	Content    string         `json:"content"`
	Source     string         `json:"source"`
	Title      string         `json:"title,omitempty"`
	Chunk      int            `json:"chunk"`
	Offset     int            `json:"offset"`
	PageNumber *int           `json:"page_number,omitempty"`
	ChunkID    string         `json:"chunk_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// NewSourceDocumentFromMetadata builds a complete document for the chunk at
// position idx of documentURL. Known metadata keys (id, source, title, chunk,
// offset, page_number, chunk_id) override the derived values.
func NewSourceDocumentFromMetadata(content, documentURL string, metadata map[string]any, idx int) SourceDocument {
	fileURL, filePath, host := splitDocumentURL(documentURL)

	hash := sha1.Sum([]byte(fmt.Sprintf("%s_%d", fileURL, idx)))
	defaultID := "doc_" + hex.EncodeToString(hash[:])

	defaultSource := fileURL
	if strings.Contains(host, azureBlobHost) {
		defaultSource += sasTokenPlaceholder
	}

	doc := SourceDocument{
		ID:       stringOr(metadata, "id", defaultID),
		Content:  content,
		Source:   stringOr(metadata, "source", defaultSource),
		Title:    stringOr(metadata, "title", filePath),
		Chunk:    intOr(metadata, "chunk", idx),
		Offset:   intOr(metadata, "offset", 0),
		ChunkID:  stringOr(metadata, "chunk_id", ""),
		Metadata: copyMetadata(metadata),
	}
	if _, ok := metadata["page_number"]; ok {
		page := intOr(metadata, "page_number", 0)
		doc.PageNumber = &page
	}
	return doc
}

// Filename returns the last path element of the document source, without
// any query string.
func (d SourceDocument) Filename() string {
	_, filePath, _ := splitDocumentURL(d.Source)
	filePath = strings.TrimSuffix(filePath, sasTokenPlaceholder)
	return path.Base(filePath)
}

// splitDocumentURL returns scheme://host/path, the path alone and the host.
// Values without a scheme are treated as plain paths.
func splitDocumentURL(documentURL string) (fileURL, filePath, host string) {
	u, err := url.Parse(documentURL)
	if err != nil {
		raw, _, _ := strings.Cut(documentURL, "?")
		return raw, raw, ""
	}
	if u.Scheme == "" {
		return u.Path, u.Path, ""
	}
	return u.Scheme + "://" + u.Host + u.Path, u.Path, u.Host
}

func stringOr(metadata map[string]any, key, fallback string) string {
	if v, ok := metadata[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return fallback
}

func intOr(metadata map[string]any, key string, fallback int) int {
	switch v := metadata[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

func copyMetadata(metadata map[string]any) map[string]any {
	if len(metadata) == 0 {
		return nil
	}
	out := make(map[string]any, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}

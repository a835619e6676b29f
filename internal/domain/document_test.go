package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSourceDocumentFromMetadata(t *testing.T) {
	doc := NewSourceDocumentFromMetadata(
		`{"a":1}`,
		"https://example.com/data/items.json?token=secret",
		map[string]any{"offset": 42},
		3,
	)

	hash := sha1.Sum([]byte("https://example.com/data/items.json_3"))
	assert.Equal(t, "doc_"+hex.EncodeToString(hash[:]), doc.ID)
	assert.Equal(t, `{"a":1}`, doc.Content)
	assert.Equal(t, "https://example.com/data/items.json", doc.Source)
	assert.Equal(t, "/data/items.json", doc.Title)
	assert.Equal(t, 3, doc.Chunk)
	assert.Equal(t, 42, doc.Offset)
	assert.Nil(t, doc.PageNumber)
	assert.Equal(t, 42, doc.Metadata["offset"])
}

func TestNewSourceDocumentFromMetadata_PlainPath(t *testing.T) {
	doc := NewSourceDocumentFromMetadata("x", "/tmp/in.json", nil, 0)

	assert.Equal(t, "/tmp/in.json", doc.Source)
	assert.Equal(t, "/tmp/in.json", doc.Title)
	assert.Equal(t, 0, doc.Offset)
	assert.Nil(t, doc.Metadata)
}

func TestNewSourceDocumentFromMetadata_AzureBlob(t *testing.T) {
	doc := NewSourceDocumentFromMetadata("x", "https://acct.blob.core.windows.net/docs/a.json?sv=1", nil, 0)

	assert.Equal(t, "https://acct.blob.core.windows.net/docs/a.json_SAS_TOKEN_PLACEHOLDER_", doc.Source)
	assert.Equal(t, "a.json", doc.Filename())
}

func TestNewSourceDocumentFromMetadata_Overrides(t *testing.T) {
	doc := NewSourceDocumentFromMetadata("x", "/tmp/in.json", map[string]any{
		"id":          "custom",
		"source":      "s3://bucket/in.json",
		"title":       "Inventory",
		"chunk":       7,
		"page_number": 2,
		"chunk_id":    "c-7",
	}, 1)

	assert.Equal(t, "custom", doc.ID)
	assert.Equal(t, "s3://bucket/in.json", doc.Source)
	assert.Equal(t, "Inventory", doc.Title)
	assert.Equal(t, 7, doc.Chunk)
	require.NotNil(t, doc.PageNumber)
	assert.Equal(t, 2, *doc.PageNumber)
	assert.Equal(t, "c-7", doc.ChunkID)
}

func TestNewSourceDocumentFromMetadata_CopiesMetadata(t *testing.T) {
	meta := map[string]any{"offset": 1}
	doc := NewSourceDocumentFromMetadata("x", "/a.json", meta, 0)
	meta["offset"] = 99

	assert.Equal(t, 1, doc.Metadata["offset"])
}

func TestNewSourceDocumentFromMetadata_DistinctIDs(t *testing.T) {
	a := NewSourceDocumentFromMetadata("x", "/a.json", nil, 0)
	b := NewSourceDocumentFromMetadata("x", "/a.json", nil, 1)

	assert.NotEqual(t, a.ID, b.ID)
}

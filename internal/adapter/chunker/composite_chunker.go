package chunker

import (
	"github.com/tidwall/gjson"

	"docchunk/internal/domain"
)

// CompositeChunker sends JSON objects to the JSON chunker and everything
// else, including JSON the splitter cannot handle, to the fixed size chunker.
type CompositeChunker struct {
	json     *JSONChunker
	fallback *FixedSizeChunker
}

func NewCompositeChunker(json *JSONChunker, fallback *FixedSizeChunker) *CompositeChunker {
	return &CompositeChunker{
		json:     json,
		fallback: fallback,
	}
}

func (c *CompositeChunker) Chunk(documents []domain.SourceDocument, settings domain.ChunkingSettings) ([]domain.SourceDocument, error) {
	if len(documents) == 0 {
		return nil, domain.ErrNoDocuments
	}

	if !isJSONObject(concatContent(documents)) {
		return c.fallback.Chunk(documents, settings)
	}

	chunks, err := c.json.Chunk(documents, settings)
	if err != nil {
		return c.fallback.Chunk(documents, settings)
	}
	return chunks, nil
}

func isJSONObject(content string) bool {
	return gjson.Valid(content) && gjson.Parse(content).IsObject()
}

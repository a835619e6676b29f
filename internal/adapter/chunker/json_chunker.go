package chunker

import (
	"strings"
	"unicode/utf8"

	"docchunk/internal/adapter/jsonsplit"
	"docchunk/internal/domain"
	"docchunk/internal/port"
)

// JSONChunker joins its input documents into one JSON document and lets a
// structural splitter decide the chunk boundaries.
type JSONChunker struct {
	splitter port.JSONSplitter
}

func NewJSONChunker(splitter port.JSONSplitter) *JSONChunker {
	return &JSONChunker{splitter: splitter}
}

// Chunk returns one document per fragment produced by the splitter. The offset
// of each chunk is the running length of the serialized fragments before it,
// which approximates but does not equal its position in the source text.
// Splitter errors are returned unchanged.
func (c *JSONChunker) Chunk(documents []domain.SourceDocument, settings domain.ChunkingSettings) ([]domain.SourceDocument, error) {
	if len(documents) == 0 {
		return nil, domain.ErrNoDocuments
	}
	documentURL := documents[0].Source

	value, err := jsonsplit.Decode(concatContent(documents))
	if err != nil {
		return nil, &domain.MalformedInputError{Source: documentURL, Err: err}
	}

	fragments, err := c.splitter.Split(value, settings.Size)
	if err != nil {
		return nil, err
	}

	chunks := make([]domain.SourceDocument, 0, len(fragments))
	offset := 0
	for idx, fragment := range fragments {
		content, err := jsonsplit.Encode(fragment)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, domain.NewSourceDocumentFromMetadata(
			content,
			documentURL,
			map[string]any{"offset": offset},
			idx,
		))
		offset += utf8.RuneCountInString(content)
	}
	return chunks, nil
}

func concatContent(documents []domain.SourceDocument) string {
	var b strings.Builder
	for _, doc := range documents {
		b.WriteString(doc.Content)
	}
	return b.String()
}

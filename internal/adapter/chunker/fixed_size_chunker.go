package chunker

import (
	"strings"
	"unicode/utf8"

	"docchunk/internal/domain"
)

// FixedSizeChunker packs whole lines into chunks of at most settings.Size
// characters, repeating up to settings.Overlap characters of trailing lines at
// the start of the next chunk. Lines longer than Size are cut.
type FixedSizeChunker struct{}

func NewFixedSizeChunker() *FixedSizeChunker {
	return &FixedSizeChunker{}
}

type segment struct {
	text   string
	offset int
	runes  int
}

func (c *FixedSizeChunker) Chunk(documents []domain.SourceDocument, settings domain.ChunkingSettings) ([]domain.SourceDocument, error) {
	if len(documents) == 0 {
		return nil, domain.ErrNoDocuments
	}
	documentURL := documents[0].Source

	segments := splitSegments(concatContent(documents), settings.Size)
	if len(segments) == 0 {
		return nil, nil
	}

	var chunks []domain.SourceDocument
	start := 0

	for start < len(segments) {

		end := start
		size := 0
		var text strings.Builder

		for end < len(segments) {
			n := segments[end].runes
			if size > 0 && size+n > settings.Size {
				break
			}
			text.WriteString(segments[end].text)
			size += n
			end++
		}

		chunks = append(chunks, domain.NewSourceDocumentFromMetadata(
			text.String(),
			documentURL,
			map[string]any{"offset": segments[start].offset},
			len(chunks),
		))

		if end >= len(segments) {
			break
		}

		newStart := end - overlapSegments(segments, start, end, settings.Overlap)
		if newStart <= start {
			newStart = start + 1
		}
		start = newStart
	}

	return chunks, nil
}

func overlapSegments(segments []segment, start, end, overlap int) int {
	if overlap == 0 {
		return 0
	}

	count := 0
	size := 0

	for i := end - 1; i >= start; i-- {
		if size+segments[i].runes > overlap {
			break
		}
		size += segments[i].runes
		count++
	}

	return count
}

// splitSegments cuts content into lines that keep their trailing newline,
// breaking any line longer than limit characters.
func splitSegments(content string, limit int) []segment {
	var segments []segment
	offset := 0

	for len(content) > 0 {
		line := content
		if i := strings.IndexByte(content, '\n'); i >= 0 {
			line = content[:i+1]
		}
		content = content[len(line):]

		for len(line) > 0 {
			piece := line
			if utf8.RuneCountInString(piece) > limit {
				piece = prefixRunes(piece, limit)
			}
			n := utf8.RuneCountInString(piece)
			segments = append(segments, segment{text: piece, offset: offset, runes: n})
			offset += n
			line = line[len(piece):]
		}
	}

	return segments
}

func prefixRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

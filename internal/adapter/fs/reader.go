package fs

import (
	"fmt"
	"os"
	"unicode/utf8"

	"docchunk/internal/domain"
)

// ReadDocuments reads path as consecutive document parts of at most blockSize
// characters each. A blockSize of zero or less yields a single part. Every
// part carries path as its source.
func ReadDocuments(path string, blockSize int) ([]domain.SourceDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s is not valid UTF-8", path)
	}
	content := string(data)

	if blockSize <= 0 || utf8.RuneCountInString(content) <= blockSize {
		return []domain.SourceDocument{{Content: content, Source: path, Title: path}}, nil
	}

	var docs []domain.SourceDocument
	for len(content) > 0 {
		part := content
		n := 0
		for pos := range content {
			if n == blockSize {
				part = content[:pos]
				break
			}
			n++
		}
		docs = append(docs, domain.SourceDocument{
			Content: part,
			Source:  path,
			Title:   path,
			Chunk:   len(docs),
		})
		content = content[len(part):]
	}
	return docs, nil
}

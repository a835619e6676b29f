package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDocuments is returned when a chunker is handed an empty document list.
	ErrNoDocuments = errors.New("no documents to chunk")

	ErrInvalidSettings = errors.New("invalid chunking settings")
	ErrUnknownStrategy = errors.New("unknown chunking strategy")
	ErrNotFound        = errors.New("not found")
)

// MalformedInputError reports document content that could not be decoded.
type MalformedInputError struct {
	Source string
	Err    error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed JSON input from %s: %v", e.Source, e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

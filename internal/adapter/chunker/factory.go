package chunker

import (
	"fmt"

	"docchunk/internal/adapter/jsonsplit"
	"docchunk/internal/domain"
	"docchunk/internal/port"
)

// New returns the chunker for strategy. Splitter options only affect the
// json and auto strategies.
func New(strategy domain.ChunkingStrategy, opts ...jsonsplit.Option) (port.DocumentChunker, error) {
	switch strategy {
	case domain.StrategyJSON:
		return NewJSONChunker(jsonsplit.NewRecursiveSplitter(opts...)), nil
	case domain.StrategyFixedSizeOverlap:
		return NewFixedSizeChunker(), nil
	case domain.StrategyAuto:
		return NewCompositeChunker(
			NewJSONChunker(jsonsplit.NewRecursiveSplitter(opts...)),
			NewFixedSizeChunker(),
		), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, strategy)
	}
}

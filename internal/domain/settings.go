package domain

import "fmt"

// ChunkingStrategy names how a document list is cut into chunks.
type ChunkingStrategy string

const (
	StrategyJSON             ChunkingStrategy = "json"
	StrategyFixedSizeOverlap ChunkingStrategy = "fixed_size_overlap"
	StrategyAuto             ChunkingStrategy = "auto"
)

// Strategies lists every supported strategy.
func Strategies() []ChunkingStrategy {
	return []ChunkingStrategy{StrategyJSON, StrategyFixedSizeOverlap, StrategyAuto}
}

// ParseChunkingStrategy converts a configured name into a strategy.
func ParseChunkingStrategy(name string) (ChunkingStrategy, error) {
	for _, s := range Strategies() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// ChunkingSettings configures one chunk operation. Size is the maximum chunk
// size in characters.
type ChunkingSettings struct {
	Strategy ChunkingStrategy
	Size     int
	Overlap  int
}

// NewChunkingSettings validates and builds chunking settings.
func NewChunkingSettings(strategy string, size, overlap int) (ChunkingSettings, error) {
	s, err := ParseChunkingStrategy(strategy)
	if err != nil {
		return ChunkingSettings{}, err
	}
	if size <= 0 {
		return ChunkingSettings{}, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidSettings, size)
	}
	if overlap < 0 || overlap >= size {
		return ChunkingSettings{}, fmt.Errorf("%w: overlap must be in [0, %d), got %d", ErrInvalidSettings, size, overlap)
	}
	return ChunkingSettings{Strategy: s, Size: size, Overlap: overlap}, nil
}

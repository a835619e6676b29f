package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"docchunk/config"
	"docchunk/internal/adapter/cache"
	"docchunk/internal/adapter/chunker"
	"docchunk/internal/adapter/jsonsplit"
	"docchunk/internal/domain"
	"docchunk/internal/logger"
	"docchunk/internal/port"
	"docchunk/internal/usecase"
)

var (
	chunkStrategy string
	chunkSize     int
	chunkOverlap  int
	chunkPretty   bool
)

var chunkCmd = &cobra.Command{
	Use:   "chunk FILE...",
	Short: "Chunk files and print the chunks as JSON",
	Long: `Chunk one logical document and print the resulting chunk documents as a
JSON array. Several files are read in order and joined without a separator
before chunking; the first file is the source of every chunk.

Examples:
  docchunk chunk data.json
  docchunk chunk head.json tail.json --size 1000 --pretty
  docchunk chunk notes.txt --strategy fixed_size_overlap --overlap 50`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChunk,
}

func init() {
	rootCmd.AddCommand(chunkCmd)
	chunkCmd.Flags().StringVarP(&chunkStrategy, "strategy", "s", "", "chunking strategy (default from config)")
	chunkCmd.Flags().IntVar(&chunkSize, "size", 0, "max chunk size in characters (default from config)")
	chunkCmd.Flags().IntVar(&chunkOverlap, "overlap", -1, "overlap in characters for fixed_size_overlap (default from config)")
	chunkCmd.Flags().BoolVar(&chunkPretty, "pretty", false, "pretty-print the output")
}

func runChunk(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if chunkStrategy != "" {
		cfg.Chunking.Strategy = chunkStrategy
	}
	if chunkSize > 0 {
		cfg.Chunking.Size = chunkSize
	}
	if chunkOverlap >= 0 {
		cfg.Chunking.Overlap = chunkOverlap
	}

	uc, err := newChunkUseCase(cfg, nil, nil)
	if err != nil {
		return err
	}

	chunks, err := uc.ChunkFiles(args)
	if err != nil {
		return fmt.Errorf("chunking failed: %w", err)
	}
	if chunks == nil {
		chunks = []domain.SourceDocument{}
	}

	output, err := json.Marshal(chunks)
	if err != nil {
		return err
	}
	if chunkPretty {
		output = pretty.Pretty(output)
	} else {
		output = append(output, '\n')
	}
	_, err = cmd.OutOrStdout().Write(output)
	return err
}

// newChunkUseCase wires a chunk use case from configuration.
func newChunkUseCase(cfg *config.Config, st port.DocumentStore, walker port.FileWalker) (*usecase.ChunkUseCase, error) {
	settings, err := cfg.ChunkingSettings()
	if err != nil {
		return nil, err
	}

	chk, err := chunker.New(settings.Strategy,
		jsonsplit.WithMinChunkSize(cfg.Chunking.MinSize),
		jsonsplit.WithConvertLists(cfg.Chunking.ConvertLists),
	)
	if err != nil {
		return nil, err
	}
	if cfg.Chunking.CacheSize > 0 {
		chk = cache.NewCachedChunker(chk, cache.NewChunkCache(cfg.Chunking.CacheSize))
	}

	return usecase.NewChunkUseCase(st, walker, chk, settings, cfg.Index.BlockSize, logger.Default()), nil
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docchunk/config"
	"docchunk/internal/logger"
)

var (
	cfgFile  string
	cfg      *config.Config
	rootDir  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "docchunk",
	Short: "Split documents into bounded-size chunks for indexing",
	Long: `docchunk splits documents into chunk documents for a downstream indexing
pipeline. JSON documents are split along their structure so that every chunk
is itself valid JSON; other text is cut into overlapping fixed size chunks.

Example usage:
  docchunk chunk data.json              # Print the chunks of one document
  docchunk chunk part1.json part2.json  # Chunk two files as one document
  docchunk index .                      # Chunk and store every JSON file
  docchunk show data.json               # Show stored chunks`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		logger.SetDefault(logger.New(logger.Config{
			Level: cfg.Logging.Level,
			JSON:  cfg.Logging.JSON,
		}))

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./docchunk.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}

package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"docchunk/internal/domain"
)

// Config holds all configuration for docchunk.
type Config struct {
	Chunking ChunkingConfig `yaml:"chunking"`
	Index    IndexConfig    `yaml:"index"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ChunkingConfig holds chunking configuration.
type ChunkingConfig struct {
	Strategy     string `yaml:"strategy"`      // "json", "fixed_size_overlap", "auto"
	Size         int    `yaml:"size"`          // max characters per chunk
	Overlap      int    `yaml:"overlap"`       // fixed_size_overlap only
	MinSize      int    `yaml:"min_size"`      // json splitter; 0 = max(size-200, 50)
	ConvertLists bool   `yaml:"convert_lists"` // split arrays like objects
	CacheSize    int    `yaml:"cache_size"`    // chunk results kept in memory; 0 disables
}

// IndexConfig holds indexing configuration.
type IndexConfig struct {
	Includes  []string `yaml:"includes"`
	Excludes  []string `yaml:"excludes"`
	BlockSize int      `yaml:"block_size"` // read files as parts of this many characters; 0 = whole file
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			Strategy: string(domain.StrategyJSON),
			Size:     500,
			Overlap:  100,
		},
		Index: IndexConfig{
			Includes: []string{"**/*.json"},
			Excludes: []string{"**/node_modules/**", "**/vendor/**", "**/.git/**", "**/.docchunk/**"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ChunkingSettings validates the chunking section.
func (c *Config) ChunkingSettings() (domain.ChunkingSettings, error) {
	return domain.NewChunkingSettings(c.Chunking.Strategy, c.Chunking.Size, c.Chunking.Overlap)
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for docchunk.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "docchunk.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".docchunk", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IndexDBPath returns the path to the chunk database.
func IndexDBPath(dir string) string {
	return filepath.Join(dir, ".docchunk", "index.db")
}

// EnsureDataDir ensures the .docchunk directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".docchunk"), 0755)
}

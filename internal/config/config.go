package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given. It may be absent.
const DefaultPath = "fbasgraph.yaml"

type Config struct {
	Output struct {
		Dir    string `yaml:"dir"`
		Format string `yaml:"format"` // list or matrix
	} `yaml:"output"`
	Ranking struct {
		Damping              float64 `yaml:"damping"`
		Tolerance            float64 `yaml:"tolerance"`
		Seed                 int64   `yaml:"seed"`
		MaxExactNodes        int     `yaml:"max_exact_nodes"`
		MaxIntersectionNodes int     `yaml:"max_intersection_nodes"`
	} `yaml:"ranking"`
	Cache struct {
		Path string `yaml:"path"` // empty disables the score cache
	} `yaml:"cache"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	cfg.Output.Dir = "graphs"
	cfg.Output.Format = "list"
	cfg.Ranking.Damping = 0.85
	cfg.Ranking.Tolerance = 1e-8
	cfg.Ranking.Seed = 1
	cfg.Ranking.MaxExactNodes = 20
	cfg.Ranking.MaxIntersectionNodes = 20
	cfg.Log.Level = "info"
	return &cfg
}

// LoadConfig reads path over the defaults. A missing file is not an error;
// a malformed one is. Environment variables override the file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	}

	// 3. Override with Environment Variables if present
	if dir := os.Getenv("FBASGRAPH_OUTPUT_DIR"); dir != "" {
		cfg.Output.Dir = dir
	}
	if format := os.Getenv("FBASGRAPH_OUTPUT_FORMAT"); format != "" {
		cfg.Output.Format = format
	}
	if cache := os.Getenv("FBASGRAPH_CACHE_DB"); cache != "" {
		cfg.Cache.Path = cache
	}
	if level := os.Getenv("FBASGRAPH_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if seed := os.Getenv("FBASGRAPH_SEED"); seed != "" {
		v, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return nil, err
		}
		cfg.Ranking.Seed = v
	}

	return cfg, nil
}

// Package config provides pipeline configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the pipeline configuration shared by every stage binary.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Data   DataConfig
	Enrich EnrichConfig
	Embed  EmbedConfig
	Index  IndexConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds the data directory and source collection paths.
type DataConfig struct {
	// Dir is where every JSON artifact lands (default: ~/SmartBooks/data).
	Dir string
	// GoodreadsCSV is the Goodreads library export.
	GoodreadsCSV string
	// CorpusCSV is the best-books corpus export.
	CorpusCSV string
	// ExclusionsPath is the exclusions config (default: {data}/exclusions.json).
	ExclusionsPath string
}

// EnrichConfig holds external metadata API configuration.
type EnrichConfig struct {
	// CachePath is the enrichment response cache (default: {data}/cache/enrichment.json).
	CachePath string
	// RequestDelay is the pause between uncached lookups (default: 350ms).
	RequestDelay time.Duration
	// Limit caps how many queue entries one run fetches, 0 = no cap.
	Limit int
}

// EmbedConfig holds embedding service configuration.
type EmbedConfig struct {
	// BaseURL of the local embedding server (default: http://localhost:11434).
	BaseURL string
	// Model name served by the embedding server (default: all-minilm).
	Model string
}

// IndexConfig holds vector index configuration.
type IndexConfig struct {
	// Path is the index directory (default: {data}/index).
	Path string
	// Dims is the embedding dimensionality, 0 disables the vector field.
	Dims int
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
//
// Stage binaries register their own flags before calling LoadConfig;
// flag.Parse runs here.
func LoadConfig() (*Config, error) {
	// Define command-line flags.
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataDir := flag.String("data-dir", "", "Directory for pipeline artifacts")
	goodreadsCSV := flag.String("goodreads", "", "Path to Goodreads library export CSV")
	corpusCSV := flag.String("corpus", "", "Path to best-books corpus CSV")
	exclusionsPath := flag.String("exclusions", "", "Path to exclusions config (default: {data}/exclusions.json)")

	// Enrichment flags
	cachePath := flag.String("enrich-cache", "", "Path to enrichment cache (default: {data}/cache/enrichment.json)")
	requestDelay := flag.String("request-delay", "", "Delay between uncached API lookups (default: 350ms)")
	enrichLimit := flag.String("enrich-limit", "", "Max queue entries to fetch per run, 0 = all")

	// Embedding flags
	embedURL := flag.String("embed-url", "", "Embedding server base URL (default: http://localhost:11434)")
	embedModel := flag.String("embed-model", "", "Embedding model name (default: all-minilm)")

	// Index flags
	indexPath := flag.String("index-path", "", "Vector index directory (default: {data}/index)")
	indexDims := flag.String("index-dims", "", "Embedding dimensionality (default: 384)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	// Parse flags but don't exit on error - we want to handle it gracefully.
	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			Dir:            getConfigValue(*dataDir, "DATA_DIR", ""),
			GoodreadsCSV:   getConfigValue(*goodreadsCSV, "GOODREADS_CSV", ""),
			CorpusCSV:      getConfigValue(*corpusCSV, "CORPUS_CSV", ""),
			ExclusionsPath: getConfigValue(*exclusionsPath, "EXCLUSIONS_PATH", ""),
		},
		Enrich: EnrichConfig{
			CachePath: getConfigValue(*cachePath, "ENRICH_CACHE_PATH", ""),
			Limit:     getIntConfigValue(*enrichLimit, "ENRICH_LIMIT", 0),
		},
		Embed: EmbedConfig{
			BaseURL: getConfigValue(*embedURL, "EMBED_URL", "http://localhost:11434"),
			Model:   getConfigValue(*embedModel, "EMBED_MODEL", "all-minilm"),
		},
		Index: IndexConfig{
			Path: getConfigValue(*indexPath, "INDEX_PATH", ""),
			Dims: getIntConfigValue(*indexDims, "INDEX_DIMS", 384),
		},
	}

	// Parse the request delay.
	delayStr := getConfigValue(*requestDelay, "REQUEST_DELAY", "350ms")
	delay, err := time.ParseDuration(delayStr)
	if err != nil {
		return nil, fmt.Errorf("invalid request delay %q: %w", delayStr, err)
	}
	cfg.Enrich.RequestDelay = delay

	// Expand the data directory and everything that defaults under it.
	if err := cfg.expandDataDir(); err != nil {
		return nil, fmt.Errorf("invalid data dir: %w", err)
	}
	if err := cfg.expandDerivedPaths(); err != nil {
		return nil, err
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.Dir == "" {
		return errors.New("data dir cannot be empty after expansion")
	}

	if c.Index.Dims < 0 {
		return fmt.Errorf("invalid index dims: %d", c.Index.Dims)
	}

	if c.Enrich.Limit < 0 {
		return fmt.Errorf("invalid enrich limit: %d", c.Enrich.Limit)
	}

	// Source CSV paths can be empty - only cmd/build requires them and
	// checks for itself.

	return nil
}

// ArtifactPath returns the path of a named artifact under the data dir.
func (c *Config) ArtifactPath(name string) string {
	return filepath.Join(c.Data.Dir, name)
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataDir expands ~ and makes the path absolute.
func (c *Config) expandDataDir() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "SmartBooks", "data")

	expanded, err := expandPath(c.Data.Dir, defaultPath)
	if err != nil {
		return err
	}
	c.Data.Dir = expanded
	return nil
}

// expandDerivedPaths fills in every path that defaults under the data
// dir, expanding any operator-supplied override.
func (c *Config) expandDerivedPaths() error {
	var err error

	c.Data.ExclusionsPath, err = expandPath(c.Data.ExclusionsPath, filepath.Join(c.Data.Dir, "exclusions.json"))
	if err != nil {
		return fmt.Errorf("invalid exclusions path: %w", err)
	}

	c.Enrich.CachePath, err = expandPath(c.Enrich.CachePath, filepath.Join(c.Data.Dir, "cache", "enrichment.json"))
	if err != nil {
		return fmt.Errorf("invalid enrich cache path: %w", err)
	}

	c.Index.Path, err = expandPath(c.Index.Path, filepath.Join(c.Data.Dir, "index"))
	if err != nil {
		return fmt.Errorf("invalid index path: %w", err)
	}

	c.Data.GoodreadsCSV, err = expandPath(c.Data.GoodreadsCSV, "")
	if err != nil {
		return fmt.Errorf("invalid goodreads path: %w", err)
	}

	c.Data.CorpusCSV, err = expandPath(c.Data.CorpusCSV, "")
	if err != nil {
		return fmt.Errorf("invalid corpus path: %w", err)
	}

	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}

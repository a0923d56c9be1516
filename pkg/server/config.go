package server

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/mnohosten/laura-stem/pkg/auth"
	"github.com/mnohosten/laura-stem/pkg/compression"
)

// APIKeyConfig declares an API key loaded at startup
type APIKeyConfig struct {
	Name   string `yaml:"name"`
	Secret string `yaml:"secret"`
	Role   string `yaml:"role"`
}

// Config holds server configuration settings
type Config struct {
	Host    string `yaml:"host"`     // Server host address
	Port    int    `yaml:"port"`     // Server port
	DataDir string `yaml:"data_dir"` // Corpus directory. Empty disables the document endpoints

	Compression   string `yaml:"compression"`     // Document compression: none, snappy, zstd or gzip
	StopWordsFile string `yaml:"stop_words_file"` // Optional stop word list, reloaded on change
	Corrections   bool   `yaml:"corrections"`     // Apply the correction table in analysis
	BatchWorkers  int    `yaml:"batch_workers"`   // Goroutines per batch request. 0 means GOMAXPROCS
	MaxBatchWords int    `yaml:"max_batch_words"` // Upper bound on words per batch or stream frame
	EnableCompare bool   `yaml:"enable_compare"`  // Load the reference stemmers and lemmatizer
	StemCacheSize int    `yaml:"stem_cache_size"` // Memoized stems shared by all analyzers. 0 disables the cache

	ReadTimeout    time.Duration `yaml:"read_timeout"`     // HTTP read timeout
	WriteTimeout   time.Duration `yaml:"write_timeout"`    // HTTP write timeout
	IdleTimeout    time.Duration `yaml:"idle_timeout"`     // HTTP idle timeout
	RequestTimeout time.Duration `yaml:"request_timeout"`  // Per-request handler timeout
	Heartbeat      time.Duration `yaml:"heartbeat"`        // Websocket keepalive interval
	MaxRequestSize int64         `yaml:"max_request_size"` // Maximum request body size in bytes

	EnableCORS     bool     `yaml:"enable_cors"`     // Enable CORS middleware
	AllowedOrigins []string `yaml:"allowed_origins"` // CORS allowed origins
	AllowedMethods []string `yaml:"allowed_methods"` // CORS allowed methods
	AllowedHeaders []string `yaml:"allowed_headers"` // CORS allowed headers

	EnableGzip    bool   `yaml:"enable_gzip"`    // Gzip responses
	EnableLogging bool   `yaml:"enable_logging"` // Enable request logging
	LogFormat     string `yaml:"log_format"`     // Log format (text or json)
	LogLevel      string `yaml:"log_level"`      // debug, info, warn or error

	// TLS/SSL configuration
	EnableTLS   bool   `yaml:"enable_tls"`    // Enable TLS/SSL
	TLSCertFile string `yaml:"tls_cert_file"` // Path to TLS certificate file
	TLSKeyFile  string `yaml:"tls_key_file"`  // Path to TLS private key file

	// GraphQL configuration
	EnableGraphQL bool `yaml:"enable_graphql"` // Enable GraphQL API endpoint

	// API keys. With none configured every route is public.
	APIKeys []APIKeyConfig `yaml:"api_keys"`

	Logger *slog.Logger `yaml:"-"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Host:           "localhost",
		Port:           8080,
		DataDir:        "./data",
		Compression:    "zstd",
		Corrections:    true,
		MaxBatchWords:  100000,
		EnableCompare:  true,
		StemCacheSize:  10000,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		RequestTimeout: 60 * time.Second,
		Heartbeat:      30 * time.Second,
		MaxRequestSize: 10 * 1024 * 1024, // 10MB
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-API-Key", "X-Request-ID"},
		EnableGzip:     true,
		EnableLogging:  true,
		LogFormat:      "text",
		LogLevel:       "info",
		EnableGraphQL:  false, // opt-in
	}
}

// LoadConfig reads a YAML file over the defaults. Keys missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return config, nil
}

// Validate checks the configuration for values the server cannot start with
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if _, err := compression.ParseAlgorithm(c.Compression); err != nil {
		return err
	}
	if c.MaxBatchWords <= 0 {
		return fmt.Errorf("max_batch_words must be positive, got %d", c.MaxBatchWords)
	}
	if c.StemCacheSize < 0 {
		return fmt.Errorf("stem_cache_size must not be negative, got %d", c.StemCacheSize)
	}
	if c.MaxRequestSize <= 0 {
		return fmt.Errorf("max_request_size must be positive, got %d", c.MaxRequestSize)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format: %q", c.LogFormat)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	if c.EnableTLS {
		if c.TLSCertFile == "" || c.TLSKeyFile == "" {
			return fmt.Errorf("TLS enabled but certificate or key file not specified")
		}
		if _, err := os.Stat(c.TLSCertFile); os.IsNotExist(err) {
			return fmt.Errorf("TLS certificate file not found: %s", c.TLSCertFile)
		}
		if _, err := os.Stat(c.TLSKeyFile); os.IsNotExist(err) {
			return fmt.Errorf("TLS key file not found: %s", c.TLSKeyFile)
		}
	}

	seen := make(map[string]bool, len(c.APIKeys))
	for _, key := range c.APIKeys {
		if key.Name == "" || key.Secret == "" {
			return fmt.Errorf("api key needs a name and a secret")
		}
		if seen[key.Name] {
			return fmt.Errorf("duplicate api key name: %s", key.Name)
		}
		seen[key.Name] = true
		if _, err := auth.ParseRole(key.Role); err != nil {
			return fmt.Errorf("api key %s: %w", key.Name, err)
		}
	}
	return nil
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if name == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return level, fmt.Errorf("invalid log level: %q", name)
	}
	return level, nil
}

// NewLogger builds a slog logger writing to w in the configured format
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

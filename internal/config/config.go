package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/askgames/internal/domain"
)

// Config holds the askgames API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	UsageLog  UsageLogConfig  `yaml:"usage_log"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds search store connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	SearchTimeoutSec int      `yaml:"search_timeout_sec"`
	MaxRetries       int      `yaml:"max_retries"` // connection-level retries only
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	Cache      bool   `yaml:"cache"`
	CacheTTL   int    `yaml:"cache_ttl_sec"` // cached embedding lifetime
}

// ProviderConfig holds one chat-completion endpoint.
type ProviderConfig struct {
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// ParamsConfig overrides chat generation parameters. Zero values fall back
// to the documented defaults.
type ParamsConfig struct {
	Temperature      *float32 `yaml:"temperature"`
	TopP             *float32 `yaml:"top_p"`
	FrequencyPenalty *float32 `yaml:"frequency_penalty"`
	PresencePenalty  *float32 `yaml:"presence_penalty"`
	MaxTokens        *int     `yaml:"max_tokens"`
	Stream           bool     `yaml:"stream"`
}

// LLMConfig holds the local and remote chat providers.
type LLMConfig struct {
	Local      ProviderConfig `yaml:"local"`
	Remote     ProviderConfig `yaml:"remote"`
	TimeoutSec int            `yaml:"timeout_sec"`
	Params     ParamsConfig   `yaml:"params"`
}

// BoostConfig holds lexical field weights for the hybrid strategy. Absolute
// values are tuning constants; title and price-category must stay above the
// free-text description fields.
type BoostConfig struct {
	Name         float64 `yaml:"name"`
	PriceCat     float64 `yaml:"price_category"`
	Genres       float64 `yaml:"genres"`
	ShortDesc    float64 `yaml:"short_description"`
	DetailedDesc float64 `yaml:"detailed_description"`
}

// RetrievalConfig holds the retrieval pipeline tuning knobs.
type RetrievalConfig struct {
	IndexPattern     string      `yaml:"index_pattern"`
	TopK             int         `yaml:"top_k"`
	PriceTolerance   float64     `yaml:"price_tolerance"`
	PriceCues        []string    `yaml:"price_cues"`
	DescriptionChars int         `yaml:"description_chars"`
	ContextWords     int         `yaml:"context_words"`
	Boosts           BoostConfig `yaml:"boosts"`
}

// UsageLogConfig holds the per-question usage record sink.
type UsageLogConfig struct {
	Path string `yaml:"path"` // empty disables file recording
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// defaultPriceCues are the price cue words that flip a question into the
// price-filter strategy. Spanish catalog, Spanish defaults; the list is
// configurable rather than hardcoded.
var defaultPriceCues = []string{
	"precio", "precios", "cuesta", "cuestan", "coste", "costar",
	"vale", "valen", "cuánto", "cuanto", "euro", "euros", "€", "$",
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Generation can take the better part of a minute; the write
		// timeout has to outlive both network calls.
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.SearchTimeoutSec <= 0 {
		c.Database.SearchTimeoutSec = 30
	}
	if c.Database.MaxRetries <= 0 {
		c.Database.MaxRetries = 5
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 768
	}
	if c.Embedding.CacheTTL <= 0 {
		c.Embedding.CacheTTL = 24 * 60 * 60
	}
	if c.LLM.TimeoutSec <= 0 {
		c.LLM.TimeoutSec = 60
	}
	if c.LLM.Remote.BaseURL == "" {
		c.LLM.Remote.BaseURL = "https://openrouter.ai/api/v1"
	}
	if c.Retrieval.IndexPattern == "" {
		c.Retrieval.IndexPattern = "steam_games-*"
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = 5
	}
	if c.Retrieval.PriceTolerance <= 0 {
		c.Retrieval.PriceTolerance = 0.05
	}
	if len(c.Retrieval.PriceCues) == 0 {
		c.Retrieval.PriceCues = defaultPriceCues
	}
	if c.Retrieval.DescriptionChars <= 0 {
		c.Retrieval.DescriptionChars = 300
	}
	if c.Retrieval.ContextWords <= 0 {
		c.Retrieval.ContextWords = 1000
	}
	if c.Retrieval.Boosts == (BoostConfig{}) {
		c.Retrieval.Boosts = BoostConfig{
			Name:         5,
			PriceCat:     4,
			Genres:       2,
			ShortDesc:    1,
			DetailedDesc: 0.5,
		}
	}
}

// GenerationParams resolves the configured overrides against the defaults.
func (c *LLMConfig) GenerationParams() domain.GenerationParams {
	p := domain.DefaultGenerationParams()
	if c.Params.Temperature != nil {
		p.Temperature = *c.Params.Temperature
	}
	if c.Params.TopP != nil {
		p.TopP = *c.Params.TopP
	}
	if c.Params.FrequencyPenalty != nil {
		p.FrequencyPenalty = *c.Params.FrequencyPenalty
	}
	if c.Params.PresencePenalty != nil {
		p.PresencePenalty = *c.Params.PresencePenalty
	}
	if c.Params.MaxTokens != nil {
		p.MaxTokens = *c.Params.MaxTokens
	}
	p.Stream = c.Params.Stream
	return p
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if !c.LLM.Remote.Enabled && !c.LLM.Local.Enabled {
		return fmt.Errorf("at least one llm provider must be enabled")
	}
	if c.LLM.Remote.Enabled && c.LLM.Remote.Model == "" {
		return fmt.Errorf("llm.remote.model is required")
	}
	p := c.Params()
	if p.Temperature < 0 || p.Temperature > 2 {
		return fmt.Errorf("llm.params.temperature must be in [0,2], got %g", p.Temperature)
	}
	if p.TopP <= 0 || p.TopP > 1 {
		return fmt.Errorf("llm.params.top_p must be in (0,1], got %g", p.TopP)
	}
	if p.MaxTokens <= 0 {
		return fmt.Errorf("llm.params.max_tokens must be positive, got %d", p.MaxTokens)
	}
	b := c.Retrieval.Boosts
	if b.Name < b.ShortDesc || b.Name < b.DetailedDesc ||
		b.PriceCat < b.ShortDesc || b.PriceCat < b.DetailedDesc {
		return fmt.Errorf("retrieval.boosts: name and price_category must outweigh description fields")
	}
	return nil
}

// Params resolves the effective generation parameters.
func (c *Config) Params() domain.GenerationParams {
	return c.LLM.GenerationParams()
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

// Package config loads intentmesh settings: built-in defaults, then an
// optional TOML file, then environment overrides, then validation.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hupe1980/intentmesh/logging"
)

// DefaultPath is read when neither an explicit path nor CONFIG_FILE is given.
const DefaultPath = "configs/intentmesh.toml"

// LLM providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ConfigError reports an invalid or unparseable setting. It is fatal at startup.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Message)
}

type Config struct {
	Router RouterConfig `toml:"router"`
	LLM    LLMConfig    `toml:"llm"`
	Corpus CorpusConfig `toml:"corpus"`
	HTTP   HTTPConfig   `toml:"http"`
	Log    LogConfig    `toml:"log"`
}

type RouterConfig struct {
	IntentMinConfidence    float64 `toml:"intent_min_confidence"`
	MaxHistoryTurns        int     `toml:"max_history_turns"`
	RetrieverK             int     `toml:"retriever_k"`
	UseHeuristicRouter     bool    `toml:"use_heuristic_router"`
	ClassifyTimeoutSeconds int     `toml:"classify_timeout_seconds"`
	GenerateTimeoutSeconds int     `toml:"generate_timeout_seconds"`
}

type LLMConfig struct {
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"` // empty selects the provider default
	APIKey      string  `toml:"api_key"`
	BaseURL     string  `toml:"base_url"`
	Temperature float64 `toml:"temperature"`
}

type CorpusConfig struct {
	HRPaths   []string `toml:"hr_paths"`
	TechPaths []string `toml:"tech_paths"`
}

type HTTPConfig struct {
	Addr      string `toml:"addr"`
	GinMode   string `toml:"gin_mode"`
	HideDebug bool   `toml:"hide_debug"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Load builds the configuration. An empty path falls back to CONFIG_FILE and
// then DefaultPath; only an explicitly named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode config file %s: %w", path, err)
		}
	} else if explicit || !errors.Is(err, os.ErrNotExist) {
		return nil, &ConfigError{Field: "config_file", Message: err.Error()}
	}

	if err := overrideByEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Router: RouterConfig{
			IntentMinConfidence:    0.60,
			MaxHistoryTurns:        4,
			RetrieverK:             4,
			ClassifyTimeoutSeconds: 30,
			GenerateTimeoutSeconds: 60,
		},
		LLM: LLMConfig{
			Provider:    ProviderOpenAI,
			Temperature: 0.2,
		},
		Corpus: CorpusConfig{
			HRPaths:   []string{"data/hr/manual_rrhh.md"},
			TechPaths: []string{"data/tech/runbook_tech.md"},
		},
		HTTP: HTTPConfig{
			Addr:    ":8080",
			GinMode: "release",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	switch {
	case math.IsNaN(c.Router.IntentMinConfidence) || c.Router.IntentMinConfidence < 0 || c.Router.IntentMinConfidence > 1:
		return &ConfigError{Field: "router.intent_min_confidence", Message: "must be between 0 and 1"}
	case c.Router.MaxHistoryTurns < 0:
		return &ConfigError{Field: "router.max_history_turns", Message: "must be >= 0"}
	case c.Router.RetrieverK < 1:
		return &ConfigError{Field: "router.retriever_k", Message: "must be >= 1"}
	case c.Router.ClassifyTimeoutSeconds < 0:
		return &ConfigError{Field: "router.classify_timeout_seconds", Message: "must be >= 0"}
	case c.Router.GenerateTimeoutSeconds < 0:
		return &ConfigError{Field: "router.generate_timeout_seconds", Message: "must be >= 0"}
	case c.LLM.Provider != ProviderOpenAI && c.LLM.Provider != ProviderAnthropic:
		return &ConfigError{Field: "llm.provider", Message: fmt.Sprintf("unsupported provider %q", c.LLM.Provider)}
	case c.LLM.Temperature < 0 || c.LLM.Temperature > 2:
		return &ConfigError{Field: "llm.temperature", Message: "must be between 0 and 2"}
	case c.HTTP.GinMode != "debug" && c.HTTP.GinMode != "release" && c.HTTP.GinMode != "test":
		return &ConfigError{Field: "http.gin_mode", Message: "must be debug, release or test"}
	case c.Log.Format != "text" && c.Log.Format != "json":
		return &ConfigError{Field: "log.format", Message: "must be text or json"}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return &ConfigError{Field: "log.level", Message: err.Error()}
	}
	return nil
}

// ClassifyTimeout returns the classifier bound; zero disables it.
func (c *Config) ClassifyTimeout() time.Duration {
	return time.Duration(c.Router.ClassifyTimeoutSeconds) * time.Second
}

// GenerateTimeout returns the generator bound; zero disables it.
func (c *Config) GenerateTimeout() time.Duration {
	return time.Duration(c.Router.GenerateTimeoutSeconds) * time.Second
}

func overrideByEnv(cfg *Config) error {
	env := &envReader{}

	cfg.Router.IntentMinConfidence = env.parseFloat("INTENT_MIN_CONFIDENCE", "router.intent_min_confidence", "must be a float, e.g. 0.60", cfg.Router.IntentMinConfidence)
	cfg.Router.MaxHistoryTurns = env.parseInt("MAX_HISTORY_TURNS", "router.max_history_turns", "must be an int, e.g. 4", cfg.Router.MaxHistoryTurns)
	cfg.Router.RetrieverK = env.parseInt("RETRIEVER_K", "router.retriever_k", "must be an int, e.g. 4", cfg.Router.RetrieverK)
	cfg.Router.UseHeuristicRouter = env.parseBool("USE_HEURISTIC_ROUTER", "router.use_heuristic_router", cfg.Router.UseHeuristicRouter)

	cfg.LLM.Provider = strings.ToLower(getEnv("LLM_PROVIDER", cfg.LLM.Provider))
	cfg.LLM.Model = getEnv("LLM_MODEL", getEnv("OPENAI_MODEL", cfg.LLM.Model))
	cfg.LLM.BaseURL = getEnv("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.APIKey = getEnv("LLM_API_KEY", cfg.LLM.APIKey)
	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case ProviderOpenAI:
			cfg.LLM.APIKey = getEnv("OPENAI_API_KEY", "")
		case ProviderAnthropic:
			cfg.LLM.APIKey = getEnv("ANTHROPIC_API_KEY", "")
		}
	}

	cfg.Corpus.HRPaths = getEnvAsList("HR_CORPUS_PATHS", cfg.Corpus.HRPaths)
	cfg.Corpus.TechPaths = getEnvAsList("TECH_CORPUS_PATHS", cfg.Corpus.TechPaths)

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", cfg.HTTP.Addr)
	cfg.HTTP.GinMode = getEnv("GIN_MODE", cfg.HTTP.GinMode)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(getEnv("LOG_FORMAT", cfg.Log.Format))

	return env.err
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// envReader parses typed variables and keeps the first failure.
type envReader struct {
	err error
}

func (r *envReader) lookup(key string) (string, bool) {
	raw, ok := os.LookupEnv(key)
	raw = strings.TrimSpace(raw)
	return raw, ok && raw != "" && r.err == nil
}

func (r *envReader) fail(key, field, msg string) {
	r.err = &ConfigError{Field: field, Message: fmt.Sprintf("%s %s", key, msg)}
}

func (r *envReader) parseFloat(key, field, msg string, fallback float64) float64 {
	raw, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		r.fail(key, field, msg)
		return fallback
	}
	return v
}

func (r *envReader) parseInt(key, field, msg string, fallback int) int {
	raw, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.fail(key, field, msg)
		return fallback
	}
	return v
}

func (r *envReader) parseBool(key, field string, fallback bool) bool {
	raw, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		r.fail(key, field, "must be a boolean")
		return fallback
	}
	return v
}

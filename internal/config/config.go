package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported values for MODEL_PROVIDER.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOffline   = "offline"
)

type Config struct {
	AppEnv, AppPort string
	CORSOrigins     []string

	ModelProvider                string
	GeminiKey, GeminiModel       string
	OpenAIKey, OpenAIModel       string
	AnthropicKey, AnthropicModel string

	Temperature float64
	TopP        float64
	TopK        int
	MaxTokens   int
	Search      bool

	ModelTimeout    time.Duration
	ModelMaxRetries int
	ModelRPS        float64
	ModelBurst      int

	RequestTimeout time.Duration
	QuestionCount  int
}

// ConfigError reports a missing or invalid setting. It is fatal at startup.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}

// Load reads the configuration and validates it.
func Load() (*Config, error) {
	c := Read()
	return c, c.Validate()
}

// Read loads .env (when present) and the process environment without
// validating, so callers can apply overrides first.
func Read() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv:          get("APP_ENV", "dev"),
		AppPort:         get("APP_PORT", "8000"),
		CORSOrigins:     split(get("CORS_ORIGINS", "http://localhost:3000")),
		ModelProvider:   strings.ToLower(get("MODEL_PROVIDER", ProviderGemini)),
		GeminiKey:       get("GOOGLE_API_KEY", get("GEMINI_API_KEY", "")),
		GeminiModel:     get("GEMINI_MODEL", "gemini-2.0-flash"),
		OpenAIKey:       get("OPENAI_API_KEY", ""),
		OpenAIModel:     get("OPENAI_MODEL", "gpt-4o-mini"),
		AnthropicKey:    get("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  get("ANTHROPIC_MODEL", "claude-3-5-sonnet-latest"),
		Temperature:     parseFloat(get("MODEL_TEMPERATURE", "0.7")),
		TopP:            parseFloat(get("MODEL_TOP_P", "0.95")),
		TopK:            GetEnvInt("MODEL_TOP_K", 40),
		MaxTokens:       GetEnvInt("MODEL_MAX_TOKENS", 8192),
		Search:          parseBool(get("MODEL_SEARCH", "true")),
		ModelTimeout:    mustDuration(get("MODEL_TIMEOUT", "60s")),
		ModelMaxRetries: GetEnvInt("MODEL_MAX_RETRIES", 2),
		ModelRPS:        parseFloat(get("MODEL_RPS", "0")),
		ModelBurst:      GetEnvInt("MODEL_BURST", 1),
		RequestTimeout:  mustDuration(get("REQUEST_TIMEOUT", "150s")),
		QuestionCount:   GetEnvInt("QUIZ_QUESTION_COUNT", 15),
	}
}

// Validate checks that the selected provider can be constructed.
func (c *Config) Validate() error {
	switch c.ModelProvider {
	case ProviderGemini:
		if c.GeminiKey == "" {
			return &ConfigError{Key: "GOOGLE_API_KEY", Reason: "required for the gemini provider"}
		}
	case ProviderOpenAI:
		if c.OpenAIKey == "" {
			return &ConfigError{Key: "OPENAI_API_KEY", Reason: "required for the openai provider"}
		}
	case ProviderAnthropic:
		if c.AnthropicKey == "" {
			return &ConfigError{Key: "ANTHROPIC_API_KEY", Reason: "required for the anthropic provider"}
		}
	case ProviderOffline:
	default:
		return &ConfigError{Key: "MODEL_PROVIDER", Reason: fmt.Sprintf("unknown provider %q", c.ModelProvider)}
	}
	if c.QuestionCount <= 0 {
		return &ConfigError{Key: "QUIZ_QUESTION_COUNT", Reason: "must be positive"}
	}
	if c.ModelTimeout <= 0 {
		return &ConfigError{Key: "MODEL_TIMEOUT", Reason: "must be a positive duration"}
	}
	if c.RequestTimeout <= 0 {
		return &ConfigError{Key: "REQUEST_TIMEOUT", Reason: "must be a positive duration"}
	}
	return nil
}

func GetEnvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return d
}

func get(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func parseBool(s string) bool             { b, _ := strconv.ParseBool(s); return b }
func parseFloat(s string) float64         { f, _ := strconv.ParseFloat(s, 64); return f }
func mustDuration(s string) time.Duration { d, _ := time.ParseDuration(s); return d }
func split(s string) []string {
	if s == "" {
		return nil
	}
	out := strings.Split(s, ",")
	for i := range out {
		out[i] = strings.TrimSpace(out[i])
	}
	return out
}

func GetEnv(k, d string) string {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	return v
}

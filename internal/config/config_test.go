package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearModelEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MODEL_PROVIDER", "GOOGLE_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
		"QUIZ_QUESTION_COUNT", "MODEL_TIMEOUT", "REQUEST_TIMEOUT", "CORS_ORIGINS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingGoogleKey(t *testing.T) {
	clearModelEnv(t)

	_, err := Load()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "GOOGLE_API_KEY", cfgErr.Key)
}

func TestLoad_Defaults(t *testing.T) {
	clearModelEnv(t)
	t.Setenv("GOOGLE_API_KEY", "k")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, c.ModelProvider)
	assert.Equal(t, "k", c.GeminiKey)
	assert.Equal(t, 15, c.QuestionCount)
	assert.Equal(t, 60*time.Second, c.ModelTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, c.CORSOrigins)
	assert.True(t, c.Search)
}

func TestLoad_GeminiKeyFallback(t *testing.T) {
	clearModelEnv(t)
	t.Setenv("GEMINI_API_KEY", "fallback")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fallback", c.GeminiKey)
}

func TestLoad_OfflineNeedsNoKey(t *testing.T) {
	clearModelEnv(t)
	t.Setenv("MODEL_PROVIDER", "OFFLINE")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderOffline, c.ModelProvider)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.CORSOrigins)
}

func TestValidate(t *testing.T) {
	base := Config{QuestionCount: 15, ModelTimeout: time.Second, RequestTimeout: time.Second}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantKey string
	}{
		{"unknown provider", func(c *Config) { c.ModelProvider = "llama" }, "MODEL_PROVIDER"},
		{"openai without key", func(c *Config) { c.ModelProvider = ProviderOpenAI }, "OPENAI_API_KEY"},
		{"anthropic without key", func(c *Config) { c.ModelProvider = ProviderAnthropic }, "ANTHROPIC_API_KEY"},
		{"zero questions", func(c *Config) { c.ModelProvider = ProviderOffline; c.QuestionCount = 0 }, "QUIZ_QUESTION_COUNT"},
		{"bad timeout", func(c *Config) { c.ModelProvider = ProviderOffline; c.ModelTimeout = 0 }, "MODEL_TIMEOUT"},
		{"ok", func(c *Config) { c.ModelProvider = ProviderOpenAI; c.OpenAIKey = "k" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantKey == "" {
				require.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantKey, cfgErr.Key)
		})
	}
}

func TestRead_SkipsValidation(t *testing.T) {
	clearModelEnv(t)

	c := Read()
	require.NotNil(t, c)
	assert.Equal(t, ProviderGemini, c.ModelProvider)
	assert.Error(t, c.Validate())

	c.ModelProvider = ProviderOffline
	assert.NoError(t, c.Validate())
}

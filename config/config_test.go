package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("OPENAI_API_KEY", "test-openai-key")
	t.Setenv("OCR_API_URL", "http://ocr.local/general")
	t.Setenv("OCR_SECRET", "test-ocr-secret")
	t.Setenv("RECIPE_API_KEY", "test-recipe-key")
}

func TestLoadConfig(t *testing.T) {
	t.Run("should apply defaults", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, DefaultServerHost, cfg.ServerHost)
		assert.Equal(t, DefaultServerPort, cfg.ServerPort)
		assert.Equal(t, "0.0.0.0:5000", cfg.Addr())
		assert.Equal(t, DefaultOpenAIModel, cfg.OpenAIModel)
		assert.Equal(t, DefaultOpenAIAPIURL, cfg.OpenAIAPIURL)
		assert.Equal(t, DefaultRecipeAPIBaseURL, cfg.RecipeAPIBaseURL)
		assert.Equal(t, 5, cfg.RecipeResultLimit)
		assert.Equal(t, DefaultRateLimit, cfg.RateLimitPerMinute)
		assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
		assert.Nil(t, cfg.TrustedProxies)
		assert.Zero(t, cfg.UpstreamTimeout)
	})

	t.Run("should read overrides", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("SERVER_PORT", "8080")
		t.Setenv("RECIPE_API_BASE_URL", "http://recipes.local/api")
		t.Setenv("RECIPE_RESULT_LIMIT", "10")
		t.Setenv("UPSTREAM_TIMEOUT", "15s")
		t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173, http://app.local")
		t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.10")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.ServerPort)
		assert.Equal(t, "http://recipes.local/api/", cfg.RecipeAPIBaseURL)
		assert.Equal(t, 10, cfg.RecipeResultLimit)
		assert.Equal(t, 15*time.Second, cfg.UpstreamTimeout)
		assert.Equal(t, []string{"http://localhost:5173", "http://app.local"}, cfg.AllowedOrigins)
		assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.10"}, cfg.TrustedProxies)
	})

	t.Run("should reject malformed trusted proxies", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TRUSTED_PROXIES", "10.0.0.1,not-an-ip")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TRUSTED_PROXIES")
		assert.Contains(t, err.Error(), "not-an-ip")
	})

	t.Run("should read API key from file", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("OPENAI_API_KEY", "")
		keyFile := filepath.Join(t.TempDir(), "openai_api_key")
		require.NoError(t, os.WriteFile(keyFile, []byte("file-key\n"), 0o600))
		t.Setenv("OPENAI_API_KEY_FILE", keyFile)

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "file-key", cfg.OpenAIAPIKey)
	})

	t.Run("should fail without required values", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("OCR_SECRET", "")
		t.Setenv("RECIPE_API_KEY", "")

		cfg, err := LoadConfig()
		assert.Nil(t, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "OCR_SECRET: is required")
		assert.Contains(t, err.Error(), "RECIPE_API_KEY: is required")
	})

	t.Run("should reject malformed limit", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("RECIPE_RESULT_LIMIT", "five")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RECIPE_RESULT_LIMIT")
	})

	t.Run("should read docker secrets in production", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("ENV", "production")
		t.Setenv("OCR_SECRET", "")

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "ocr_secret"), []byte("from-secret\n"), 0o600))
		t.Setenv("SECRETS_DIR", dir)

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "from-secret", cfg.OCRSecret)
		assert.Equal(t, "test-openai-key", cfg.OpenAIAPIKey)
	})
}

func TestGetEnvironment(t *testing.T) {
	tests := []struct {
		ci   string
		env  string
		want Environment
	}{
		{"true", "production", CI},
		{"", "production", Production},
		{"", "prod", Production},
		{"", "test", Test},
		{"", "", Development},
		{"", "staging", Development},
	}

	for _, tt := range tests {
		t.Setenv("CI", tt.ci)
		t.Setenv("ENV", tt.env)
		assert.Equal(t, tt.want, GetEnvironment(), "CI=%q ENV=%q", tt.ci, tt.env)
	}
}

func TestValidateConfig(t *testing.T) {
	cfg := &Config{
		OpenAIAPIKey:      "k",
		OCRAPIURL:         "http://ocr",
		OCRSecret:         "s",
		RecipeAPIKey:      "r",
		RecipeResultLimit: 0,
	}

	err := ValidateConfig(cfg)
	require.Error(t, err)

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 1)
	assert.Equal(t, "RECIPE_RESULT_LIMIT", errs[0].Field)

	cfg.RecipeResultLimit = 5
	assert.NoError(t, ValidateConfig(cfg))
}

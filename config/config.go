package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultServerHost        = "0.0.0.0"
	DefaultServerPort        = "5000"
	DefaultOpenAIAPIURL      = "https://api.openai.com/v1/chat/completions"
	DefaultOpenAIModel       = "gpt-3.5-turbo"
	DefaultRecipeAPIBaseURL  = "http://openapi.foodsafetykorea.go.kr/api/"
	DefaultRecipeResultLimit = 5
	DefaultRateLimit         = 60
)

// Config holds all configuration for the application.
// It is built once by LoadConfig and never mutated afterwards.
type Config struct {
	// Server configuration
	ServerHost string
	ServerPort string

	// Chat completion API
	OpenAIAPIKey string
	OpenAIAPIURL string
	OpenAIModel  string

	// OCR API
	OCRAPIURL string
	OCRSecret string

	// Recipe database API
	RecipeAPIBaseURL  string
	RecipeAPIKey      string
	RecipeResultLimit int

	// Zero means the HTTP client default
	UpstreamTimeout time.Duration

	AllowedOrigins []string

	// Proxies whose X-Forwarded-For is honored; nil trusts none
	TrustedProxies []string

	// Rate limiting; an empty RedisURL selects the in-memory limiter
	RedisURL           string
	RateLimitPerMinute int

	// Receipt archive; disabled when S3BucketName is empty
	S3BucketName string
	AWSRegion    string
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	if env != Production {
		// A missing .env file is fine outside production
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("[Config] failed to load .env: %v", err)
		}
	}

	cfg := &Config{}
	switch env {
	case Production:
		loadFromSecrets(cfg)
	default:
		loadFromEnv(cfg)
	}

	if err := applyDefaults(cfg); err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	return cfg, nil
}

// loadFromEnv loads configuration for development, test and CI environments
func loadFromEnv(cfg *Config) {
	cfg.ServerHost = os.Getenv("SERVER_HOST")
	cfg.ServerPort = os.Getenv("SERVER_PORT")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAIAPIURL = os.Getenv("OPENAI_API_URL")
	cfg.OpenAIModel = os.Getenv("OPENAI_MODEL")
	cfg.OCRAPIURL = os.Getenv("OCR_API_URL")
	cfg.OCRSecret = os.Getenv("OCR_SECRET")
	cfg.RecipeAPIBaseURL = os.Getenv("RECIPE_API_BASE_URL")
	cfg.RecipeAPIKey = os.Getenv("RECIPE_API_KEY")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.S3BucketName = os.Getenv("S3_BUCKET_NAME")
	cfg.AWSRegion = os.Getenv("AWS_REGION")
}

// loadFromSecrets loads configuration for production using Docker secrets,
// falling back to environment variables for anything not mounted
func loadFromSecrets(cfg *Config) {
	loadFromEnv(cfg)

	secretOr := func(name, current string) string {
		if v := readSecret(name); v != "" {
			return v
		}
		return current
	}

	cfg.ServerHost = secretOr("server_host", cfg.ServerHost)
	cfg.ServerPort = secretOr("server_port", cfg.ServerPort)
	cfg.OpenAIAPIKey = secretOr("openai_api_key", cfg.OpenAIAPIKey)
	cfg.OCRAPIURL = secretOr("ocr_api_url", cfg.OCRAPIURL)
	cfg.OCRSecret = secretOr("ocr_secret", cfg.OCRSecret)
	cfg.RecipeAPIKey = secretOr("recipe_api_key", cfg.RecipeAPIKey)
	cfg.RedisURL = secretOr("redis_url", cfg.RedisURL)
}

// applyDefaults fills optional settings and parses the numeric ones
func applyDefaults(cfg *Config) error {
	if cfg.ServerHost == "" {
		cfg.ServerHost = DefaultServerHost
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = DefaultServerPort
	}
	if cfg.OpenAIAPIURL == "" {
		cfg.OpenAIAPIURL = DefaultOpenAIAPIURL
	}
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = DefaultOpenAIModel
	}
	if cfg.RecipeAPIBaseURL == "" {
		cfg.RecipeAPIBaseURL = DefaultRecipeAPIBaseURL
	}
	if !strings.HasSuffix(cfg.RecipeAPIBaseURL, "/") {
		cfg.RecipeAPIBaseURL += "/"
	}

	if cfg.OpenAIAPIKey == "" {
		if keyFile := os.Getenv("OPENAI_API_KEY_FILE"); keyFile != "" {
			data, err := os.ReadFile(keyFile)
			if err != nil {
				return fmt.Errorf("failed to read API key file: %w", err)
			}
			cfg.OpenAIAPIKey = strings.TrimSpace(string(data))
		}
	}

	var err error
	if cfg.RecipeResultLimit, err = intEnv("RECIPE_RESULT_LIMIT", DefaultRecipeResultLimit); err != nil {
		return err
	}
	if cfg.RateLimitPerMinute, err = intEnv("RATE_LIMIT_PER_MINUTE", DefaultRateLimit); err != nil {
		return err
	}

	if raw := os.Getenv("UPSTREAM_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return ValidationError{Field: "UPSTREAM_TIMEOUT", Message: err.Error()}
		}
		cfg.UpstreamTimeout = d
	}

	cfg.AllowedOrigins = []string{"*"}
	if origins := listEnv("ALLOWED_ORIGINS"); len(origins) > 0 {
		cfg.AllowedOrigins = origins
	}
	cfg.TrustedProxies = listEnv("TRUSTED_PROXIES")

	return nil
}

// listEnv splits a comma separated variable, dropping blank entries
func listEnv(name string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(name), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func intEnv(name string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ValidationError{Field: name, Message: "must be an integer"}
	}
	return v, nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return fmt.Sprintf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
}

// ValidateConfig checks that every required setting is present and the numeric ones are sane
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("configuration is nil")
	}

	var errs ValidationErrors
	required := []struct {
		field string
		value string
	}{
		{"OPENAI_API_KEY", cfg.OpenAIAPIKey},
		{"OCR_API_URL", cfg.OCRAPIURL},
		{"OCR_SECRET", cfg.OCRSecret},
		{"RECIPE_API_KEY", cfg.RecipeAPIKey},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, ValidationError{Field: r.field, Message: "is required"})
		}
	}

	if cfg.RecipeResultLimit < 1 {
		errs = append(errs, ValidationError{Field: "RECIPE_RESULT_LIMIT", Message: "must be at least 1"})
	}
	if cfg.RateLimitPerMinute < 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_PER_MINUTE", Message: "must not be negative"})
	}
	if cfg.UpstreamTimeout < 0 {
		errs = append(errs, ValidationError{Field: "UPSTREAM_TIMEOUT", Message: "must not be negative"})
	}
	for _, proxy := range cfg.TrustedProxies {
		if net.ParseIP(proxy) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(proxy); err != nil {
			errs = append(errs, ValidationError{Field: "TRUSTED_PROXIES", Message: fmt.Sprintf("%q is not an IP or CIDR", proxy)})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

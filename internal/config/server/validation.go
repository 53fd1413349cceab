package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks struct tags first and then the duration fields, which are
// kept as strings so that generated YAML stays human readable.
func Validate(cfg *BaseServerConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	durations := map[string]string{
		"shutdown_timeout":   cfg.ShutdownTimeout,
		"http.read_timeout":  cfg.HTTP.ReadTimeout,
		"http.write_timeout": cfg.HTTP.WriteTimeout,
		"auth.token_ttl":     cfg.Auth.TokenTTL,
		"queue.block":        cfg.Queue.Block,
		"queue.claim_idle":   cfg.Queue.ClaimIdle,
	}
	for key, value := range durations {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s: invalid duration %q", key, value)
		}
	}

	if cfg.Storage.Type == "s3" && cfg.Storage.S3.Bucket == "" {
		return fmt.Errorf("storage.s3.bucket: required when storage.type is s3")
	}

	return nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		e := validationErrs[0]
		return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
			e.Namespace(), e.Tag(), e.Value())
	}
	return err
}

// Duration parses a configured duration, falling back when it is empty or invalid.
func Duration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

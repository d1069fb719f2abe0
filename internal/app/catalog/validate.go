package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// ValidateOptions controls startup validation retries.
type ValidateOptions struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// DefaultValidateOptions retries five times starting at one second.
var DefaultValidateOptions = ValidateOptions{MaxRetries: 5, BaseDelay: time.Second}

// ValidateSources checks that every source answers a one-episode listing.
// Each source is retried with exponential backoff to ride out transient
// errors during startup.
func ValidateSources(ctx context.Context, sources []Source, opts ValidateOptions) error {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}

	validate := func(s Source) error {
		zlog.Info().Msgf("Validating episode source: name=%s", s.Name())

		var lastErr error
		for i := 0; i < opts.MaxRetries; i++ {
			if i > 0 {
				delay := opts.BaseDelay * time.Duration(1<<uint(i-1))
				zlog.Info().Msgf("Retrying %s validation in %v...", s.Name(), delay)
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(delay):
				}
			}

			if _, err := s.ListEpisodes(ctx, 1); err != nil {
				lastErr = err
				zlog.Warn().Msgf("Failed to validate %s (attempt %d/%d): %v", s.Name(), i+1, opts.MaxRetries, err)
				continue
			}

			zlog.Info().Msgf("Episode source %s validated successfully", s.Name())
			return nil
		}
		return errors.Wrapf(lastErr, "failed after %d attempts", opts.MaxRetries)
	}

	var errs []string
	for _, s := range sources {
		if err := validate(s); err != nil {
			errs = append(errs, s.Name()+": "+err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.Newf("source validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Package advisor answers free-form financial questions with short textual
// guidance. Providers are canned keyword topics, an external text-completion
// endpoint, or Gemini; remote providers fall back to the canned answers and
// responses are cached.
package advisor

import (
	"context"
	"fmt"
	"net/http"

	"fintrack/internal/config"
	"fintrack/internal/logger"
)

// Advisor returns guidance for a user query.
type Advisor interface {
	GetAdvice(ctx context.Context, query string) (string, error)
}

// New builds the advisor configured by cfg. The returned close function
// releases the response cache and must be called on shutdown.
func New(ctx context.Context, cfg *config.Config) (Advisor, func(), error) {
	canned := NewCannedAdvisor()

	var provider Advisor
	switch cfg.AdvisorProvider {
	case config.AdvisorCanned:
		provider = canned
	case config.AdvisorHTTP:
		if cfg.AdvisorURL == "" {
			return nil, nil, fmt.Errorf("ADVISOR_URL is required for the %q advisor", cfg.AdvisorProvider)
		}
		httpAdvisor := NewHTTPAdvisor(cfg.AdvisorURL, &http.Client{Timeout: cfg.AdvisorTimeout})
		provider = NewFallbackAdvisor(httpAdvisor, canned)
	case config.AdvisorGemini:
		gemini, err := NewGeminiAdvisor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, nil)
		if err != nil {
			return nil, nil, err
		}
		provider = NewFallbackAdvisor(gemini, canned)
	default:
		logger.Get().Warnw("unknown advisor provider, using canned answers", "provider", cfg.AdvisorProvider)
		provider = canned
	}

	if cfg.AdvisorCacheSize == 0 {
		return provider, func() {}, nil
	}

	cached, err := NewCachedAdvisor(provider, cfg.AdvisorCacheSize, defaultCacheTTL)
	if err != nil {
		return nil, nil, err
	}
	return cached, cached.Close, nil
}

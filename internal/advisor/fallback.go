package advisor

import (
	"context"

	"fintrack/internal/logger"
)

// FallbackAdvisor tries primary and answers from secondary when it fails.
type FallbackAdvisor struct {
	primary   Advisor
	secondary Advisor
}

// NewFallbackAdvisor creates a FallbackAdvisor.
func NewFallbackAdvisor(primary, secondary Advisor) *FallbackAdvisor {
	return &FallbackAdvisor{primary: primary, secondary: secondary}
}

// GetAdvice implements Advisor.
func (a *FallbackAdvisor) GetAdvice(ctx context.Context, query string) (string, error) {
	answer, err := a.primary.GetAdvice(ctx, query)
	if err == nil {
		return answer, nil
	}
	if ctx.Err() != nil {
		return "", err
	}

	logger.Get().Warnw("advisor provider failed, using fallback", "error", err)
	return a.secondary.GetAdvice(ctx, query)
}

package claude

import (
	"context"
	"errors"

	"github.com/peinteles/document-interpreter/internal/core/domain"
	"github.com/peinteles/document-interpreter/internal/core/ports"
	"github.com/peinteles/document-interpreter/internal/infrastructure/resilience"
)

// ResilientGateway shields the provider with a circuit breaker. An open
// breaker surfaces as a rate-limit condition: the caller should simply try
// again shortly.
type ResilientGateway struct {
	inner ports.LLMGateway
	exec  *resilience.Executor
}

func NewResilientGateway(inner ports.LLMGateway, exec *resilience.Executor) *ResilientGateway {
	return &ResilientGateway{inner: inner, exec: exec}
}

func (g *ResilientGateway) Complete(ctx context.Context, req domain.LLMRequest) (*domain.LLMResponse, error) {
	var resp *domain.LLMResponse
	err := g.exec.Execute(ctx, "anthropic.complete", func(ctx context.Context) error {
		var callErr error
		resp, callErr = g.inner.Complete(ctx, req)
		return callErr
	}, classifyGatewayError)
	if err != nil {
		if errors.Is(err, resilience.ErrOpen) {
			return nil, domain.WrapError(domain.ErrRateLimited, "llm gateway", err)
		}
		return nil, err
	}
	return resp, nil
}

func classifyGatewayError(err error) resilience.ErrorClassification {
	// Malformed requests say nothing about upstream health.
	if domain.IsKind(err, domain.ErrInvalidInput) {
		return resilience.ErrorClassification{}
	}
	return resilience.ErrorClassification{RecordFailure: true}
}

package claude

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/peinteles/document-interpreter/internal/core/domain"
	"github.com/peinteles/document-interpreter/internal/infrastructure/resilience"
)

func TestWrapAPIErrorMapsAuthStatuses(t *testing.T) {
	for _, status := range []int{401, 403} {
		wrapped := wrapAPIError(fmt.Errorf("request failed: %w", &anthropic.Error{StatusCode: status}))
		if !domain.IsKind(wrapped, domain.ErrGatewayAuth) {
			t.Fatalf("status %d: expected gateway auth kind, got %v", status, wrapped)
		}
	}
}

func TestWrapAPIErrorMasksProviderDetail(t *testing.T) {
	wrapped := wrapAPIError(fmt.Errorf("invalid x-api-key sk-ant-secret: %w", &anthropic.Error{StatusCode: 401}))
	if strings.Contains(wrapped.Error(), "sk-ant-secret") {
		t.Fatalf("provider detail leaked: %q", wrapped.Error())
	}
}

func TestWrapAPIErrorMapsRateLimit(t *testing.T) {
	wrapped := wrapAPIError(fmt.Errorf("request failed: %w", &anthropic.Error{StatusCode: 429}))
	if !domain.IsKind(wrapped, domain.ErrRateLimited) {
		t.Fatalf("expected rate limit kind, got %v", wrapped)
	}
}

func TestWrapAPIErrorPassesThroughOtherErrors(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := wrapAPIError(cause)
	if !errors.Is(wrapped, cause) {
		t.Fatalf("expected cause preserved, got %v", wrapped)
	}
	if domain.IsKind(wrapped, domain.ErrGatewayAuth) || domain.IsKind(wrapped, domain.ErrRateLimited) {
		t.Fatalf("plain error must not be reclassified: %v", wrapped)
	}
}

type innerGatewayFake struct {
	resp  *domain.LLMResponse
	err   error
	calls int
}

func (f *innerGatewayFake) Complete(context.Context, domain.LLMRequest) (*domain.LLMResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func smallBreakerExecutor() *resilience.Executor {
	return resilience.NewExecutor(resilience.Config{
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      time.Minute,
		BreakerHalfOpenMaxCalls: 1,
	})
}

func TestResilientGatewayForwardsResponses(t *testing.T) {
	inner := &innerGatewayFake{resp: &domain.LLMResponse{GeneratedText: "Explicație."}}
	gw := NewResilientGateway(inner, smallBreakerExecutor())

	resp, err := gw.Complete(context.Background(), domain.LLMRequest{MaxOutputTokens: 600})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.GeneratedText != "Explicație." {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if inner.calls != 1 {
		t.Fatalf("expected exactly one provider call, got %d", inner.calls)
	}
}

func TestResilientGatewayOpenBreakerSurfacesAsRateLimit(t *testing.T) {
	inner := &innerGatewayFake{err: errors.New("upstream down")}
	gw := NewResilientGateway(inner, smallBreakerExecutor())

	for i := 0; i < 2; i++ {
		if _, err := gw.Complete(context.Background(), domain.LLMRequest{}); err == nil {
			t.Fatalf("call %d: expected upstream error", i)
		}
	}

	before := inner.calls
	_, err := gw.Complete(context.Background(), domain.LLMRequest{})
	if !domain.IsKind(err, domain.ErrRateLimited) {
		t.Fatalf("expected rate limit kind for open breaker, got %v", err)
	}
	if inner.calls != before {
		t.Fatal("open breaker must not reach the provider")
	}
}

func TestResilientGatewayInvalidInputDoesNotTrip(t *testing.T) {
	inner := &innerGatewayFake{err: domain.WrapError(domain.ErrInvalidInput, "assemble", errors.New("empty"))}
	gw := NewResilientGateway(inner, smallBreakerExecutor())

	for i := 0; i < 5; i++ {
		if _, err := gw.Complete(context.Background(), domain.LLMRequest{}); !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("call %d: expected invalid input, got %v", i, err)
		}
	}

	inner.err = nil
	inner.resp = &domain.LLMResponse{GeneratedText: "ok"}
	if _, err := gw.Complete(context.Background(), domain.LLMRequest{}); err != nil {
		t.Fatalf("breaker must stay closed for caller faults: %v", err)
	}
}

func TestBuildMessagesPreservesOrderAndRoles(t *testing.T) {
	turns := []domain.ConversationTurn{
		{Role: domain.RoleUser, Text: "Ce este acest document?"},
		{Role: domain.RoleAssistant, Text: "O amendă de circulație."},
		{Role: domain.RoleUser, Text: "Uite și poza.", Attachment: &domain.Attachment{Base64Data: "aGVsbG8=", MediaType: "image/png"}},
	}

	messages := buildMessages(turns)
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[0].Role != anthropic.MessageParamRoleUser {
		t.Fatalf("expected user role first, got %q", messages[0].Role)
	}
	if messages[1].Role != anthropic.MessageParamRoleAssistant {
		t.Fatalf("expected assistant role second, got %q", messages[1].Role)
	}
	if len(messages[2].Content) != 2 {
		t.Fatalf("expected attachment plus text blocks, got %d", len(messages[2].Content))
	}
}

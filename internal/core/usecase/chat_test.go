package usecase

import (
	"context"
	"testing"

	"github.com/peinteles/document-interpreter/internal/core/domain"
)

func TestChatRespondRequiresMessages(t *testing.T) {
	gw := &gatewayFake{}
	uc := NewChatUseCase(gw, testLogger())

	_, err := uc.Respond(context.Background(), nil, "", "")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if gw.calls != 0 {
		t.Fatal("gateway must not be called without messages")
	}
}

func TestChatRespondForwardsHistoryAndContext(t *testing.T) {
	gw := &gatewayFake{resp: &domain.LLMResponse{
		GeneratedText: "Da, aveți 15 zile pentru contestație.",
		Usage:         domain.TokenUsage{InputTokens: 50, OutputTokens: 20},
	}}
	uc := NewChatUseCase(gw, testLogger())

	turns := []domain.ConversationTurn{
		{Role: domain.RoleUser, Text: "Pot contesta amenda?"},
	}
	resp, err := uc.Respond(context.Background(), turns, "", "Documentul: amendă rutieră.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.GeneratedText == "" {
		t.Fatal("expected generated text")
	}
	if len(gw.lastReq.Turns) != 1 {
		t.Fatalf("expected history forwarded, got %d turns", len(gw.lastReq.Turns))
	}
	if gw.lastReq.MaxOutputTokens != 2048 {
		t.Fatalf("expected chat budget, got %d", gw.lastReq.MaxOutputTokens)
	}
}

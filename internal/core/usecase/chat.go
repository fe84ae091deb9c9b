package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/peinteles/document-interpreter/internal/core/domain"
	"github.com/peinteles/document-interpreter/internal/core/ports"
)

// ChatUseCase answers follow-up questions over a caller-supplied history.
// Nothing is persisted between calls.
type ChatUseCase struct {
	assembler RequestAssembler
	gateway   ports.LLMGateway
	logger    *slog.Logger
}

func NewChatUseCase(gateway ports.LLMGateway, logger *slog.Logger) *ChatUseCase {
	return &ChatUseCase{gateway: gateway, logger: logger}
}

func (uc *ChatUseCase) Respond(ctx context.Context, turns []domain.ConversationTurn, system, documentContext string) (*domain.LLMResponse, error) {
	if len(turns) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "chat", errors.New("messages are required"))
	}

	req, err := uc.assembler.AssembleChat(turns, system, documentContext)
	if err != nil {
		return nil, err
	}

	resp, err := uc.gateway.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call llm gateway: %w", err)
	}

	uc.logger.Info("chat follow-up answered",
		"turns", len(turns),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	return resp, nil
}

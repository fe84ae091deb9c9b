// Package claude implements the LLM gateway over the Anthropic Messages API.
package claude

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/peinteles/document-interpreter/internal/core/domain"
)

type Client struct {
	api     anthropic.Client
	model   anthropic.Model
	timeout time.Duration
}

func New(apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		api:     anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:   anthropic.Model(model),
		timeout: timeout,
	}
}

func (c *Client) Complete(ctx context.Context, req domain.LLMRequest) (*domain.LLMResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: req.MaxOutputTokens,
		Messages:  buildMessages(req.Turns),
	}
	if req.SystemInstruction != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemInstruction}}
	}

	msg, err := c.api.Messages.New(ctx, params)
	if err != nil {
		return nil, wrapAPIError(err)
	}

	var builder strings.Builder
	for _, block := range msg.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			builder.WriteString(text.Text)
		}
	}
	generated := strings.TrimSpace(builder.String())
	if generated == "" {
		return nil, errors.New("anthropic message: empty completion")
	}

	return &domain.LLMResponse{
		GeneratedText: generated,
		Usage: domain.TokenUsage{
			InputTokens:  msg.Usage.InputTokens,
			OutputTokens: msg.Usage.OutputTokens,
		},
	}, nil
}

func buildMessages(turns []domain.ConversationTurn) []anthropic.MessageParam {
	messages := make([]anthropic.MessageParam, 0, len(turns))
	for _, turn := range turns {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, 2)
		if turn.Attachment != nil {
			blocks = append(blocks, attachmentBlock(*turn.Attachment))
		}
		if turn.Text != "" {
			blocks = append(blocks, anthropic.NewTextBlock(turn.Text))
		}
		if turn.Role == domain.RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(blocks...))
			continue
		}
		messages = append(messages, anthropic.NewUserMessage(blocks...))
	}
	return messages
}

func attachmentBlock(att domain.Attachment) anthropic.ContentBlockParamUnion {
	if strings.EqualFold(att.MediaType, "application/pdf") {
		return anthropic.NewDocumentBlock(anthropic.Base64PDFSourceParam{Data: att.Base64Data})
	}
	return anthropic.NewImageBlockBase64(att.MediaType, att.Base64Data)
}

// wrapAPIError maps provider statuses onto domain kinds. Auth failures are
// masked: the upstream message never reaches a caller.
func wrapAPIError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.WrapError(domain.ErrGatewayAuth, "anthropic message", errors.New(http.StatusText(apiErr.StatusCode)))
		case http.StatusTooManyRequests:
			return domain.WrapError(domain.ErrRateLimited, "anthropic message", errors.New(http.StatusText(apiErr.StatusCode)))
		}
	}
	return fmt.Errorf("anthropic message: %w", err)
}

package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/peinteles/document-interpreter/internal/core/domain"
	"github.com/peinteles/document-interpreter/internal/core/prompt"
)

// RequestAssembler builds the final gateway request from a routing decision
// and the tier's template. Assembly is a pure function of its inputs.
type RequestAssembler struct{}

// Assemble builds a single-turn request: either the extracted text embedded
// in the tier's instruction, or the raw attachment paired with the tier's
// multimodal instruction.
func (RequestAssembler) Assemble(
	tier domain.AnalysisTier,
	decision domain.RoutingDecision,
	extraction domain.ExtractionResult,
	attachment *domain.Attachment,
) (domain.LLMRequest, error) {
	tpl, err := prompt.ForTier(tier)
	if err != nil {
		return domain.LLMRequest{}, err
	}

	var turn domain.ConversationTurn
	switch decision {
	case domain.RouteExtractedText:
		turn = domain.ConversationTurn{
			Role: domain.RoleUser,
			Text: fmt.Sprintf(tpl.UserInstruction, extraction.Text),
		}
	case domain.RouteMultimodalFallback:
		if attachment == nil || attachment.Base64Data == "" {
			return domain.LLMRequest{}, domain.WrapError(domain.ErrInvalidInput, "assemble request", errors.New("multimodal route without attachment"))
		}
		turn = domain.ConversationTurn{
			Role:       domain.RoleUser,
			Text:       tpl.MultimodalInstruction,
			Attachment: attachment,
		}
	default:
		return domain.LLMRequest{}, domain.WrapError(domain.ErrInvalidInput, "assemble request", fmt.Errorf("unknown routing decision %q", decision))
	}

	return domain.LLMRequest{
		SystemInstruction: tpl.SystemInstruction,
		MaxOutputTokens:   tpl.MaxOutputTokens,
		Turns:             []domain.ConversationTurn{turn},
	}, nil
}

// AssembleChat builds the follow-up request from the caller-supplied history.
// Only the last user turn may carry an attachment; documentContext is
// appended verbatim to the system instruction.
func (RequestAssembler) AssembleChat(
	turns []domain.ConversationTurn,
	system, documentContext string,
) (domain.LLMRequest, error) {
	if len(turns) == 0 {
		return domain.LLMRequest{}, domain.WrapError(domain.ErrInvalidInput, "assemble chat request", errors.New("empty conversation"))
	}

	lastUser := -1
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == domain.RoleUser {
			lastUser = i
			break
		}
	}
	for i, turn := range turns {
		if turn.Role != domain.RoleUser && turn.Role != domain.RoleAssistant {
			return domain.LLMRequest{}, domain.WrapError(domain.ErrInvalidInput, "assemble chat request", fmt.Errorf("unknown role %q", turn.Role))
		}
		if turn.Attachment != nil && i != lastUser {
			return domain.LLMRequest{}, domain.WrapError(domain.ErrInvalidInput, "assemble chat request", errors.New("attachment on a non-final user turn"))
		}
	}

	tpl, err := prompt.ForTier(domain.TierChatFollowup)
	if err != nil {
		return domain.LLMRequest{}, err
	}

	instruction := tpl.SystemInstruction
	if s := strings.TrimSpace(system); s != "" {
		instruction = s
	}
	if documentContext != "" {
		instruction = instruction + "\n\n" + documentContext
	}

	ordered := make([]domain.ConversationTurn, len(turns))
	copy(ordered, turns)

	return domain.LLMRequest{
		SystemInstruction: instruction,
		MaxOutputTokens:   tpl.MaxOutputTokens,
		Turns:             ordered,
	}, nil
}

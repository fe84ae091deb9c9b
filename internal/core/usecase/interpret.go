package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/peinteles/document-interpreter/internal/core/domain"
	"github.com/peinteles/document-interpreter/internal/core/ports"
)

// InterpretUseCase runs the per-request pipeline: extract, quality-gate,
// assemble, call the gateway, shape the response. Stages are strictly
// sequential and nothing outlives the request.
type InterpretUseCase struct {
	extractor ports.TextExtractor
	gate      QualityGate
	assembler RequestAssembler
	gateway   ports.LLMGateway
	payments  ports.PaymentVerifier
	logger    *slog.Logger
}

func NewInterpretUseCase(
	extractor ports.TextExtractor,
	gate QualityGate,
	gateway ports.LLMGateway,
	payments ports.PaymentVerifier,
	logger *slog.Logger,
) *InterpretUseCase {
	return &InterpretUseCase{
		extractor: extractor,
		gate:      gate,
		gateway:   gateway,
		payments:  payments,
		logger:    logger,
	}
}

func (uc *InterpretUseCase) Interpret(ctx context.Context, tier domain.AnalysisTier, doc domain.SubmittedDocument) (*domain.Analysis, error) {
	if tier != domain.TierPreview && tier != domain.TierFull {
		return nil, domain.WrapError(domain.ErrInvalidInput, "interpret", fmt.Errorf("tier %q is not an analysis tier", tier))
	}
	if tier == domain.TierFull {
		if err := uc.payments.VerifyFullAccess(ctx); err != nil {
			return nil, fmt.Errorf("verify full access: %w", err)
		}
	}
	if !doc.HasBinary() && strings.TrimSpace(doc.InlineText) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "interpret", errors.New("no file and no text submitted"))
	}
	if doc.HasBinary() && !domain.IsAcceptedMediaType(doc.DeclaredMediaType) {
		return nil, domain.WrapError(domain.ErrInvalidInput, "interpret", fmt.Errorf("unsupported media type %q", doc.DeclaredMediaType))
	}

	extraction, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	binaryMediaType := ""
	if doc.HasBinary() {
		binaryMediaType = doc.DeclaredMediaType
	}
	decision, err := uc.gate.Decide(extraction, binaryMediaType)
	if err != nil {
		return nil, err
	}

	var attachment *domain.Attachment
	if decision == domain.RouteMultimodalFallback {
		attachment = &domain.Attachment{
			Base64Data: base64.StdEncoding.EncodeToString(doc.RawBytes),
			MediaType:  doc.DeclaredMediaType,
		}
	}

	req, err := uc.assembler.Assemble(tier, decision, extraction, attachment)
	if err != nil {
		return nil, err
	}

	resp, err := uc.gateway.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call llm gateway: %w", err)
	}

	uc.logger.Info("document interpreted",
		"tier", tier,
		"method", extraction.Method,
		"routing", decision,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)

	return &domain.Analysis{
		Tier:             tier,
		Explanation:      resp.GeneratedText,
		ExtractionMethod: extraction.Method,
		Routing:          decision,
		Usage:            resp.Usage,
	}, nil
}

// AnalyzeAttachment bypasses extraction entirely and submits the artifact
// multimodally.
func (uc *InterpretUseCase) AnalyzeAttachment(ctx context.Context, tier domain.AnalysisTier, att domain.Attachment) (*domain.Analysis, error) {
	if tier != domain.TierPreview && tier != domain.TierFull {
		return nil, domain.WrapError(domain.ErrInvalidInput, "analyze attachment", fmt.Errorf("tier %q is not an analysis tier", tier))
	}
	if att.Base64Data == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "analyze attachment", errors.New("empty attachment"))
	}
	if !domain.IsMultimodalMediaType(att.MediaType) {
		return nil, domain.WrapError(domain.ErrInvalidInput, "analyze attachment", fmt.Errorf("media type %q cannot be analyzed directly", att.MediaType))
	}

	req, err := uc.assembler.Assemble(tier, domain.RouteMultimodalFallback, domain.ExtractionResult{}, &att)
	if err != nil {
		return nil, err
	}

	resp, err := uc.gateway.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call llm gateway: %w", err)
	}

	uc.logger.Info("attachment analyzed", "tier", tier, "media_type", att.MediaType)

	return &domain.Analysis{
		Tier:             tier,
		Explanation:      resp.GeneratedText,
		ExtractionMethod: domain.MethodUnknown,
		Routing:          domain.RouteMultimodalFallback,
		Usage:            resp.Usage,
	}, nil
}

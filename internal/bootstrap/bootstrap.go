package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/peinteles/document-interpreter/internal/config"
	"github.com/peinteles/document-interpreter/internal/core/ports"
	"github.com/peinteles/document-interpreter/internal/core/usecase"
	"github.com/peinteles/document-interpreter/internal/infrastructure/extractor"
	"github.com/peinteles/document-interpreter/internal/infrastructure/llm/claude"
	"github.com/peinteles/document-interpreter/internal/infrastructure/ocr/tesseract"
	"github.com/peinteles/document-interpreter/internal/infrastructure/payment"
	"github.com/peinteles/document-interpreter/internal/infrastructure/resilience"
	"github.com/peinteles/document-interpreter/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	InterpretUC ports.DocumentInterpreter
	ChatUC      ports.ChatResponder
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if cfg.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}

	store, err := localfs.New(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("init upload storage: %w", err)
	}

	ocrEngine := tesseract.New(cfg.TesseractLanguages)
	if !ocrEngine.Available() {
		logger.Warn("tesseract binary not found; image uploads will fail extraction and rely on multimodal fallback")
	}

	docExtractor := extractor.New(
		store,
		ocrEngine,
		cfg.PDFNativeMinChars,
		time.Duration(cfg.OCRTimeoutSeconds)*time.Second,
	)

	gateway := claude.NewResilientGateway(
		claude.New(cfg.AnthropicAPIKey, cfg.AnthropicModel, time.Duration(cfg.LLMTimeoutSeconds)*time.Second),
		resilience.NewExecutor(resilience.DefaultConfig()),
	)

	gate := usecase.NewQualityGate(cfg.MinTextChars, cfg.MinOCRWords)

	return &App{
		Config:      cfg,
		InterpretUC: usecase.NewInterpretUseCase(docExtractor, gate, gateway, payment.NewAllowAll(), logger),
		ChatUC:      usecase.NewChatUseCase(gateway, logger),
	}, nil
}

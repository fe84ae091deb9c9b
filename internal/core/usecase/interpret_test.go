package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/peinteles/document-interpreter/internal/core/domain"
)

type extractorFake struct {
	result domain.ExtractionResult
	err    error
	calls  int
}

func (f *extractorFake) Extract(context.Context, domain.SubmittedDocument) (domain.ExtractionResult, error) {
	f.calls++
	if f.err != nil {
		return domain.ExtractionResult{}, f.err
	}
	return f.result, nil
}

type gatewayFake struct {
	resp    *domain.LLMResponse
	err     error
	calls   int
	lastReq domain.LLMRequest
}

func (f *gatewayFake) Complete(_ context.Context, req domain.LLMRequest) (*domain.LLMResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type paymentsFake struct {
	err   error
	calls int
}

func (f *paymentsFake) VerifyFullAccess(context.Context) error {
	f.calls++
	return f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestUC(ext *extractorFake, gw *gatewayFake, pay *paymentsFake) *InterpretUseCase {
	return NewInterpretUseCase(ext, NewQualityGate(50, 10), gw, pay, testLogger())
}

func TestInterpretInlineTextPreview(t *testing.T) {
	inline := "Ați primit o amendă de 500 lei. " + strings.Repeat("Detalii suplimentare. ", 3)
	ext := &extractorFake{result: domain.ExtractionResult{
		Text:      strings.TrimSpace(inline),
		Method:    domain.MethodDirectText,
		Succeeded: true,
	}}
	gw := &gatewayFake{resp: &domain.LLMResponse{
		GeneratedText: "Tipul documentului: amendă.",
		Usage:         domain.TokenUsage{InputTokens: 100, OutputTokens: 40},
	}}
	uc := newTestUC(ext, gw, &paymentsFake{})

	analysis, err := uc.Interpret(context.Background(), domain.TierPreview, domain.SubmittedDocument{InlineText: inline})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.Routing != domain.RouteExtractedText {
		t.Fatalf("expected text route, got %q", analysis.Routing)
	}
	if analysis.ExtractionMethod != domain.MethodDirectText {
		t.Fatalf("expected direct text method, got %q", analysis.ExtractionMethod)
	}
	if !strings.Contains(gw.lastReq.Turns[0].Text, "Ați primit o amendă de 500 lei.") {
		t.Fatalf("submitted text not embedded verbatim: %q", gw.lastReq.Turns[0].Text)
	}
	if gw.lastReq.MaxOutputTokens != 600 {
		t.Fatalf("expected preview budget, got %d", gw.lastReq.MaxOutputTokens)
	}
	if analysis.Usage.OutputTokens != 40 {
		t.Fatalf("usage metadata not propagated: %+v", analysis.Usage)
	}
}

func TestInterpretSparseOCRFallsBackToMultimodal(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4E, 0x47}
	ext := &extractorFake{result: domain.ExtractionResult{
		Text:      "unu doi trei patru cinci",
		Method:    domain.MethodImageOCR,
		Succeeded: true,
	}}
	gw := &gatewayFake{resp: &domain.LLMResponse{GeneratedText: "Previzualizare."}}
	uc := newTestUC(ext, gw, &paymentsFake{})

	doc := domain.SubmittedDocument{
		RawBytes:          raw,
		DeclaredMediaType: "image/png",
		OriginalFilename:  "amenda.png",
		SizeBytes:         int64(len(raw)),
	}
	analysis, err := uc.Interpret(context.Background(), domain.TierPreview, doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.Routing != domain.RouteMultimodalFallback {
		t.Fatalf("expected multimodal fallback, got %q", analysis.Routing)
	}
	att := gw.lastReq.Turns[0].Attachment
	if att == nil {
		t.Fatal("expected attachment on fallback route")
	}
	if att.Base64Data != base64.StdEncoding.EncodeToString(raw) {
		t.Fatal("attachment must carry the original bytes")
	}
	if att.MediaType != "image/png" {
		t.Fatalf("expected image/png attachment, got %q", att.MediaType)
	}
	if strings.Contains(gw.lastReq.Turns[0].Text, "unu doi trei") {
		t.Fatal("sparse OCR text must not be embedded")
	}
}

func TestInterpretScannedPDFRoutesMultimodal(t *testing.T) {
	ext := &extractorFake{result: domain.ExtractionResult{Method: domain.MethodPDFScannedFallback}}
	gw := &gatewayFake{resp: &domain.LLMResponse{GeneratedText: "Explicație completă."}}
	uc := newTestUC(ext, gw, &paymentsFake{})

	doc := domain.SubmittedDocument{
		RawBytes:          []byte("%PDF-1.4 fake"),
		DeclaredMediaType: "application/pdf",
		OriginalFilename:  "scan.pdf",
	}
	analysis, err := uc.Interpret(context.Background(), domain.TierFull, doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.Routing != domain.RouteMultimodalFallback {
		t.Fatalf("expected multimodal fallback, got %q", analysis.Routing)
	}
	if gw.lastReq.MaxOutputTokens != 4096 {
		t.Fatalf("expected full budget, got %d", gw.lastReq.MaxOutputTokens)
	}
}

func TestInterpretRejectsEmptySubmissionBeforeExtraction(t *testing.T) {
	ext := &extractorFake{}
	gw := &gatewayFake{}
	uc := newTestUC(ext, gw, &paymentsFake{})

	_, err := uc.Interpret(context.Background(), domain.TierPreview, domain.SubmittedDocument{InlineText: "   "})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if ext.calls != 0 {
		t.Fatal("extraction must not run for empty submissions")
	}
	if gw.calls != 0 {
		t.Fatal("gateway must not be called for empty submissions")
	}
}

func TestInterpretRejectsShortInlineTextWithoutLLMCall(t *testing.T) {
	ext := &extractorFake{result: domain.ExtractionResult{
		Text:      "abc",
		Method:    domain.MethodDirectText,
		Succeeded: true,
	}}
	gw := &gatewayFake{}
	uc := newTestUC(ext, gw, &paymentsFake{})

	_, err := uc.Interpret(context.Background(), domain.TierPreview, domain.SubmittedDocument{InlineText: "abc"})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if gw.calls != 0 {
		t.Fatal("gateway must not be called when content is insufficient")
	}
}

func TestInterpretRejectsShortPlainTextFileWithoutFallback(t *testing.T) {
	ext := &extractorFake{result: domain.ExtractionResult{
		Text:      "abc",
		Method:    domain.MethodPlainTextRead,
		Succeeded: true,
	}}
	gw := &gatewayFake{}
	uc := newTestUC(ext, gw, &paymentsFake{})

	doc := domain.SubmittedDocument{
		RawBytes:          []byte("abc"),
		DeclaredMediaType: "text/plain",
		OriginalFilename:  "scurt.txt",
		SizeBytes:         3,
	}
	_, err := uc.Interpret(context.Background(), domain.TierPreview, doc)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if gw.calls != 0 {
		t.Fatal("a plain text file must never be submitted multimodally")
	}
}

func TestInterpretRejectsUnsupportedMediaType(t *testing.T) {
	ext := &extractorFake{}
	gw := &gatewayFake{}
	uc := newTestUC(ext, gw, &paymentsFake{})

	doc := domain.SubmittedDocument{
		RawBytes:          []byte("PK\x03\x04"),
		DeclaredMediaType: "application/zip",
	}
	_, err := uc.Interpret(context.Background(), domain.TierPreview, doc)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if ext.calls != 0 {
		t.Fatal("extraction must not run for unaccepted media types")
	}
}

func TestInterpretFullTierVerifiesPaymentFirst(t *testing.T) {
	ext := &extractorFake{}
	gw := &gatewayFake{}
	pay := &paymentsFake{err: errors.New("payment required")}
	uc := newTestUC(ext, gw, pay)

	_, err := uc.Interpret(context.Background(), domain.TierFull, domain.SubmittedDocument{InlineText: "text"})
	if err == nil {
		t.Fatal("expected payment error")
	}
	if pay.calls != 1 {
		t.Fatalf("expected one payment check, got %d", pay.calls)
	}
	if ext.calls != 0 {
		t.Fatal("payment must short-circuit before extraction")
	}
}

func TestInterpretPropagatesGatewayErrors(t *testing.T) {
	inline := strings.Repeat("Text suficient de lung pentru analiză. ", 3)
	ext := &extractorFake{result: domain.ExtractionResult{
		Text:      strings.TrimSpace(inline),
		Method:    domain.MethodDirectText,
		Succeeded: true,
	}}
	gw := &gatewayFake{err: domain.WrapError(domain.ErrRateLimited, "anthropic message", errors.New("429"))}
	uc := newTestUC(ext, gw, &paymentsFake{})

	_, err := uc.Interpret(context.Background(), domain.TierPreview, domain.SubmittedDocument{InlineText: inline})
	if !domain.IsKind(err, domain.ErrRateLimited) {
		t.Fatalf("expected rate limit kind to propagate, got %v", err)
	}
}

func TestInterpretRejectsChatTier(t *testing.T) {
	uc := newTestUC(&extractorFake{}, &gatewayFake{}, &paymentsFake{})
	_, err := uc.Interpret(context.Background(), domain.TierChatFollowup, domain.SubmittedDocument{InlineText: "orice"})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestAnalyzeAttachmentBypassesExtraction(t *testing.T) {
	ext := &extractorFake{}
	gw := &gatewayFake{resp: &domain.LLMResponse{GeneratedText: "Previzualizare."}}
	uc := newTestUC(ext, gw, &paymentsFake{})

	analysis, err := uc.AnalyzeAttachment(context.Background(), domain.TierPreview, domain.Attachment{
		Base64Data: "aGVsbG8=",
		MediaType:  "image/jpeg",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ext.calls != 0 {
		t.Fatal("direct analysis must not extract")
	}
	if analysis.Routing != domain.RouteMultimodalFallback {
		t.Fatalf("expected multimodal route, got %q", analysis.Routing)
	}
}

func TestAnalyzeAttachmentRejectsEmptyImage(t *testing.T) {
	uc := newTestUC(&extractorFake{}, &gatewayFake{}, &paymentsFake{})
	_, err := uc.AnalyzeAttachment(context.Background(), domain.TierPreview, domain.Attachment{MediaType: "image/png"})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestAnalyzeAttachmentRejectsNonVisualMediaTypes(t *testing.T) {
	gw := &gatewayFake{}
	uc := newTestUC(&extractorFake{}, gw, &paymentsFake{})

	for _, mediaType := range []string{"text/plain", "application/zip"} {
		_, err := uc.AnalyzeAttachment(context.Background(), domain.TierPreview, domain.Attachment{
			Base64Data: "aGVsbG8=",
			MediaType:  mediaType,
		})
		if !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: expected invalid input, got %v", mediaType, err)
		}
	}
	if gw.calls != 0 {
		t.Fatal("non-visual attachments must never reach the gateway")
	}
}

// Package extractor turns a submitted document into plain text using the
// best strategy for its declared media type.
package extractor

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/peinteles/document-interpreter/internal/core/domain"
	"github.com/peinteles/document-interpreter/internal/core/ports"
)

type Extractor struct {
	store             ports.TempStore
	ocr               ports.OCREngine
	pdfNativeMinChars int
	ocrTimeout        time.Duration
}

func New(store ports.TempStore, ocr ports.OCREngine, pdfNativeMinChars int, ocrTimeout time.Duration) *Extractor {
	return &Extractor{
		store:             store,
		ocr:               ocr,
		pdfNativeMinChars: pdfNativeMinChars,
		ocrTimeout:        ocrTimeout,
	}
}

// Extract dispatches on the declared media type. Binary uploads are staged
// to a uniquely named temp file that is removed on every exit path,
// including OCR failure and context cancellation.
func (e *Extractor) Extract(ctx context.Context, doc domain.SubmittedDocument) (domain.ExtractionResult, error) {
	if !doc.HasBinary() {
		text := strings.TrimSpace(doc.InlineText)
		return domain.ExtractionResult{
			Text:      text,
			Method:    domain.MethodDirectText,
			Succeeded: text != "",
		}, nil
	}

	key := uuid.NewString() + "_" + sanitizeFilename(doc.OriginalFilename)
	path, err := e.store.Save(ctx, key, bytes.NewReader(doc.RawBytes))
	if err != nil {
		return domain.ExtractionResult{}, domain.WrapError(domain.ErrExtraction, "stage upload", err)
	}
	defer func() {
		if err := e.store.Remove(key); err != nil {
			slog.Warn("temp upload removal failed", "key", key, "error", err)
		}
	}()

	mediaType := normalizeMediaType(doc.DeclaredMediaType)
	switch {
	case mediaType == "application/pdf":
		return e.extractPDF(doc.RawBytes), nil

	case strings.HasPrefix(mediaType, "image/"):
		text, err := e.recognize(ctx, path)
		if err != nil {
			return domain.ExtractionResult{}, domain.WrapError(domain.ErrExtraction, "image ocr", err)
		}
		text = strings.TrimSpace(text)
		return domain.ExtractionResult{
			Text:      text,
			Method:    domain.MethodImageOCR,
			Succeeded: text != "",
		}, nil

	case mediaType == "text/plain":
		text, err := decodePlainText(doc.RawBytes)
		if err != nil {
			return domain.ExtractionResult{}, domain.WrapError(domain.ErrExtraction, "read plain text", err)
		}
		return domain.ExtractionResult{
			Text:      text,
			Method:    domain.MethodPlainTextRead,
			Succeeded: text != "",
		}, nil

	default:
		// Last resort for anything else the acceptance policy let through.
		// Best effort only: failures yield an empty result.
		text, err := e.recognize(ctx, path)
		if err != nil {
			return domain.ExtractionResult{Method: domain.MethodUnknown}, nil
		}
		text = strings.TrimSpace(text)
		return domain.ExtractionResult{
			Text:      text,
			Method:    domain.MethodUnknown,
			Succeeded: text != "",
		}, nil
	}
}

func (e *Extractor) recognize(ctx context.Context, path string) (string, error) {
	if e.ocrTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.ocrTimeout)
		defer cancel()
	}
	return e.ocr.RecognizeFile(ctx, path)
}

func normalizeMediaType(mediaType string) string {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		return "document.bin"
	}
	return base
}

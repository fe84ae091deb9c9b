package usecase

import (
	"errors"
	"strings"

	"github.com/peinteles/document-interpreter/internal/core/domain"
)

// QualityGate decides whether extracted text is trustworthy enough to send
// to the model, or whether the original artifact must go multimodal.
type QualityGate struct {
	MinTextChars int
	MinOCRWords  int
}

func NewQualityGate(minTextChars, minOCRWords int) QualityGate {
	return QualityGate{MinTextChars: minTextChars, MinOCRWords: minOCRWords}
}

// Decide routes one extraction. binaryMediaType is the declared type of the
// raw upload, empty for inline text. Scanned/unparseable PDFs always fall
// back to multimodal regardless of length. Falling back requires an artifact
// the model can look at (PDF or image); insufficient text from anything else,
// including plain-text files, is rejected before any gateway call.
func (g QualityGate) Decide(extraction domain.ExtractionResult, binaryMediaType string) (domain.RoutingDecision, error) {
	canFallBack := domain.IsMultimodalMediaType(binaryMediaType)

	if extraction.Method == domain.MethodPDFScannedFallback {
		if !canFallBack {
			return "", domain.WrapError(domain.ErrInvalidInput, "quality gate", errors.New("scanned pdf without original artifact"))
		}
		return domain.RouteMultimodalFallback, nil
	}

	if g.usable(extraction) {
		return domain.RouteExtractedText, nil
	}
	if canFallBack {
		return domain.RouteMultimodalFallback, nil
	}
	return "", domain.WrapError(domain.ErrInvalidInput, "quality gate", errors.New("no usable text content"))
}

func (g QualityGate) usable(extraction domain.ExtractionResult) bool {
	trimmed := strings.TrimSpace(extraction.Text)
	if len([]rune(trimmed)) < g.MinTextChars {
		return false
	}
	// OCR over images can emit sparse noise that clears the length bar.
	if extraction.Method == domain.MethodImageOCR && len(strings.Fields(trimmed)) < g.MinOCRWords {
		return false
	}
	return true
}

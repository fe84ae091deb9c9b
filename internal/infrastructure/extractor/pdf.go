package extractor

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/peinteles/document-interpreter/internal/core/domain"
)

// extractPDF attempts the native text layer. A short or unreadable layer is
// not an error: it tags the document as scanned so the caller routes it to
// multimodal submission instead of retrying OCR.
func (e *Extractor) extractPDF(data []byte) domain.ExtractionResult {
	text, err := readNativeTextLayer(data)
	if err != nil || len([]rune(text)) <= e.pdfNativeMinChars {
		return domain.ExtractionResult{Method: domain.MethodPDFScannedFallback}
	}
	return domain.ExtractionResult{
		Text:      text,
		Method:    domain.MethodPDFNativeText,
		Succeeded: true,
	}
}

func readNativeTextLayer(data []byte) (text string, err error) {
	// The parser panics on some malformed files; treat that as "no layer".
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = errPDFParsePanic
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(pageText)
		builder.WriteString("\n")
	}
	return strings.TrimSpace(builder.String()), nil
}

var errPDFParsePanic = pdfParseError{}

type pdfParseError struct{}

func (pdfParseError) Error() string { return "pdf parser panic" }

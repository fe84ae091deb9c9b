package domain

import "strings"

// ExtractionMethod identifies which strategy produced text from a document.
type ExtractionMethod string

const (
	MethodDirectText         ExtractionMethod = "direct_text"
	MethodPDFNativeText      ExtractionMethod = "pdf_native_text"
	MethodPDFScannedFallback ExtractionMethod = "pdf_scanned_fallback"
	MethodImageOCR           ExtractionMethod = "image_ocr"
	MethodPlainTextRead      ExtractionMethod = "plain_text_read"
	MethodUnknown            ExtractionMethod = "unknown"
)

// SubmittedDocument is the inbound artifact of one request. Either RawBytes
// plus DeclaredMediaType or InlineText is populated, never both.
type SubmittedDocument struct {
	RawBytes          []byte
	DeclaredMediaType string
	OriginalFilename  string
	SizeBytes         int64
	InlineText        string
}

func (d SubmittedDocument) HasBinary() bool {
	return len(d.RawBytes) > 0
}

// ExtractionResult is produced once by the extractor and consumed once by
// the quality gate. Empty text with Succeeded=false is a valid outcome, not
// an error.
type ExtractionResult struct {
	Text      string
	Method    ExtractionMethod
	Succeeded bool
}

// RoutingDecision is the quality gate verdict on an extraction.
type RoutingDecision string

const (
	RouteExtractedText      RoutingDecision = "extracted_text"
	RouteMultimodalFallback RoutingDecision = "multimodal_fallback"
)

// AnalysisTier selects the prompt template and token budget. Fixed at
// request time.
type AnalysisTier string

const (
	TierPreview      AnalysisTier = "preview"
	TierFull         AnalysisTier = "full"
	TierChatFollowup AnalysisTier = "chat_followup"
)

// Analysis is the outward result of one interpretation request.
type Analysis struct {
	Tier             AnalysisTier     `json:"tier"`
	Explanation      string           `json:"explanation"`
	ExtractionMethod ExtractionMethod `json:"extraction_method"`
	Routing          RoutingDecision  `json:"routing"`
	Usage            TokenUsage       `json:"usage"`
}

// IsAcceptedMediaType reports whether uploads of the given declared media
// type are admitted into the pipeline.
func IsAcceptedMediaType(mediaType string) bool {
	return canonicalMediaType(mediaType) == "text/plain" || IsMultimodalMediaType(mediaType)
}

// IsMultimodalMediaType reports whether the artifact itself can be submitted
// to the model when its extracted text is unusable. Only PDF and image
// uploads qualify; a plain-text file with too little text is simply rejected.
func IsMultimodalMediaType(mediaType string) bool {
	mt := canonicalMediaType(mediaType)
	return mt == "application/pdf" || strings.HasPrefix(mt, "image/")
}

func canonicalMediaType(mediaType string) string {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}

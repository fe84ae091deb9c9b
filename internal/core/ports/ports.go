package ports

import (
	"context"
	"io"

	"github.com/peinteles/document-interpreter/internal/core/domain"
)

// TextExtractor produces plain text from a submitted document using the best
// available strategy. It owns the document's temporary on-disk representation
// and deletes it on every exit path. "No usable text" is a successful empty
// result, not an error.
type TextExtractor interface {
	Extract(ctx context.Context, doc domain.SubmittedDocument) (domain.ExtractionResult, error)
}

// OCREngine is the black-box text-from-image function.
type OCREngine interface {
	RecognizeFile(ctx context.Context, path string) (string, error)
}

// TempStore stages uploaded bytes on disk under a unique key and removes
// them when the owner is done.
type TempStore interface {
	Save(ctx context.Context, key string, data io.Reader) (path string, err error)
	Remove(key string) error
}

// LLMGateway is the stateless chat-completion call. Implementations must
// surface domain.ErrGatewayAuth and domain.ErrRateLimited so the boundary
// can translate them.
type LLMGateway interface {
	Complete(ctx context.Context, req domain.LLMRequest) (*domain.LLMResponse, error)
}

// PaymentVerifier gates the full tier before any extraction work begins.
type PaymentVerifier interface {
	VerifyFullAccess(ctx context.Context) error
}

// DocumentInterpreter is the inbound contract for single-shot analysis.
type DocumentInterpreter interface {
	Interpret(ctx context.Context, tier domain.AnalysisTier, doc domain.SubmittedDocument) (*domain.Analysis, error)
	AnalyzeAttachment(ctx context.Context, tier domain.AnalysisTier, att domain.Attachment) (*domain.Analysis, error)
}

// ChatResponder is the inbound contract for follow-up conversation.
type ChatResponder interface {
	Respond(ctx context.Context, turns []domain.ConversationTurn, system, documentContext string) (*domain.LLMResponse, error)
}

package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/peinteles/document-interpreter/internal/core/domain"
)

// User-facing messages are Romanian and deliberately generic; internals are
// only ever logged.
const (
	msgValidation  = "Documentul trimis nu poate fi procesat. Verificați fișierul sau textul și încercați din nou."
	msgTooLarge    = "Fișierul depășește dimensiunea maximă acceptată de 20MB."
	msgExtraction  = "A apărut o problemă la citirea documentului. Vă rugăm să încercați din nou."
	msgGateway     = "Serviciul de analiză nu este disponibil momentan. Vă rugăm să încercați mai târziu."
	msgRateLimited = "Prea multe cereri. Vă rugăm să încercați din nou în câteva momente."
	msgInternal    = "A apărut o eroare neașteptată. Vă rugăm să încercați din nou."
)

func mapError(err error) (int, string) {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, msgValidation
	case domain.IsKind(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, msgRateLimited
	case domain.IsKind(err, domain.ErrGatewayAuth):
		return http.StatusInternalServerError, msgGateway
	case domain.IsKind(err, domain.ErrExtraction):
		return http.StatusInternalServerError, msgExtraction
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func (rt *Router) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := mapError(err)
	attrs := []any{
		"request_id", requestIDFromContext(r.Context()),
		"path", r.URL.Path,
		"status", status,
		"error", err,
	}
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", attrs...)
	} else {
		slog.Warn("request rejected", attrs...)
	}
	writeJSON(w, status, map[string]string{"error": message})
}

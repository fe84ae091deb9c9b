package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/peinteles/document-interpreter/internal/core/domain"
	"github.com/peinteles/document-interpreter/internal/core/ports"
	"github.com/peinteles/document-interpreter/internal/observability/metrics"
)

// Options carries the adapter-level knobs out of config.
type Options struct {
	Service            string
	MaxUploadBytes     int64
	CORSAllowedOrigins string
	RateLimitRPS       int
	RateLimitBurst     int
}

type Router struct {
	interpret ports.DocumentInterpreter
	chat      ports.ChatResponder
	metrics   *metrics.HTTPServerMetrics
	opts      Options
	limiter   *rate.Limiter
}

func NewRouter(
	interpret ports.DocumentInterpreter,
	chat ports.ChatResponder,
	m *metrics.HTTPServerMetrics,
	opts Options,
) *Router {
	if opts.Service == "" {
		opts.Service = "peinteles-api"
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 20 * 1024 * 1024
	}
	if opts.RateLimitRPS <= 0 {
		opts.RateLimitRPS = 10
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = opts.RateLimitRPS
	}
	return &Router{
		interpret: interpret,
		chat:      chat,
		metrics:   m,
		opts:      opts,
		limiter:   rate.NewLimiter(rate.Limit(opts.RateLimitRPS), opts.RateLimitBurst),
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", rt.handleIndex)
	mux.HandleFunc("/health", rt.handleHealth)
	mux.HandleFunc("/api/interpret", rt.interpretHandler(domain.TierPreview))
	mux.HandleFunc("/api/interpret-full", rt.interpretHandler(domain.TierFull))
	mux.HandleFunc("/api/claude", rt.handleClaude)
	mux.HandleFunc("/api/analyze-image", rt.handleAnalyzeImage)
	mux.Handle("/metrics", rt.metrics.Handler())

	handler := rt.metrics.Middleware(rt.opts.Service, mux)
	handler = rateLimitMiddleware(rt.limiter, handler)
	handler = corsMiddleware(rt.opts.CORSAllowedOrigins, handler)
	handler = recoverMiddleware(handler)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "Peinteles backend is running",
	})
}

func (rt *Router) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) interpretHandler(tier domain.AnalysisTier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}

		doc, ok := rt.parseSubmission(w, r)
		if !ok {
			return
		}

		start := time.Now()
		analysis, err := rt.interpret.Interpret(r.Context(), tier, doc)
		if err != nil {
			rt.metrics.RecordInterpretation(rt.opts.Service, string(tier), "error")
			rt.respondError(w, r, err)
			return
		}

		rt.metrics.RecordInterpretation(rt.opts.Service, string(tier), "success")
		rt.metrics.RecordExtraction(rt.opts.Service, string(analysis.ExtractionMethod), string(analysis.Routing))
		rt.metrics.RecordTokenUsage(rt.opts.Service, analysis.Usage.InputTokens, analysis.Usage.OutputTokens)
		rt.metrics.RecordLLMDuration(rt.opts.Service, string(tier), time.Since(start))

		writeJSON(w, http.StatusOK, analysis)
	}
}

// parseSubmission reads the multipart form: optional `file` field and/or
// `text` field. Oversized and unaccepted uploads are rejected here, before
// any extraction work.
func (rt *Router) parseSubmission(w http.ResponseWriter, r *http.Request) (domain.SubmittedDocument, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.opts.MaxUploadBytes+64*1024)

	if err := r.ParseMultipartForm(rt.opts.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": msgTooLarge})
			return domain.SubmittedDocument{}, false
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": msgValidation})
			return domain.SubmittedDocument{}, false
		}
		// Plain form posts carry only the text field.
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": msgValidation})
			return domain.SubmittedDocument{}, false
		}
	}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()

		if header.Size > rt.opts.MaxUploadBytes {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": msgTooLarge})
			return domain.SubmittedDocument{}, false
		}

		data, err := io.ReadAll(file)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": msgValidation})
			return domain.SubmittedDocument{}, false
		}

		mediaType := header.Header.Get("Content-Type")
		if mediaType == "" {
			mediaType = http.DetectContentType(data)
		}
		if !domain.IsAcceptedMediaType(mediaType) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": msgValidation})
			return domain.SubmittedDocument{}, false
		}

		return domain.SubmittedDocument{
			RawBytes:          data,
			DeclaredMediaType: mediaType,
			OriginalFilename:  header.Filename,
			SizeBytes:         int64(len(data)),
		}, true

	case errors.Is(err, http.ErrMissingFile):
		return domain.SubmittedDocument{InlineText: r.FormValue("text")}, true

	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msgValidation})
		return domain.SubmittedDocument{}, false
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

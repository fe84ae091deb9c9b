package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/peinteles/document-interpreter/internal/core/domain"
)

type imagePayload struct {
	Base64   string `json:"base64"`
	MimeType string `json:"mimeType"`
}

type chatRequest struct {
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	System          string        `json:"system,omitempty"`
	Image           *imagePayload `json:"image,omitempty"`
	DocumentContext string        `json:"documentContext,omitempty"`
}

type chatResponse struct {
	Response string            `json:"response"`
	Usage    domain.TokenUsage `json:"usage"`
}

func (rt *Router) handleClaude(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msgValidation})
		return
	}
	if len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msgValidation})
		return
	}

	turns := make([]domain.ConversationTurn, 0, len(req.Messages))
	lastUser := -1
	for _, message := range req.Messages {
		role := domain.Role(strings.ToLower(strings.TrimSpace(message.Role)))
		if role == domain.RoleUser {
			lastUser = len(turns)
		}
		turns = append(turns, domain.ConversationTurn{Role: role, Text: message.Content})
	}

	if req.Image != nil && req.Image.Base64 != "" {
		if lastUser < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": msgValidation})
			return
		}
		turns[lastUser].Attachment = &domain.Attachment{
			Base64Data: req.Image.Base64,
			MediaType:  req.Image.MimeType,
		}
	}

	resp, err := rt.chat.Respond(r.Context(), turns, req.System, req.DocumentContext)
	if err != nil {
		rt.respondError(w, r, err)
		return
	}

	rt.metrics.RecordTokenUsage(rt.opts.Service, resp.Usage.InputTokens, resp.Usage.OutputTokens)

	writeJSON(w, http.StatusOK, chatResponse{
		Response: resp.GeneratedText,
		Usage:    resp.Usage,
	})
}

type analyzeImageRequest struct {
	Image *imagePayload `json:"image"`
	Type  string        `json:"type,omitempty"`
}

func (rt *Router) handleAnalyzeImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req analyzeImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msgValidation})
		return
	}
	if req.Image == nil || req.Image.Base64 == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msgValidation})
		return
	}

	tier := domain.TierPreview
	switch strings.ToLower(strings.TrimSpace(req.Type)) {
	case "", "preview":
	case "full":
		tier = domain.TierFull
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msgValidation})
		return
	}

	analysis, err := rt.interpret.AnalyzeAttachment(r.Context(), tier, domain.Attachment{
		Base64Data: req.Image.Base64,
		MediaType:  req.Image.MimeType,
	})
	if err != nil {
		rt.metrics.RecordInterpretation(rt.opts.Service, string(tier), "error")
		rt.respondError(w, r, err)
		return
	}

	rt.metrics.RecordInterpretation(rt.opts.Service, string(tier), "success")
	rt.metrics.RecordTokenUsage(rt.opts.Service, analysis.Usage.InputTokens, analysis.Usage.OutputTokens)

	writeJSON(w, http.StatusOK, analysis)
}

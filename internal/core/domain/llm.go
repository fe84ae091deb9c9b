package domain

// Role is the author of one conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Attachment is a base64-encoded binary artifact submitted alongside text.
type Attachment struct {
	Base64Data string
	MediaType  string
}

// ConversationTurn is one ordered message in an LLM exchange. Only the most
// recent user turn may carry an attachment.
type ConversationTurn struct {
	Role       Role
	Text       string
	Attachment *Attachment
}

// LLMRequest is the fully assembled gateway call. Constructed fresh per
// request and discarded after the call returns.
type LLMRequest struct {
	SystemInstruction string
	MaxOutputTokens   int64
	Turns             []ConversationTurn
}

// TokenUsage is the usage metadata reported by the provider.
type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// LLMResponse is the provider's generated output for one request.
type LLMResponse struct {
	GeneratedText string
	Usage         TokenUsage
}

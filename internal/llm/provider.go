package llm

import "context"

// Provider is one chat-completion backend. Every backend implements the
// same single call: a system instruction and messages in, text out.
type Provider interface {
	// Generate sends the request and returns the generated text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the default model identifier for this provider.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt. Sets the LLM's role and constraints.
	System string

	// Messages is the conversation history. Puzzle generation always
	// sends a single user message.
	Messages []Message

	// Model overrides the provider's default model when non-empty.
	Model string

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64

	// JSON asks the backend for a JSON object when it has a native mode
	// for that. Backends without one ignore it.
	JSON bool
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the LLM's output.
type Response struct {
	// Content is the generated text, exactly as the backend returned it.
	Content string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// modelFor picks the per-request model override over the provider default.
func modelFor(req Request, fallback string) string {
	if req.Model != "" {
		return req.Model
	}
	return fallback
}

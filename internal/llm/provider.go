// Package llm abstracts the external generative model API. Services
// depend only on the Provider interface so the hosted provider can be
// swapped without touching business logic.
package llm

import "context"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one turn of model input.
type Message struct {
	Role Role
	Text string
}

// GenerateRequest describes a single model invocation.
type GenerateRequest struct {
	Messages          []Message
	SystemInstruction string
	Temperature       float64
	// JSONOutput constrains the response to a JSON document.
	JSONOutput bool
}

// GenerateResponse is the model's reply.
type GenerateResponse struct {
	Text         string
	PromptTokens int
	OutputTokens int
}

// Provider is the abstraction over hosted model APIs. Calls are single
// blocking round trips; no retries are performed at this layer.
type Provider interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	Name() string
}

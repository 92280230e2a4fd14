package openai

import "context"

// IOpenAI defines the interface for OpenAI-compatible chat completion clients.
// Implementations are safe for concurrent use.
type IOpenAI interface {
	GenerateContent(ctx context.Context, req *Request) (*Response, error)
	Model() string
}

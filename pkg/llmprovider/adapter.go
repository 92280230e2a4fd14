package llmprovider

import (
	"context"
	"encoding/base64"

	"goodwish-chatbot/pkg/gemini"
	"goodwish-chatbot/pkg/openai"
)

// GeminiAdapter adapts pkg/gemini to llmprovider.Provider interface
type GeminiAdapter struct {
	client gemini.IGemini
}

// NewGeminiAdapter creates a new Gemini adapter
func NewGeminiAdapter(client gemini.IGemini) *GeminiAdapter {
	return &GeminiAdapter{client: client}
}

// GenerateContent implements Provider interface
func (a *GeminiAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	geminiReq := &gemini.Request{
		SystemInstruction: convertToGeminiContent(req.SystemInstruction),
		Messages:          make([]gemini.Content, 0, len(req.Messages)),
		Temperature:       req.Temperature,
		MaxTokens:         req.MaxTokens,
	}
	for i := range req.Messages {
		geminiReq.Messages = append(geminiReq.Messages, *convertToGeminiContent(&req.Messages[i]))
	}

	resp, err := a.client.GenerateContent(ctx, geminiReq)
	if err != nil {
		return nil, &ProviderError{Provider: a.Name(), Err: err}
	}

	parts := make([]Part, 0, len(resp.Content.Parts))
	for _, p := range resp.Content.Parts {
		parts = append(parts, Part{Text: p.Text})
	}

	out := &Response{
		Content:      Message{Role: "assistant", Parts: parts},
		ProviderName: a.Name(),
		ModelName:    a.client.Model(),
		Usage:        &Usage{},
	}
	if resp.Usage != nil {
		out.Usage = &Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		}
	}
	return out, nil
}

// Name returns provider name
func (a *GeminiAdapter) Name() string {
	return "gemini"
}

// Model returns model name
func (a *GeminiAdapter) Model() string {
	return a.client.Model()
}

func convertToGeminiContent(msg *Message) *gemini.Content {
	if msg == nil {
		return nil
	}
	content := &gemini.Content{Role: msg.Role, Parts: make([]gemini.Part, 0, len(msg.Parts))}
	for _, p := range msg.Parts {
		gp := gemini.Part{Text: p.Text}
		if p.InlineData != nil {
			gp.InlineData = &gemini.Blob{MIMEType: p.InlineData.MIMEType, Data: p.InlineData.Data}
		}
		content.Parts = append(content.Parts, gp)
	}
	return content
}

// OpenAIAdapter adapts pkg/openai (OpenAI, Azure OpenAI, DeepSeek) to the Provider interface
type OpenAIAdapter struct {
	name   string
	client openai.IOpenAI
}

// NewOpenAIAdapter creates an adapter reporting the given provider name
func NewOpenAIAdapter(name string, client openai.IOpenAI) *OpenAIAdapter {
	return &OpenAIAdapter{name: name, client: client}
}

// GenerateContent implements Provider interface
func (a *OpenAIAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	oaReq := &openai.Request{
		Messages:    make([]openai.Message, 0, len(req.Messages)+1),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	// System instruction goes first as a system message
	if req.SystemInstruction != nil && len(req.SystemInstruction.Parts) > 0 {
		sys := convertToOpenAIMessage(*req.SystemInstruction)
		sys.Role = "system"
		oaReq.Messages = append(oaReq.Messages, sys)
	}
	for _, msg := range req.Messages {
		oaReq.Messages = append(oaReq.Messages, convertToOpenAIMessage(msg))
	}

	resp, err := a.client.GenerateContent(ctx, oaReq)
	if err != nil {
		return nil, &ProviderError{Provider: a.name, Err: err}
	}

	return &Response{
		Content:      TextMessage("assistant", resp.Choices[0].Message.Content),
		ProviderName: a.name,
		ModelName:    a.client.Model(),
		Usage: &Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// Name returns the provider name
func (a *OpenAIAdapter) Name() string {
	return a.name
}

// Model returns the model name
func (a *OpenAIAdapter) Model() string {
	return a.client.Model()
}

// Text-only messages are sent as plain strings; anything carrying an image
// becomes a content-part list.
func convertToOpenAIMessage(msg Message) openai.Message {
	hasImage := false
	for _, p := range msg.Parts {
		if p.InlineData != nil {
			hasImage = true
			break
		}
	}

	if !hasImage {
		var text string
		for i, p := range msg.Parts {
			if i > 0 {
				text += "\n"
			}
			text += p.Text
		}
		return openai.Message{Role: msg.Role, Content: text}
	}

	parts := make([]openai.ContentPart, 0, len(msg.Parts))
	for _, p := range msg.Parts {
		if p.Text != "" {
			parts = append(parts, openai.TextPart(p.Text))
		}
		if p.InlineData != nil {
			parts = append(parts, openai.ImagePart(p.InlineData.MIMEType, base64.StdEncoding.EncodeToString(p.InlineData.Data)))
		}
	}
	return openai.Message{Role: msg.Role, Content: parts}
}

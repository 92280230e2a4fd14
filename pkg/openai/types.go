package openai

import (
	"fmt"
	"net/http"
	"strings"
)

// Config holds the client configuration.
// For Azure, BaseURL is the resource endpoint and Model the deployment name.
type Config struct {
	Flavor     Flavor
	APIKey     string
	Model      string
	BaseURL    string
	APIVersion string
	HTTPClient *http.Client
}

// Validate validates the configuration and fills defaults
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("openai: API key is required")
	}
	if c.Flavor == "" {
		c.Flavor = FlavorOpenAI
	}
	switch c.Flavor {
	case FlavorOpenAI:
		if c.BaseURL == "" {
			c.BaseURL = DefaultBaseURL
		}
		if c.Model == "" {
			c.Model = DefaultModel
		}
	case FlavorAzure:
		if c.BaseURL == "" {
			return fmt.Errorf("openai: azure endpoint is required")
		}
		if c.Model == "" {
			return fmt.Errorf("openai: azure deployment name is required")
		}
		if c.APIVersion == "" {
			c.APIVersion = DefaultAzureAPIVersion
		}
	default:
		return fmt.Errorf("openai: unknown flavor %q", c.Flavor)
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	return nil
}

// Request is a chat completion request.
type Request struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// Message is a chat message. Content is either a plain string or a list of ContentPart.
type Message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// ContentPart is one element of a multimodal message.
type ContentPart struct {
	Type     string    `json:"type"` // "text" or "image_url"
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries either a remote URL or a data: URL.
type ImageURL struct {
	URL string `json:"url"`
}

// TextPart builds a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: "text", Text: text}
}

// ImagePart builds an image content part from base64 data.
func ImagePart(mimeType, base64Data string) ContentPart {
	return ContentPart{Type: "image_url", ImageURL: &ImageURL{URL: "data:" + mimeType + ";base64," + base64Data}}
}

// Response is a chat completion response.
type Response struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int             `json:"index"`
	Message      ResponseMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

// ResponseMessage is an assistant message; responses always carry string content.
type ResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ErrorResponse is the error body shared by OpenAI, Azure and DeepSeek.
type ErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

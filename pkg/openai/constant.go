package openai

import "time"

const (
	// DefaultBaseURL is the default OpenAI API endpoint
	DefaultBaseURL = "https://api.openai.com/v1"

	// DeepSeekBaseURL is the OpenAI-compatible DeepSeek endpoint
	DeepSeekBaseURL = "https://api.deepseek.com/v1"

	// DefaultModel is the default model to use
	DefaultModel = "gpt-4o-mini"

	// DefaultAzureAPIVersion is sent as api-version when talking to Azure OpenAI
	DefaultAzureAPIVersion = "2024-06-01"

	DefaultTimeout = 60 * time.Second
)

// Flavor selects the authentication and URL scheme.
type Flavor string

const (
	FlavorOpenAI Flavor = "openai"
	FlavorAzure  Flavor = "azure_openai"
)

package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	speechapi "google.golang.org/api/speech/v1"
)

// Client wraps the Google Cloud Speech-to-Text v1 service.
type Client struct {
	service *speechapi.Service
	opts    Options
}

// NewClientFromCredentialsFile creates a client from a Service Account JSON file path.
func NewClientFromCredentialsFile(ctx context.Context, credentialsPath string, opts Options) (*Client, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return NewClientFromCredentialsJSON(ctx, data, opts)
}

// NewClientFromCredentialsJSON creates a client from raw Service Account JSON bytes.
func NewClientFromCredentialsJSON(ctx context.Context, credentialsJSON []byte, opts Options) (*Client, error) {
	config, err := google.JWTConfigFromJSON(credentialsJSON, speechapi.CloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("unsupported credentials format: %w", err)
	}
	return newClient(ctx, opts, option.WithTokenSource(config.TokenSource(ctx)))
}

// NewClientWithAPIKey creates a client authenticated by an API key.
func NewClientWithAPIKey(ctx context.Context, apiKey string, opts Options) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("speech: API key is required")
	}
	return newClient(ctx, opts, option.WithAPIKey(apiKey))
}

// NewClientFromHTTP creates a client from a pre-configured HTTP client and endpoint.
func NewClientFromHTTP(ctx context.Context, httpClient *http.Client, endpoint string, opts Options) (*Client, error) {
	clientOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(endpoint))
	}
	return newClient(ctx, opts, clientOpts...)
}

func newClient(ctx context.Context, opts Options, clientOpts ...option.ClientOption) (*Client, error) {
	svc, err := speechapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech service: %w", err)
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.AlternativeLanguages == nil {
		opts.AlternativeLanguages = DefaultAlternativeLanguages
	}
	return &Client{service: svc, opts: opts}, nil
}

// Transcribe runs synchronous recognition with language auto-detection.
// Clips longer than a minute are rejected by the API.
func (c *Client) Transcribe(ctx context.Context, audio []byte, contentType string) (Transcript, error) {
	if len(audio) == 0 {
		return Transcript{}, ErrEmptyAudio
	}
	format, ok := lookupFormat(contentType)
	if !ok {
		return Transcript{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, contentType)
	}

	req := &speechapi.RecognizeRequest{
		Config: &speechapi.RecognitionConfig{
			Encoding:                   format.encoding,
			SampleRateHertz:            format.sampleRate,
			LanguageCode:               c.opts.Language,
			AlternativeLanguageCodes:   c.opts.AlternativeLanguages,
			EnableAutomaticPunctuation: true,
			MaxAlternatives:            defaultMaxAlternates,
		},
		Audio: &speechapi.RecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(audio),
		},
	}

	resp, err := c.service.Speech.Recognize(req).Context(ctx).Do()
	if err != nil {
		return Transcript{}, fmt.Errorf("speech: recognize: %w", err)
	}

	var (
		texts      []string
		language   string
		confidence float64
	)
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		best := result.Alternatives[0]
		if t := strings.TrimSpace(best.Transcript); t != "" {
			texts = append(texts, t)
		}
		if language == "" && result.LanguageCode != "" {
			language = result.LanguageCode
			confidence = best.Confidence
		}
	}

	if len(texts) == 0 {
		return Transcript{}, ErrNoSpeech
	}
	if language == "" {
		language = c.opts.Language
	}

	return Transcript{
		Text:       strings.Join(texts, " "),
		Language:   language,
		Confidence: confidence,
	}, nil
}

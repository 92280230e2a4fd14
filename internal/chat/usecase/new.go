package usecase

import (
	"context"
	"time"

	"goodwish-chatbot/internal/chat"
	"goodwish-chatbot/internal/conversation"
	"goodwish-chatbot/internal/document"
	"goodwish-chatbot/pkg/llmprovider"
	pkgLog "goodwish-chatbot/pkg/log"
	"goodwish-chatbot/pkg/speech"
)

// Generator produces an answer; *llmprovider.Manager implements it.
type Generator interface {
	GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}

// Config tunes retrieval and generation.
type Config struct {
	RetrievalK   int
	SummaryTurns int
	Temperature  float64
	MaxTokens    int
	// AnswerTimeout bounds retrieval plus generation for one request. Zero leaves it to the clients.
	AnswerTimeout time.Duration
}

type implUseCase struct {
	l           pkgLog.Logger
	conv        *conversation.Service
	retriever   document.Retriever
	llm         Generator
	transcriber speech.Transcriber
	cfg         Config
}

// New creates a new chat UseCase instance. transcriber may be nil when audio is disabled.
func New(
	l pkgLog.Logger,
	conv *conversation.Service,
	retriever document.Retriever,
	llm Generator,
	transcriber speech.Transcriber,
	cfg Config,
) chat.UseCase {
	if cfg.RetrievalK <= 0 {
		cfg.RetrievalK = chat.DefaultRetrievalK
	}
	if cfg.SummaryTurns <= 0 {
		cfg.SummaryTurns = chat.DefaultSummaryTurns
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = chat.DefaultMaxTokens
	}
	return &implUseCase{
		l:           l,
		conv:        conv,
		retriever:   retriever,
		llm:         llm,
		transcriber: transcriber,
		cfg:         cfg,
	}
}

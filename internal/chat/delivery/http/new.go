package http

import (
	"goodwish-chatbot/internal/chat"
	"goodwish-chatbot/pkg/log"
)

const (
	DefaultMaxImageBytes = 10 << 20
	DefaultMaxAudioBytes = 10 << 20
)

// Config bounds the uploads accepted by the handlers.
type Config struct {
	MaxImageBytes int64
	MaxAudioBytes int64
}

type handler struct {
	l   log.Logger
	uc  chat.UseCase
	cfg Config
}

// New creates a new HTTP handler for the chat domain.
func New(l log.Logger, uc chat.UseCase, cfg Config) *handler {
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = DefaultMaxImageBytes
	}
	if cfg.MaxAudioBytes <= 0 {
		cfg.MaxAudioBytes = DefaultMaxAudioBytes
	}
	return &handler{
		l:   l,
		uc:  uc,
		cfg: cfg,
	}
}

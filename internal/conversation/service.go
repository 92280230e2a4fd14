package conversation

import (
	"context"
	"fmt"
	"time"

	"goodwish-chatbot/pkg/log"
)

// Config configures a Service.
type Config struct {
	MaxTurns   int
	HistoryTTL time.Duration

	CacheCapacity int
	CacheTTL      time.Duration

	Updater UpdaterConfig

	Transport Transport
	Now       func() time.Time
}

// Service owns the conversation state of the process: session history, the response cache
// and the background history updater. Build one at startup and Close it on shutdown.
type Service struct {
	History   *HistoryStore
	Responses *ResponseCache
	Updater   *Updater
}

// New wires the history store, response cache and updater together.
func New(l log.Logger, cfg Config) (*Service, error) {
	if cfg.MaxTurns < 0 || cfg.MaxTurns%2 != 0 {
		return nil, fmt.Errorf("%w: max turns must be a positive even number, got %d", ErrInvalidConfig, cfg.MaxTurns)
	}

	history := NewHistoryStore(l, HistoryConfig{
		MaxTurns:  cfg.MaxTurns,
		TTL:       cfg.HistoryTTL,
		Transport: cfg.Transport,
		Now:       cfg.Now,
	})

	return &Service{
		History:   history,
		Responses: NewResponseCache(cfg.CacheCapacity, cfg.CacheTTL),
		Updater:   NewUpdater(l, history, cfg.Updater),
	}, nil
}

// Close drains pending history updates.
func (s *Service) Close(ctx context.Context) error {
	return s.Updater.Close(ctx)
}

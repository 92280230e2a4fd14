package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"goodwish-chatbot/internal/chat"
	chatHTTP "goodwish-chatbot/internal/chat/delivery/http"
	"goodwish-chatbot/internal/middleware"
	"goodwish-chatbot/pkg/log"
)

const defaultShutdownTimeout = 15 * time.Second

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin             *gin.Engine
	l               log.Logger
	port            int
	mode            string
	environment     string
	shutdownTimeout time.Duration

	// Chat domain
	chatUC     chat.UseCase
	chatConfig chatHTTP.Config
	mw         middleware.Middleware

	checks map[string]ReadinessCheck
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger          log.Logger
	Port            int
	Mode            string
	Environment     string
	ShutdownTimeout time.Duration

	// Chat domain
	ChatUseCase chat.UseCase
	ChatConfig  chatHTTP.Config
	Middleware  middleware.Middleware

	// ReadinessChecks are run by /ready, keyed by dependency name.
	ReadinessChecks map[string]ReadinessCheck
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.New(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		shutdownTimeout: cfg.ShutdownTimeout,
		chatUC:          cfg.ChatUseCase,
		chatConfig:      cfg.ChatConfig,
		mw:              cfg.Middleware,
		checks:          cfg.ReadinessChecks,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	if err := srv.mapHandlers(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.chatUC == nil {
		return errors.New("chat usecase is required")
	}
	return nil
}

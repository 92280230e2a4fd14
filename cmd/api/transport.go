package main

import (
	"context"
	"time"

	"goodwish-chatbot/config"
	configDB "goodwish-chatbot/config/database"
	configRedis "goodwish-chatbot/config/redis"
	"goodwish-chatbot/internal/conversation"
	"goodwish-chatbot/internal/httpserver"
	sessionRedis "goodwish-chatbot/internal/session/repository/redis"
	sessionSQL "goodwish-chatbot/internal/session/repository/sql"
	"goodwish-chatbot/pkg/log"
	"goodwish-chatbot/pkg/speech"
)

// newSessionTransport connects the configured history mirror. The memory
// backend returns a nil transport and keeps history in process only.
func newSessionTransport(ctx context.Context, cfg *config.Config, l log.Logger, checks map[string]httpserver.ReadinessCheck) (conversation.Transport, func(), error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		client, err := configRedis.Connect(ctx, configRedis.Config{
			Addr:     cfg.Session.Redis.Addr,
			Password: cfg.Session.Redis.Password,
			DB:       cfg.Session.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		l.Infof(ctx, "Session history mirrored to Redis at %s", cfg.Session.Redis.Addr)

		closeFn := func() {
			if err := configRedis.Disconnect(client); err != nil {
				l.Warnf(context.Background(), "Redis disconnect: %v", err)
			}
		}
		return sessionRedis.New(client, cfg.Conversation.SessionsKeyPrefix, l), closeFn, nil

	case config.SessionBackendDatabase:
		db, err := configDB.Connect(ctx, configDB.Config{
			Driver:       cfg.Session.Database.Driver,
			DSN:          cfg.Session.Database.DSN,
			MaxOpenConns: cfg.Session.Database.MaxOpenConns,
			MaxIdleConns: cfg.Session.Database.MaxIdleConns,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := sessionSQL.Migrate(db); err != nil {
			_ = configDB.Disconnect(db)
			return nil, nil, err
		}
		checks["database"] = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
		l.Infof(ctx, "Session history mirrored to %s", cfg.Session.Database.Driver)

		cleanupCtx, stopCleanup := context.WithCancel(context.Background())
		go runSQLCleanup(cleanupCtx, l, cfg.Conversation.SQLCleanupInterval, func(ctx context.Context) (int64, error) {
			return sessionSQL.DeleteExpired(ctx, db, time.Now())
		})

		closeFn := func() {
			stopCleanup()
			if err := configDB.Disconnect(db); err != nil {
				l.Warnf(context.Background(), "Database disconnect: %v", err)
			}
		}
		return sessionSQL.New(db, l), closeFn, nil

	default:
		l.Info(ctx, "Session history kept in memory only")
		return nil, func() {}, nil
	}
}

// runSQLCleanup removes expired session rows; redis expires keys on its own.
func runSQLCleanup(ctx context.Context, l log.Logger, interval time.Duration, deleteExpired func(context.Context) (int64, error)) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := deleteExpired(ctx)
			if err != nil {
				l.Warnf(ctx, "Session cleanup: %v", err)
				continue
			}
			if n > 0 {
				l.Debugf(ctx, "Session cleanup removed %d expired rows", n)
			}
		}
	}
}

// newTranscriber returns nil when speech is disabled or not configured; the
// audio endpoint then answers with a transcription error.
func newTranscriber(ctx context.Context, cfg config.SpeechConfig, l log.Logger) speech.Transcriber {
	if !cfg.Enabled {
		l.Info(ctx, "Speech-to-text disabled")
		return nil
	}

	opts := speech.Options{Language: cfg.Language, AlternativeLanguages: cfg.AlternativeLanguages}

	var (
		client *speech.Client
		err    error
	)
	switch {
	case cfg.CredentialsPath != "":
		client, err = speech.NewClientFromCredentialsFile(ctx, cfg.CredentialsPath, opts)
	case cfg.APIKey != "":
		client, err = speech.NewClientWithAPIKey(ctx, cfg.APIKey, opts)
	default:
		l.Warn(ctx, "Speech-to-text enabled but no credentials configured")
		return nil
	}
	if err != nil {
		l.Warnf(ctx, "Speech-to-text not available (optional): %v", err)
		return nil
	}

	l.Info(ctx, "Speech-to-text initialized")
	return client
}

package redis

import (
	"github.com/redis/go-redis/v9"

	"goodwish-chatbot/internal/session/repository"
	pkgLog "goodwish-chatbot/pkg/log"
)

const defaultKeyPrefix = "chat:session:"

type implRepository struct {
	client    redis.Cmdable
	keyPrefix string
	l         pkgLog.Logger
}

// New creates a Redis backed session repository. Keys are keyPrefix + session id.
func New(client redis.Cmdable, keyPrefix string, l pkgLog.Logger) repository.Repository {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &implRepository{
		client:    client,
		keyPrefix: keyPrefix,
		l:         l,
	}
}

package middleware

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"goodwish-chatbot/pkg/log"
)

const (
	DefaultCookieName    = "goodwish_session"
	DefaultSessionHeader = "X-Session-Token"
	DefaultSessionTTL    = 24 * time.Hour
	DefaultRateLimit     = 1.0
	DefaultRateBurst     = 5
	DefaultLimiterCache  = 10000
	DefaultLimiterIdle   = 10 * time.Minute
)

// SessionConfig controls how session tokens are issued and read.
type SessionConfig struct {
	Secret     string
	CookieName string
	HeaderName string
	TTL        time.Duration
	Secure     bool
	Domain     string
}

// RateLimitConfig is a token bucket per session.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
	MaxSessions       int
	IdleTTL           time.Duration
}

type Middleware struct {
	l        log.Logger
	session  SessionConfig
	rate     RateLimitConfig
	limiters *expirable.LRU[string, *rate.Limiter]
	now      func() time.Time
}

func New(l log.Logger, session SessionConfig, rl RateLimitConfig) Middleware {
	if session.CookieName == "" {
		session.CookieName = DefaultCookieName
	}
	if session.HeaderName == "" {
		session.HeaderName = DefaultSessionHeader
	}
	if session.TTL <= 0 {
		session.TTL = DefaultSessionTTL
	}
	if rl.RequestsPerSecond <= 0 {
		rl.RequestsPerSecond = DefaultRateLimit
	}
	if rl.Burst <= 0 {
		rl.Burst = DefaultRateBurst
	}
	if rl.MaxSessions <= 0 {
		rl.MaxSessions = DefaultLimiterCache
	}
	if rl.IdleTTL <= 0 {
		rl.IdleTTL = DefaultLimiterIdle
	}

	return Middleware{
		l:        l,
		session:  session,
		rate:     rl,
		limiters: expirable.NewLRU[string, *rate.Limiter](rl.MaxSessions, nil, rl.IdleTTL),
		now:      time.Now,
	}
}

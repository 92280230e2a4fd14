package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"goodwish-chatbot/pkg/response"
)

// RateLimit applies a token bucket per session, or per client IP when no
// session is set. Limiters of idle sessions expire from the cache.
func (m Middleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.rate.Enabled {
			c.Next()
			return
		}

		key := GetScope(c).SessionID
		if key == "" {
			key = "ip:" + c.ClientIP()
		}

		if !m.limiter(key).AllowN(m.now(), 1) {
			m.l.Warnf(c.Request.Context(), "middleware.RateLimit: limit exceeded for %s", key)
			response.TooManyRequests(c)
			return
		}
		c.Next()
	}
}

func (m Middleware) limiter(key string) *rate.Limiter {
	if lim, ok := m.limiters.Get(key); ok {
		return lim
	}
	lim := rate.NewLimiter(rate.Limit(m.rate.RequestsPerSecond), m.rate.Burst)
	// Racing first requests may each create a limiter; the last Add wins.
	m.limiters.Add(key, lim)
	return lim
}

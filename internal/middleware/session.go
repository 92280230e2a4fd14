package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"goodwish-chatbot/internal/model"
	"goodwish-chatbot/pkg/log"
	"goodwish-chatbot/pkg/response"
)

var errInvalidSessionID = errors.New("session id is not a ULID")

// Session resolves the caller's session from the session header or cookie.
// A missing or invalid token starts a new session; the new token is returned in
// both the cookie and the header.
func (m Middleware) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token := c.GetHeader(m.session.HeaderName)
		if token == "" {
			token, _ = c.Cookie(m.session.CookieName)
		}

		sessionID, err := m.parseToken(token)
		if err != nil {
			if token != "" {
				m.l.Debugf(ctx, "middleware.Session: discarding token: %v", err)
			}

			sessionID = ulid.Make().String()
			token, err = m.signToken(sessionID)
			if err != nil {
				m.l.Errorf(ctx, "middleware.Session: sign token: %v", err)
				response.InternalError(c, err)
				c.Abort()
				return
			}

			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(m.session.CookieName, token, int(m.session.TTL.Seconds()), "/", m.session.Domain, m.session.Secure, true)
			c.Header(m.session.HeaderName, token)
		}

		SetScope(c, model.Scope{SessionID: sessionID})
		c.Request = c.Request.WithContext(log.WithSessionID(ctx, sessionID))
		c.Next()
	}
}

func (m Middleware) signToken(sessionID string) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.session.TTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.session.Secret))
}

func (m Middleware) parseToken(token string) (string, error) {
	if token == "" {
		return "", jwt.ErrTokenMalformed
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(m.session.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", err
	}

	if _, err := ulid.ParseStrict(claims.Subject); err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidSessionID, err)
	}
	return claims.Subject, nil
}

package middleware

import (
	"github.com/gin-gonic/gin"

	"goodwish-chatbot/internal/model"
)

const scopeKey = "scope"

// SetScope stores the request scope on the gin context.
func SetScope(c *gin.Context, sc model.Scope) {
	c.Set(scopeKey, sc)
}

// GetScope returns the scope set by Session, or the zero Scope.
func GetScope(c *gin.Context) model.Scope {
	v, ok := c.Get(scopeKey)
	if !ok {
		return model.Scope{}
	}
	sc, _ := v.(model.Scope)
	return sc
}

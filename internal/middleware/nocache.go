package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoCache disables caching on every response. Short URLs may be
// reused after expiry, so intermediaries must never cache a redirect
// or an error for one.
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Next()
	}
}

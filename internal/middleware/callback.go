package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const callbackTokenHeader = "X-Oracle-Token"

// OracleCallback gates the fulfillment endpoint on a shared token the oracle
// presents with every callback. This is the origin capability check only;
// replay of a known request id is rejected separately against round state.
func OracleCallback(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			// No token configured: trust the network boundary (local dev).
			c.Next()
			return
		}
		presented := c.GetHeader(callbackTokenHeader)
		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid oracle token"})
			c.Abort()
			return
		}
		c.Next()
	}
}

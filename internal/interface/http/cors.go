package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// corsMiddleware injects the fixed CORS headers advertised by the
// registration endpoint: any origin, any request headers, and exactly the
// methods the endpoint dispatches on.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		headers := c.Writer.Header()
		headers.Set("Access-Control-Allow-Origin", "*")
		headers.Set("Access-Control-Allow-Methods", "PUT, HEAD, OPTIONS")
		headers.Set("Access-Control-Allow-Headers", "*")
		c.Next()
	}
}

// originGuard rejects requests from disallowed origins before method
// dispatch. An empty list means every origin passes, and requests without an
// Origin header (curl, server-to-server) always pass.
func originGuard(allowed []string) gin.HandlerFunc {
	if len(allowed) == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || originAllowed(origin, allowed) {
			c.Next()
			return
		}
		abortWithError(c, NewHTTPError(http.StatusForbidden, "forbidden_origin", "Forbidden origin", nil))
	}
}

func originAllowed(origin string, allowed []string) bool {
	for _, candidate := range allowed {
		if candidate == "*" || strings.EqualFold(candidate, origin) {
			return true
		}
	}
	return false
}

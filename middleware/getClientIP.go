package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// getClientIP resolves the caller's address for rate limiting. Proxy
// headers are consulted first; an entry that does not parse as an IP is
// skipped rather than trusted.
func getClientIP(c *gin.Context) string {
	// X-Forwarded-For lists one hop per entry, client first.
	for _, entry := range strings.Split(c.GetHeader("X-Forwarded-For"), ",") {
		candidate := strings.TrimSpace(entry)
		if net.ParseIP(candidate) != nil {
			return candidate
		}
	}

	if xri := strings.TrimSpace(c.GetHeader("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}

	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}
	return c.Request.RemoteAddr
}

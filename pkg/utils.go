package pkg

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// GetClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the peer address.
func GetClientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		ips := strings.Split(ip, ",")
		return strings.TrimSpace(ips[0])
	}

	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}

	ip := c.ClientIP()

	if ip == "" {
		return "unknown"
	}

	return ip
}

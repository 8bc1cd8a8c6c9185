package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const channelContextKey = "channel"

// requireAuth resolves the bearer access token to a channel name. Flows
// receive the channel as their identity; nothing downstream reads the
// Authorization header again.
func (s *Server) requireAuth(c *gin.Context) (string, bool) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" {
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
		return "", false
	}
	channel, err := s.tokens.VerifyAccess(token)
	if err != nil {
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid bearer token")
		return "", false
	}
	c.Set(channelContextKey, channel)
	return channel, true
}

func extractBearerToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

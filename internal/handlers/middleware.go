package handlers

import (
	"net/http"
	"strings"
	"time"

	"task_tracker/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	identityCtxKey    = "identity"
	requestIDCtxKey   = "requestId"
	requestIDHeader   = "X-Request-ID"
	bearerScheme      = "Bearer"
	authorizationName = "Authorization"
)

// identityMiddleware gates protected routes: it resolves the bearer token into
// the caller's identity for the duration of the request.
func (h *Handler) identityMiddleware(c *gin.Context) {
	header := c.GetHeader(authorizationName)
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerScheme {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	identity, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// store in Gin context
	c.Set(identityCtxKey, identity)
	c.Next()
}

// identityFromContext retrieves the identity set by identityMiddleware.
func identityFromContext(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityCtxKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}

// requestIDMiddleware tags each request with an id, honoring one supplied by
// the client, and echoes it in the response.
func (h *Handler) requestIDMiddleware(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(requestIDCtxKey, id)
	c.Header(requestIDHeader, id)
	c.Next()
}

// accessLogMiddleware logs one structured line per request.
func (h *Handler) accessLogMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"duration", time.Since(start),
		"request_id", c.GetString(requestIDCtxKey),
	)
}

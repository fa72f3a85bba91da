package handlers

import (
	"net/http"
	"strings"
	"time"

	"audiovault/internal/policy"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxSubject   = "subject"
	ctxRequestID = "requestId"

	headerRequestID = "X-Request-ID"
)

// subjectMiddleware resolves the bearer token to a subject before any handler runs.
func (h *Handler) subjectMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	sub, err := h.services.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
	if err != nil {
		h.fail(c, "auth_token_rejected", err)
		return
	}

	c.Set(ctxSubject, sub)
	c.Next()
}

// subject returns the caller resolved by subjectMiddleware.
func subject(c *gin.Context) policy.Subject {
	v, _ := c.Get(ctxSubject)
	sub, _ := v.(policy.Subject)
	return sub
}

// requestID reuses a sane client-supplied X-Request-ID or mints one.
func (h *Handler) requestID(c *gin.Context) {
	id := c.GetHeader(headerRequestID)
	if id == "" || len(id) > 64 {
		id = uuid.NewString()
	}
	c.Set(ctxRequestID, id)
	c.Header(headerRequestID, id)
	c.Next()
}

func (h *Handler) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	h.log.Infow("http_request",
		"request_id", c.GetString(ctxRequestID),
		"method", c.Request.Method,
		"route", route,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
		"client_ip", c.ClientIP(),
	)
}

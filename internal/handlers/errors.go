package handlers

import (
	"net/http"

	"audiovault"

	"github.com/gin-gonic/gin"
)

func statusFor(kind audiovault.Kind) int {
	switch kind {
	case audiovault.KindUnauthenticated:
		return http.StatusUnauthorized
	case audiovault.KindUnauthorized:
		return http.StatusForbidden
	case audiovault.KindNotFound:
		return http.StatusNotFound
	case audiovault.KindValidation:
		return http.StatusBadRequest
	case audiovault.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as {"error": msg} with the status for its kind.
// Internal causes are logged under event and never sent to the client.
func (h *Handler) fail(c *gin.Context, event string, err error) {
	kind := audiovault.KindOf(err)
	if kind == audiovault.KindInternal {
		h.log.Errorw(event, "request_id", c.GetString(ctxRequestID), "err", err)
	} else {
		h.log.Debugw(event, "request_id", c.GetString(ctxRequestID), "kind", kind.String(), "err", err)
	}
	c.AbortWithStatusJSON(statusFor(kind), gin.H{"error": audiovault.PublicMessage(err)})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.log.Infow("bad_request_body", "route", c.FullPath(), "err", err)
		badRequest(c, "invalid request body")
		return false
	}
	return true
}

// @Summary  Exchange credentials for a bearer token
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body  body      loginRequest  true  "Credentials"
// @Success  200   {object}  tokenResponse
// @Failure  400   {object}  map[string]string
// @Failure  401   {object}  map[string]string
// @Failure  429   {object}  map[string]string
// @Router   /login [post]
func (h *Handler) login(c *gin.Context) {
	var input loginRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.log.Infow("auth_login_failed", "username", input.Username, "client_ip", c.ClientIP())
		h.fail(c, "auth_login_failed", err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: token})
}

package handlers

import (
	"net/http"

	"audiovault/internal/service"

	"github.com/gin-gonic/gin"
)

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	IsAdmin  bool   `json:"is_admin"`
}

// @Summary  Create a user (admin only)
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    body  body      createUserRequest  true  "User"
// @Success  200   {object}  models.User
// @Failure  400   {object}  map[string]string
// @Failure  403   {object}  map[string]string
// @Router   /users [post]
// @Security BearerAuth
func (h *Handler) createUser(c *gin.Context) {
	var input createUserRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	u, err := h.services.Users.Create(c.Request.Context(), subject(c), service.CreateUserInput{
		Username: input.Username,
		Password: input.Password,
		IsAdmin:  input.IsAdmin,
	})
	if err != nil {
		h.fail(c, "user_create_failed", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary  List users (admin only)
// @Tags     users
// @Produce  json
// @Success  200  {array}   models.User
// @Failure  403  {object}  map[string]string
// @Router   /users [get]
// @Security BearerAuth
func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.services.Users.List(c.Request.Context(), subject(c))
	if err != nil {
		h.fail(c, "user_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// @Summary      Delete a user and everything they own (admin only)
// @Description  Removes the user's audio, playlists, items in their playlists and items elsewhere that reference their audio, in one transaction. Admins cannot delete themselves.
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  models.DeletionSummary
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /users/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteUser(c *gin.Context) {
	sum, err := h.services.Users.Delete(c.Request.Context(), subject(c), c.Param("id"))
	if err != nil {
		h.fail(c, "user_delete_failed", err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

package handlers

import (
	"net/http"

	"audiovault/internal/service"

	"github.com/gin-gonic/gin"
)

type createPlaylistRequest struct {
	Name string `json:"name" binding:"required"`
}

type addItemRequest struct {
	AudioID  string `json:"audio_id" binding:"required"`
	Position *int   `json:"position"`
}

// @Summary  Create a playlist owned by the caller
// @Tags     playlists
// @Accept   json
// @Produce  json
// @Param    body  body      createPlaylistRequest  true  "Playlist"
// @Success  200   {object}  models.Playlist
// @Failure  400   {object}  map[string]string
// @Router   /playlists [post]
// @Security BearerAuth
func (h *Handler) createPlaylist(c *gin.Context) {
	var input createPlaylistRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	p, err := h.services.Playlists.Create(c.Request.Context(), subject(c), input.Name)
	if err != nil {
		h.fail(c, "playlist_create_failed", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      List playlists
// @Description  Returns the caller's playlists; admins see every playlist.
// @Tags         playlists
// @Produce      json
// @Success      200  {array}  models.Playlist
// @Router       /playlists [get]
// @Security     BearerAuth
func (h *Handler) listPlaylists(c *gin.Context) {
	list, err := h.services.Playlists.List(c.Request.Context(), subject(c))
	if err != nil {
		h.fail(c, "playlist_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary  Get a playlist with its items ordered by position
// @Tags     playlists
// @Produce  json
// @Param    id   path      string  true  "Playlist id"
// @Success  200  {object}  models.PlaylistWithItems
// @Failure  403  {object}  map[string]string
// @Failure  404  {object}  map[string]string
// @Router   /playlists/{id} [get]
// @Security BearerAuth
func (h *Handler) getPlaylist(c *gin.Context) {
	p, err := h.services.Playlists.Get(c.Request.Context(), subject(c), c.Param("id"))
	if err != nil {
		h.fail(c, "playlist_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary  Delete a playlist and its items
// @Tags     playlists
// @Produce  json
// @Param    id   path      string  true  "Playlist id"
// @Success  200  {object}  models.DeletionSummary
// @Failure  403  {object}  map[string]string
// @Failure  404  {object}  map[string]string
// @Router   /playlists/{id} [delete]
// @Security BearerAuth
func (h *Handler) deletePlaylist(c *gin.Context) {
	sum, err := h.services.Playlists.Delete(c.Request.Context(), subject(c), c.Param("id"))
	if err != nil {
		h.fail(c, "playlist_delete_failed", err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// @Summary      Add an audio file to a playlist
// @Description  Owner only. Without a position the item goes after the current last one.
// @Tags         playlists
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Playlist id"
// @Param        body  body      addItemRequest  true  "Item"
// @Success      200   {object}  models.PlaylistItem
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /playlists/{id}/items [post]
// @Security     BearerAuth
func (h *Handler) addPlaylistItem(c *gin.Context) {
	var input addItemRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	item, err := h.services.Playlists.AddItem(c.Request.Context(), subject(c), c.Param("id"), service.AddItemInput{
		AudioID:  input.AudioID,
		Position: input.Position,
	})
	if err != nil {
		h.fail(c, "playlist_item_add_failed", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// @Summary  Remove an item from a playlist
// @Tags     playlists
// @Param    id       path  string  true  "Playlist id"
// @Param    item_id  path  string  true  "Item id"
// @Success  204
// @Failure  403  {object}  map[string]string
// @Failure  404  {object}  map[string]string
// @Router   /playlists/{id}/items/{item_id} [delete]
// @Security BearerAuth
func (h *Handler) removePlaylistItem(c *gin.Context) {
	err := h.services.Playlists.RemoveItem(c.Request.Context(), subject(c), c.Param("id"), c.Param("item_id"))
	if err != nil {
		h.fail(c, "playlist_item_remove_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

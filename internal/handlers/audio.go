package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"audiovault/internal/service"

	"github.com/gin-gonic/gin"
)

const formFileField = "file"

// @Summary      Upload an audio file
// @Description  Multipart upload; the part's Content-Type must be one of audio/mpeg, audio/wav, audio/flac, audio/aac, audio/ogg.
// @Tags         audio
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Audio file"
// @Success      200   {object}  models.AudioFile
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      413   {object}  map[string]string
// @Router       /audio [post]
// @Security     BearerAuth
func (h *Handler) uploadAudio(c *gin.Context) {
	if h.opts.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes)
	}

	fh, err := c.FormFile(formFileField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload exceeds size limit"})
			return
		}
		badRequest(c, "no file uploaded")
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.log.Errorw("audio_upload_open_failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	defer f.Close()

	a, err := h.services.Audio.Upload(c.Request.Context(), subject(c), service.UploadInput{
		Filename:     fh.Filename,
		DeclaredType: fh.Header.Get("Content-Type"),
		Body:         f,
	})
	if err != nil {
		h.fail(c, "audio_upload_failed", err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// @Summary  Stream an audio file
// @Tags     audio
// @Produce  octet-stream
// @Param    id   path  string  true  "Audio id"
// @Success  200
// @Failure  401  {object}  map[string]string
// @Failure  403  {object}  map[string]string
// @Failure  404  {object}  map[string]string
// @Router   /audio/{id} [get]
// @Security BearerAuth
func (h *Handler) streamAudio(c *gin.Context) {
	a, rc, size, err := h.services.Audio.Open(c.Request.Context(), subject(c), c.Param("id"))
	if err != nil {
		h.fail(c, "audio_stream_failed", err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, size, a.MimeType, rc, map[string]string{
		"Content-Disposition": "inline; filename=" + strconv.Quote(a.Filename),
	})
}

// @Summary  Delete an audio file
// @Description  Removes the file's row and every playlist item referencing it, then its stored bytes.
// @Tags     audio
// @Produce  json
// @Param    id   path      string  true  "Audio id"
// @Success  200  {object}  models.DeletionSummary
// @Failure  403  {object}  map[string]string
// @Failure  404  {object}  map[string]string
// @Router   /audio/{id} [delete]
// @Security BearerAuth
func (h *Handler) deleteAudio(c *gin.Context) {
	sum, err := h.services.Audio.Delete(c.Request.Context(), subject(c), c.Param("id"))
	if err != nil {
		h.fail(c, "audio_delete_failed", err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// @Summary  List a user's audio files, newest first
// @Tags     audio
// @Produce  json
// @Param    id   path      string  true  "User id"
// @Success  200  {array}   models.AudioFile
// @Failure  403  {object}  map[string]string
// @Router   /users/{id}/audio [get]
// @Security BearerAuth
func (h *Handler) listUserAudio(c *gin.Context) {
	files, err := h.services.Audio.ListByUser(c.Request.Context(), subject(c), c.Param("id"))
	if err != nil {
		h.fail(c, "audio_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, files)
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Manoj5621/Fashion-virtual/internal/media"
	"github.com/Manoj5621/Fashion-virtual/internal/storage"
)

// Download serves a stored file as an attachment, keyed by its
// uploads-root-relative path.
func (h HandlerSet) Download(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filepath"), "/")

	data, err := h.store.ReadFile(c.Request.Context(), name)
	if err != nil {
		h.respondFileError(c, name, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(name)))
	c.Data(http.StatusOK, "application/octet-stream", data)
}

// ServeUpload serves a stored file inline; gallery URLs point here.
func (h HandlerSet) ServeUpload(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filepath"), "/")

	data, err := h.store.ReadFile(c.Request.Context(), name)
	if err != nil {
		h.respondFileError(c, name, err)
		return
	}

	c.Data(http.StatusOK, media.ExtensionMIME(name), data)
}

func (h HandlerSet) respondFileError(c *gin.Context, name string, err error) {
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidPath) {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	h.log.Error().Err(err).Str("path", name).Msg("file read failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
}

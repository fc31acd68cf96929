package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Manoj5621/Fashion-virtual/internal/service"
)

// Gallery returns the try-on records visible to the requesting user.
func (h HandlerSet) Gallery(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrNotAuthenticated.Error()})
		return
	}

	entries, err := h.gallery.Gallery(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		h.log.Error().Err(err).Str("username", username).Msg("gallery aggregation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load gallery"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"gallery": entries})
}

package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Manoj5621/Fashion-virtual/internal/media"
	"github.com/Manoj5621/Fashion-virtual/internal/provider"
	"github.com/Manoj5621/Fashion-virtual/internal/repository"
	"github.com/Manoj5621/Fashion-virtual/internal/service"
)

// TryOn accepts the person/garment multipart upload, runs the generation
// pipeline and, when a username accompanies the request, persists the result.
func (h HandlerSet) TryOn(c *gin.Context) {
	person, err := readUpload(c, "person_image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cloth, err := readUpload(c, "cloth_image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.TryOnInput{
		Person:       person,
		Cloth:        cloth,
		Instructions: c.PostForm("instructions"),
		ModelType:    c.PostForm("model_type"),
		Gender:       c.PostForm("gender"),
		GarmentType:  c.PostForm("garment_type"),
		Style:        c.PostForm("style"),
		Username:     c.PostForm("username"),
	}

	result, err := h.tryon.TryOn(c.Request.Context(), input)
	if err != nil {
		h.respondTryOnError(c, err)
		return
	}

	resp := gin.H{
		"image": result.ImageDataURI,
		"text":  result.Text,
	}
	if result.Record != nil {
		resp["record_id"] = result.Record.ID
	}
	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) respondTryOnError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(validationErr.Status, gin.H{"error": validationErr.Message})
		return
	}

	if errors.Is(err, repository.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	var providerErr *provider.Error
	if errors.As(err, &providerErr) {
		// Category message only; the raw provider error stays in the logs.
		c.JSON(http.StatusInternalServerError, gin.H{"error": providerErr.Message})
		return
	}

	h.log.Error().Err(err).Msg("try-on save failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save try-on result"})
}

func readUpload(c *gin.Context, field string) (service.ImageUpload, error) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		return service.ImageUpload{}, fmt.Errorf("%s is required", field)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return service.ImageUpload{}, fmt.Errorf("read %s: %w", field, err)
	}

	return service.ImageUpload{
		ContentType: media.ContentType(header),
		Data:        data,
	}, nil
}

package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feastly/backend/internal/middleware"
	"github.com/feastly/backend/internal/service"
)

// maxImageBytes caps uploads at 5 MiB.
const maxImageBytes = 5 << 20

type ImageHandler struct {
	imageService service.IImageService
	validator    middleware.TokenValidator
}

func NewImageHandler(imageService service.IImageService, validator middleware.TokenValidator) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		validator:    validator,
	}
}

func (h *ImageHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/images", middleware.AuthMiddleware(h.validator), h.UploadImage)
}

// UploadImage accepts a multipart "image" field, stores it and returns
// the public URL to embed in a recipe.
func (h *ImageHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image file"})
		return
	}
	if fileHeader.Size > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds 5MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read image file"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read image file"})
		return
	}
	if len(data) > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds 5MB limit"})
		return
	}

	url, err := h.imageService.Upload(c.Request.Context(), data, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"image_url": url})
}

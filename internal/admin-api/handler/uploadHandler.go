package handler

import (
	"errors"
	"net/http"

	"ebookstore/internal/storage"

	"github.com/gin-gonic/gin"
)

// allowed upload prefixes, one directory per book image slot
var uploadPrefixes = map[string]bool{
	"covers":      true,
	"front-pages": true,
	"back-pages":  true,
}

type UploadHandler struct {
	uploader *storage.Uploader
}

func NewUploadHandler(uploader *storage.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/:kind", h.Upload)
}

// Upload accepts a multipart image under the "file" field and stores it in
// the directory named by :kind.
func (h *UploadHandler) Upload(c *gin.Context) {
	kind := c.Param("kind")
	if !uploadPrefixes[kind] {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown upload kind"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}
	defer f.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	result, err := h.uploader.Upload(c.Request.Context(), kind, fileHeader.Filename, contentType, fileHeader.Size, f)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotImage):
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		case errors.Is(err, storage.ErrTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		case errors.Is(err, storage.ErrUploadTimeout):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

package api

import (
	"net/http"
	"syncfit/connect-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ImageHandler serves the exercise image gallery.
type ImageHandler struct {
	galleryService service.GalleryService
}

func NewImageHandler(galleryService service.GalleryService) *ImageHandler {
	return &ImageHandler{galleryService: galleryService}
}

type CreateImageRequest struct {
	Title       string `json:"title"`
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

func (h *ImageHandler) ListImages(c *gin.Context) {
	images, err := h.galleryService.ListImages(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, images)
}

// CreateImage godoc
// @Summary Register a gallery image and get an upload URL
// @Description The client PUTs the file to uploadUrl before it expires.
// @Tags Images
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param image body CreateImageRequest true "Image metadata"
// @Success 200 {object} gin.H "acknowledged, insertedId, uploadUrl"
// @Failure 503 {object} gin.H "Storage not configured"
// @Router /images [post]
func (h *ImageHandler) CreateImage(c *gin.Context) {
	var req CreateImageRequest
	if !bindJSON(c, &req) {
		return
	}
	identity, err := identityFromContext(c)
	if err != nil {
		respondError(c, err)
		return
	}

	upload, err := h.galleryService.CreateUpload(c.Request.Context(), req.Title, req.FileName, req.ContentType, identity.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"acknowledged": true,
		"insertedId":   upload.Image.ID,
		"uploadUrl":    upload.UploadURL,
	})
}

func (h *ImageHandler) DeleteImage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.galleryService.DeleteImage(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "deletedCount": 1})
}

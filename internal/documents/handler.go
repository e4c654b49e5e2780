package documents

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"healthdocs-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.upload)
	rg.GET("/documents", h.list)
	rg.DELETE("/documents/:id", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	userID, err := parseUserID(c.PostForm("userId"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "User ID is required", nil)
		return
	}
	c.Set("userId", userID)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "No file provided", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "Unable to read file", err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "Unable to read file", err.Error())
		return
	}

	doc, err := h.Svc.Upload(c.Request.Context(), UploadRequest{
		UserID:       userID,
		Filename:     fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Data:         data,
		DocumentType: c.PostForm("documentType"),
		Tags:         ParseTags(c.PostForm("tags")),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "Invalid upload request", err.Error())
		case errors.Is(err, ErrUserNotFound):
			respond.Error(c, http.StatusNotFound, "User not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "File upload failed", err.Error())
		}
		return
	}
	c.Set("documentId", doc.ID)

	respond.JSON(c, http.StatusCreated, gin.H{
		"success":  true,
		"document": toResponse(doc),
	})
}

func (h *Handler) list(c *gin.Context) {
	userID, err := parseUserID(c.Query("userId"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "User ID is required", nil)
		return
	}
	c.Set("userId", userID)

	views, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "User ID is required", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Failed to list documents", err.Error())
		return
	}

	respond.OK(c, gin.H{
		"success":   true,
		"documents": views,
	})
}

func (h *Handler) remove(c *gin.Context) {
	userID, err := parseUserID(c.Query("userId"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "User ID is required", nil)
		return
	}
	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || documentID <= 0 {
		respond.Error(c, http.StatusBadRequest, "Invalid document id", nil)
		return
	}
	c.Set("userId", userID)
	c.Set("documentId", documentID)

	if err := h.Svc.Delete(c.Request.Context(), userID, documentID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "Document not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "User ID is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "Failed to delete document", err.Error())
		}
		return
	}

	respond.OK(c, gin.H{"success": true})
}

func parseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidInput
	}
	return id, nil
}

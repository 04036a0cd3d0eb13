package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"couples-gallery/internal/config"
	"couples-gallery/internal/middleware"
	"couples-gallery/internal/services"
	"couples-gallery/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// contentTypes maps stored extensions to the type served for originals.
// Anything unknown falls back to octet-stream.
var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
}

type FileHandler struct {
	Library *services.LibraryService
	Archive *services.ArchiveService
	Stores  *storage.Stores
	Config  config.Config
	Log     *zap.Logger
}

func (h FileHandler) Register(r *gin.Engine) {
	auth := middleware.AdminAuth(h.Config.JWTSecret)

	g := r.Group("/api/files")
	g.POST("/upload", auth, h.Upload)
	g.POST("/download-zip", auth, h.DownloadZip)
	g.GET("", auth, h.List)
	g.DELETE("/:fileId", auth, h.Delete)

	// Derived and original media are fetched by <img>/<video> tags on the
	// share pages, so these stay unauthenticated. File IDs are random
	// UUIDs and act as the capability.
	g.GET("/:fileId/thumbnail", h.Thumbnail)
	g.GET("/:fileId/preview", h.Preview)
	g.GET("/:fileId/download", h.Download)
	g.GET("/:fileId/stream", h.Stream)
}

func (h FileHandler) Upload(c *gin.Context) {
	folderID, err := parseFormUUID(c, "folder_id")
	if err != nil {
		respondError(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	src, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer src.Close()

	view, err := h.Library.Upload(folderID, header.Filename, src)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h FileHandler) List(c *gin.Context) {
	folderID, err := parseUUIDValue(c.Query("folder_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	files, err := h.Library.ListFolder(folderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, files)
}

func (h FileHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "fileId")
	if !ok {
		return
	}

	if err := h.Library.DeleteFile(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "File deleted"})
}

type downloadZipRequest struct {
	FileIDs []uuid.UUID `json:"file_ids" binding:"required"`
}

// DownloadZip bundles an explicit selection of files into one archive.
func (h FileHandler) DownloadZip(c *gin.Context) {
	var req downloadZipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", `attachment; filename="selected_files.zip"`)
	if err := h.Archive.WriteFilesZip(c.Writer, req.FileIDs); err != nil {
		if !c.Writer.Written() {
			respondError(c, err)
			return
		}
		h.Log.Error("selection zip failed", zap.Error(err))
	}
}

func (h FileHandler) Thumbnail(c *gin.Context) {
	h.serveDerived(c, h.Stores.Thumbnails)
}

func (h FileHandler) Preview(c *gin.Context) {
	h.serveDerived(c, h.Stores.Previews)
}

func (h FileHandler) serveDerived(c *gin.Context, store *storage.Store) {
	id, ok := parseUUIDParam(c, "fileId")
	if !ok {
		return
	}

	key := services.DerivedKey(id)
	if !store.Exists(key) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.File(store.Path(key))
}

func (h FileHandler) Download(c *gin.Context) {
	id, ok := parseUUIDParam(c, "fileId")
	if !ok {
		return
	}

	file, err := h.Library.GetFile(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Header("Content-Type", typeFor(file.StoredName))
	c.File(h.Stores.Originals.Path(file.StoredName))
}

// Stream serves the original inline. http.ServeFile underneath c.File
// handles Range requests, which video players depend on.
func (h FileHandler) Stream(c *gin.Context) {
	id, ok := parseUUIDParam(c, "fileId")
	if !ok {
		return
	}

	file, err := h.Library.GetFile(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", typeFor(file.StoredName))
	c.File(h.Stores.Originals.Path(file.StoredName))
}

func typeFor(storedName string) string {
	ext := strings.ToLower(filepath.Ext(storedName))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

package handlers

import (
	"fmt"
	"net/http"

	"couples-gallery/internal/models"
	"couples-gallery/internal/repositories"
	"couples-gallery/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GalleryHandler is the guest-facing surface. Every route is keyed by the
// share token in the path; a valid token is the whole credential. All
// folder references are checked against the share's subtree before use.
type GalleryHandler struct {
	Shares   *repositories.ShareRepository
	Folders  *repositories.FolderRepository
	Activity *repositories.ActivityRepository
	Catalog  *services.CatalogService
	Library  *services.LibraryService
	Access   *services.AccessService
	Archive  *services.ArchiveService
	Log      *zap.Logger
}

func (h GalleryHandler) Register(r *gin.Engine) {
	g := r.Group("/api/gallery/:token")
	g.GET("", h.Meta)
	g.GET("/folders", h.ListFolders)
	g.GET("/files", h.ListFiles)
	g.GET("/path", h.Path)
	g.GET("/download", h.Download)
	g.POST("/upload", h.Upload)
	g.POST("/favourites", h.SaveFavourites)
}

func (h GalleryHandler) resolveShare(c *gin.Context) (*models.Share, bool) {
	share, err := h.Shares.GetByToken(c.Param("token"))
	if err != nil {
		respondError(c, services.ErrNotFound)
		return nil, false
	}
	return share, true
}

// scopedFolder resolves the folder_id query against the share: absent means
// the share root, anything else must belong to the shared subtree.
func (h GalleryHandler) scopedFolder(c *gin.Context, share *models.Share) (uuid.UUID, bool) {
	raw := c.Query("folder_id")
	if raw == "" {
		return share.FolderID, true
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(c, services.ErrInvalid)
		return uuid.Nil, false
	}
	if err := h.Access.RequireInSubtree(id, share.FolderID); err != nil {
		respondError(c, err)
		return uuid.Nil, false
	}
	return id, true
}

func (h GalleryHandler) Meta(c *gin.Context) {
	share, ok := h.resolveShare(c)
	if !ok {
		return
	}

	folder, err := h.Folders.GetByID(share.FolderID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logActivity(c, "gallery_view", share, folder.Name, "", nil)
	c.JSON(http.StatusOK, gin.H{
		"folder_id":   share.FolderID,
		"folder_name": folder.Name,
		"permission":  share.Permission,
		"can_edit":    services.AllowsEdit(share.Permission),
	})
}

func (h GalleryHandler) ListFolders(c *gin.Context) {
	share, ok := h.resolveShare(c)
	if !ok {
		return
	}
	parent, ok := h.scopedFolder(c, share)
	if !ok {
		return
	}

	folders, err := h.Catalog.ListFolders(&parent)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, folders)
}

func (h GalleryHandler) ListFiles(c *gin.Context) {
	share, ok := h.resolveShare(c)
	if !ok {
		return
	}
	folderID, ok := h.scopedFolder(c, share)
	if !ok {
		return
	}

	files, err := h.Library.ListFolder(folderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, files)
}

// Path returns the breadcrumb from the share root down to the folder. The
// walk above the share root is cut off so guests never see where in the
// catalog their gallery lives.
func (h GalleryHandler) Path(c *gin.Context) {
	share, ok := h.resolveShare(c)
	if !ok {
		return
	}
	folderID, ok := h.scopedFolder(c, share)
	if !ok {
		return
	}

	full, err := h.Catalog.FolderPath(folderID)
	if err != nil {
		respondError(c, err)
		return
	}

	scoped := full
	for i, entry := range full {
		if entry.ID == share.FolderID {
			scoped = full[i:]
			break
		}
	}
	c.JSON(http.StatusOK, scoped)
}

func (h GalleryHandler) Download(c *gin.Context) {
	share, ok := h.resolveShare(c)
	if !ok {
		return
	}
	folderID, ok := h.scopedFolder(c, share)
	if !ok {
		return
	}

	folder, err := h.Folders.GetByID(folderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", folder.Name+".zip"))
	if _, err := h.Archive.WriteFolderZip(c.Writer, folderID); err != nil {
		if !c.Writer.Written() {
			respondError(c, err)
			return
		}
		h.Log.Error("guest zip download failed",
			zap.String("token", share.Token), zap.Error(err))
		return
	}
	h.logActivity(c, "folder_download", share, folder.Name, "", nil)
}

func (h GalleryHandler) Upload(c *gin.Context) {
	share, ok := h.resolveShare(c)
	if !ok {
		return
	}
	if !services.AllowsEdit(share.Permission) {
		respondError(c, services.ErrForbidden)
		return
	}

	folderID := share.FolderID
	if raw := c.PostForm("folder_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, services.ErrInvalid)
			return
		}
		if err := h.Access.RequireInSubtree(id, share.FolderID); err != nil {
			respondError(c, err)
			return
		}
		folderID = id
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

	h.logActivity(c, "guest_upload", share, "", view.Name, map[string]any{
		"size":      view.Size,
		"file_type": view.FileType,
	})
	c.JSON(http.StatusOK, view)
}

type favouritesRequest struct {
	FileIDs []uuid.UUID `json:"file_ids" binding:"required"`
}

func (h GalleryHandler) SaveFavourites(c *gin.Context) {
	share, ok := h.resolveShare(c)
	if !ok {
		return
	}

	var req favouritesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	saved, err := h.Library.SaveFavourites(share, req.FileIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logActivity(c, "favourites_saved", share, "", "", map[string]any{
		"requested": len(req.FileIDs),
		"saved":     len(saved),
	})
	c.JSON(http.StatusOK, gin.H{"saved": saved, "count": len(saved)})
}

func (h GalleryHandler) logActivity(c *gin.Context, action string, share *models.Share, folderName, fileName string, details map[string]any) {
	if err := h.Activity.Log(action, share.Token, folderName, fileName, c.ClientIP(), details); err != nil {
		h.Log.Warn("activity log write failed", zap.String("action", action), zap.Error(err))
	}
}

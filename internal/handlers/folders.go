package handlers

import (
	"fmt"
	"net/http"

	"couples-gallery/internal/config"
	"couples-gallery/internal/middleware"
	"couples-gallery/internal/services"
	jwtpkg "couples-gallery/pkg/jwt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FolderHandler is the admin surface over the folder tree: CRUD, paths,
// duplication and zip downloads.
type FolderHandler struct {
	Catalog *services.CatalogService
	Archive *services.ArchiveService
	Config  config.Config
	Log     *zap.Logger
}

func (h FolderHandler) Register(r *gin.Engine) {
	auth := middleware.AdminAuth(h.Config.JWTSecret)

	g := r.Group("/api/folders")
	g.POST("", auth, h.Create)
	g.GET("", auth, h.List)
	g.GET("/all", auth, h.ListAll)
	g.GET("/:folderId", auth, h.Get)
	g.PUT("/:folderId", auth, h.Rename)
	g.DELETE("/:folderId", auth, h.Delete)
	g.GET("/:folderId/path", auth, h.Path)
	g.POST("/:folderId/duplicate", auth, h.Duplicate)

	// Zip downloads are driven by a browser navigation, which cannot set
	// an Authorization header, so the access token may ride in the query.
	g.GET("/:folderId/download", h.Download)
}

type createFolderRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID string `json:"parent_id"`
}

func (h FolderHandler) Create(c *gin.Context) {
	var req createFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	parentID, err := parseOptionalParent(req.ParentID)
	if err != nil {
		respondError(c, err)
		return
	}

	folder, err := h.Catalog.CreateFolder(req.Name, parentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, folder)
}

func (h FolderHandler) List(c *gin.Context) {
	parentID, err := parseOptionalParent(c.Query("parent_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	folders, err := h.Catalog.ListFolders(parentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, folders)
}

func (h FolderHandler) ListAll(c *gin.Context) {
	folders, err := h.Catalog.AllFolderPaths()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, folders)
}

func (h FolderHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "folderId")
	if !ok {
		return
	}

	folder, err := h.Catalog.GetFolder(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, folder)
}

type renameFolderRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h FolderHandler) Rename(c *gin.Context) {
	id, ok := parseUUIDParam(c, "folderId")
	if !ok {
		return
	}

	var req renameFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	folder, err := h.Catalog.RenameFolder(id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, folder)
}

func (h FolderHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "folderId")
	if !ok {
		return
	}

	if err := h.Catalog.DeleteFolderTree(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Folder deleted"})
}

func (h FolderHandler) Path(c *gin.Context) {
	id, ok := parseUUIDParam(c, "folderId")
	if !ok {
		return
	}

	path, err := h.Catalog.FolderPath(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, path)
}

type duplicateFolderRequest struct {
	TargetParentID string `json:"target_parent_id"`
}

func (h FolderHandler) Duplicate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "folderId")
	if !ok {
		return
	}

	var req duplicateFolderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
	}

	targetParent, err := parseOptionalParent(req.TargetParentID)
	if err != nil {
		respondError(c, err)
		return
	}

	folder, err := h.Catalog.DuplicateFolder(id, targetParent)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, folder)
}

func (h FolderHandler) Download(c *gin.Context) {
	if !h.authorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	id, ok := parseUUIDParam(c, "folderId")
	if !ok {
		return
	}

	name, err := h.Catalog.GetFolder(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name.Name+".zip"))
	if _, err := h.Archive.WriteFolderZip(c.Writer, id); err != nil {
		if !c.Writer.Written() {
			respondError(c, err)
			return
		}
		// The stream is already underway; all we can do is log.
		h.Log.Error("zip download failed", zap.String("folder_id", id.String()), zap.Error(err))
	}
}

func (h FolderHandler) authorized(c *gin.Context) bool {
	secret := []byte(h.Config.JWTSecret)
	if token := c.Query("token"); token != "" {
		_, err := jwtpkg.ParseToken(token, secret)
		return err == nil
	}

	auth := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) {
		_, err := jwtpkg.ParseToken(auth[len(prefix):], secret)
		return err == nil
	}
	return false
}

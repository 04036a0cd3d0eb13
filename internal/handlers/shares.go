package handlers

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"image/png"
	"net/http"

	"couples-gallery/internal/config"
	"couples-gallery/internal/middleware"
	"couples-gallery/internal/models"
	"couples-gallery/internal/repositories"
	"couples-gallery/internal/services"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"
)

type ShareHandler struct {
	Shares  *repositories.ShareRepository
	Folders *repositories.FolderRepository
	Config  config.Config
	Log     *zap.Logger
}

func (h ShareHandler) Register(r *gin.Engine) {
	auth := middleware.AdminAuth(h.Config.JWTSecret)

	g := r.Group("/api/shares", auth)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.PUT("/:shareId", h.UpdatePermission)
	g.DELETE("/:shareId", h.Delete)
	g.GET("/:shareId/qr", h.QRCode)
}

// shareView is what admins see: the share row plus the resolved folder
// name and the full guest URL.
type shareView struct {
	models.Share
	FolderName string `json:"folder_name"`
	ShareURL   string `json:"share_url"`
}

func (h ShareHandler) view(s models.Share) shareView {
	name := ""
	if folder, err := h.Folders.GetByID(s.FolderID); err == nil {
		name = folder.Name
	}
	return shareView{
		Share:      s,
		FolderName: name,
		ShareURL:   h.Config.ShareDomain + "/" + s.Token,
	}
}

type createShareRequest struct {
	FolderID   string `json:"folder_id"`
	Token      string `json:"token"`
	Permission string `json:"permission"`
}

func (r createShareRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FolderID, validation.Required),
		validation.Field(&r.Token, validation.Length(0, 64)),
		validation.Field(&r.Permission, validation.Required,
			validation.In(models.PermissionRead, models.PermissionEdit, models.PermissionFull)),
	)
}

func (h ShareHandler) Create(c *gin.Context) {
	var req createShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	folderID, err := parseUUIDValue(req.FolderID)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := h.Folders.GetByID(folderID); err != nil {
		respondError(c, services.ErrNotFound)
		return
	}

	token := req.Token
	if token == "" {
		token, err = generateShareToken()
		if err != nil {
			respondError(c, err)
			return
		}
	}

	exists, err := h.Shares.TokenExists(token)
	if err != nil {
		respondError(c, err)
		return
	}
	if exists {
		respondError(c, services.ErrConflict)
		return
	}

	share := models.Share{FolderID: folderID, Token: token, Permission: req.Permission}
	if err := h.Shares.Create(&share); err != nil {
		respondError(c, err)
		return
	}

	h.Log.Info("share created",
		zap.String("token", share.Token),
		zap.String("folder_id", share.FolderID.String()),
		zap.String("permission", share.Permission))
	c.JSON(http.StatusOK, h.view(share))
}

func (h ShareHandler) List(c *gin.Context) {
	shares, err := h.Shares.List()
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]shareView, 0, len(shares))
	for _, s := range shares {
		views = append(views, h.view(s))
	}
	c.JSON(http.StatusOK, views)
}

type updateShareRequest struct {
	Permission string `json:"permission"`
}

func (h ShareHandler) UpdatePermission(c *gin.Context) {
	id, ok := parseUUIDParam(c, "shareId")
	if !ok {
		return
	}

	var req updateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil || !services.ValidPermission(req.Permission) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid permission"})
		return
	}

	n, err := h.Shares.UpdatePermission(id, req.Permission)
	if err != nil {
		respondError(c, err)
		return
	}
	if n == 0 {
		respondError(c, services.ErrNotFound)
		return
	}

	share, err := h.Shares.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(*share))
}

func (h ShareHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "shareId")
	if !ok {
		return
	}

	n, err := h.Shares.Delete(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if n == 0 {
		respondError(c, services.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Share deleted"})
}

// QRCode renders the guest URL as a 512px PNG for printing on cards.
func (h ShareHandler) QRCode(c *gin.Context) {
	id, ok := parseUUIDParam(c, "shareId")
	if !ok {
		return
	}

	share, err := h.Shares.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	code, err := qr.Encode(h.Config.ShareDomain+"/"+share.Token, qr.M, qr.Auto)
	if err != nil {
		respondError(c, err)
		return
	}
	code, err = barcode.Scale(code, 512, 512)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// generateShareToken produces a short URL-safe token. 9 random bytes give
// 12 base64 characters, plenty against guessing for a wedding gallery.
func generateShareToken() (string, error) {
	raw := make([]byte, 9)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

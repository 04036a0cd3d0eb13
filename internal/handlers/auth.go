package handlers

import (
	"net/http"
	"time"

	"couples-gallery/internal/config"
	"couples-gallery/internal/middleware"
	"couples-gallery/internal/models"
	"couples-gallery/internal/repositories"
	cryptopkg "couples-gallery/pkg/crypto"
	jwtpkg "couples-gallery/pkg/jwt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler covers the one-time setup bootstrap and admin login. The
// system is single-tenant: once any admin exists, setup is permanently
// disabled.
type AuthHandler struct {
	Admins *repositories.AdminRepository
	Config config.Config
	Log    *zap.Logger
}

func (h AuthHandler) Register(r *gin.Engine) {
	setup := r.Group("/api/setup")
	setup.GET("/status", h.SetupStatus)
	setup.POST("/admin", h.SetupAdmin)

	auth := r.Group("/api/auth")
	auth.POST("/login", h.Login)
	auth.GET("/me", middleware.AdminAuth(h.Config.JWTSecret), h.Me)
}

func (h AuthHandler) SetupStatus(c *gin.Context) {
	count, err := h.Admins.Count()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"setup_complete": count > 0})
}

type setupAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h AuthHandler) SetupAdmin(c *gin.Context) {
	var req setupAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	count, err := h.Admins.Count()
	if err != nil {
		respondError(c, err)
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "admin already exists"})
		return
	}

	hash, err := cryptopkg.HashPassword(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	admin := models.Admin{Username: req.Username, PasswordHash: hash}
	if err := h.Admins.Create(&admin); err != nil {
		respondError(c, err)
		return
	}

	token, err := h.issueToken(req.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	h.Log.Info("admin bootstrapped", zap.String("username", req.Username))
	c.JSON(http.StatusOK, gin.H{"message": "Admin created", "token": token})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	admin, err := h.Admins.GetByUsername(req.Username)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err := cryptopkg.ComparePassword(admin.PasswordHash, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.issueToken(admin.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "username": admin.Username})
}

func (h AuthHandler) Me(c *gin.Context) {
	username, _ := c.Get(middleware.ContextUsername)
	c.JSON(http.StatusOK, gin.H{"username": username})
}

func (h AuthHandler) issueToken(username string) (string, error) {
	ttl := time.Duration(h.Config.JWTExpiryHour) * time.Hour
	return jwtpkg.GenerateToken(username, []byte(h.Config.JWTSecret), ttl)
}

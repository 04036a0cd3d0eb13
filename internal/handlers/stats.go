package handlers

import (
	"net/http"
	"strconv"

	"couples-gallery/internal/config"
	"couples-gallery/internal/middleware"
	"couples-gallery/internal/repositories"
	"couples-gallery/internal/services"
	"couples-gallery/internal/utils"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	Catalog  *services.CatalogService
	Activity *repositories.ActivityRepository
	Config   config.Config
}

func (h StatsHandler) Register(r *gin.Engine) {
	auth := middleware.AdminAuth(h.Config.JWTSecret)

	r.GET("/api/stats", auth, h.Stats)
	r.GET("/api/activity", auth, h.List)
	r.DELETE("/api/activity", auth, h.Clear)
}

func (h StatsHandler) Stats(c *gin.Context) {
	stats, err := h.Catalog.Stats()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h StatsHandler) List(c *gin.Context) {
	rawLimit, _ := strconv.Atoi(c.Query("limit"))
	rawOffset, _ := strconv.Atoi(c.Query("offset"))
	limit, offset := utils.ValidatePaginationParams(rawLimit, rawOffset)

	entries, err := h.Activity.List(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h StatsHandler) Clear(c *gin.Context) {
	if err := h.Activity.Clear(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Activity log cleared"})
}

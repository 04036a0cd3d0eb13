package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"couples-gallery/internal/config"
	"couples-gallery/internal/handlers"
	"couples-gallery/internal/middleware"
	"couples-gallery/internal/repositories"
	"couples-gallery/internal/services"
	"couples-gallery/internal/storage"
	"couples-gallery/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := utils.NewLogger(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	dbConn, err := repositories.Connect(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = dbConn.SQL.Close() }()

	if cfg.AutoMigrate {
		if err := repositories.AutoMigrate(dbConn.Gorm); err != nil {
			log.Fatal("failed to auto-migrate schema", zap.Error(err))
		}
	}

	stores, err := storage.NewStores(cfg.FilesDir, cfg.ThumbnailsDir(), cfg.PreviewsDir())
	if err != nil {
		log.Fatal("failed to prepare storage directories", zap.Error(err))
	}

	admins := repositories.NewAdminRepository(dbConn.Gorm)
	folders := repositories.NewFolderRepository(dbConn.Gorm)
	files := repositories.NewFileRepository(dbConn.Gorm)
	shares := repositories.NewShareRepository(dbConn.Gorm)
	activity := repositories.NewActivityRepository(dbConn.Gorm)
	products := repositories.NewProductRepository(dbConn.Gorm)
	orders := repositories.NewOrderRepository(dbConn.Gorm)

	media := services.NewMediaService(stores, cfg.PreviewMaxPx, log)
	access := services.NewAccessService(folders)
	catalog := services.NewCatalogService(folders, files, shares, stores, log)
	library := services.NewLibraryService(folders, files, stores, media, access, log)
	archive := services.NewArchiveService(folders, files, stores, log)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.MaxMultipartMemory = 64 << 20

	corsCfg := cors.DefaultConfig()
	if cfg.CORSOrigins == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = strings.Split(cfg.CORSOrigins, ",")
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	if cfg.MetricsEnabled {
		router.Use(middleware.PrometheusMetrics())
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	health := handlers.NewHealthHandler(dbConn.Gorm)
	health.Register(router)

	handlers.AuthHandler{Admins: admins, Config: cfg, Log: log}.Register(router)
	handlers.FolderHandler{Catalog: catalog, Archive: archive, Config: cfg, Log: log}.Register(router)
	handlers.FileHandler{Library: library, Archive: archive, Stores: stores, Config: cfg, Log: log}.Register(router)
	handlers.ShareHandler{Shares: shares, Folders: folders, Config: cfg, Log: log}.Register(router)
	handlers.GalleryHandler{
		Shares:   shares,
		Folders:  folders,
		Activity: activity,
		Catalog:  catalog,
		Library:  library,
		Access:   access,
		Archive:  archive,
		Log:      log,
	}.Register(router)
	handlers.OrderHandler{
		Products: products,
		Orders:   orders,
		Shares:   shares,
		Activity: activity,
		Config:   cfg,
		Log:      log,
	}.Register(router)
	handlers.StatsHandler{Catalog: catalog, Activity: activity, Config: cfg}.Register(router)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("api server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("api server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("api server shutting down")
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("api server shutdown error", zap.Error(err))
	}
}

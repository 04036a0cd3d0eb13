package config

import (
	"path/filepath"

	"couples-gallery/internal/utils"
)

type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	// DatabaseURL selects the postgres backend when set. When empty the
	// catalog lives in a sqlite file under DataDir, which is the normal
	// single-operator deployment.
	DatabaseURL    string
	DBMaxOpenConns int
	DBMaxIdleConns int
	AutoMigrate    bool

	// FilesDir holds original blobs keyed by stored name. DataDir holds the
	// sqlite database plus the thumbnails/ and previews/ directories.
	FilesDir string
	DataDir  string

	JWTSecret     string
	JWTExpiryHour int

	// ShareDomain is the public origin prefixed to share tokens when
	// building share URLs and QR codes.
	ShareDomain string

	PreviewMaxPx         int
	OrderMinSubtotalCent int64

	MetricsEnabled bool
	CORSOrigins    string
}

func Load() Config {
	return Config{
		AppPort:  utils.GetEnv("APP_PORT", "8080"),
		AppEnv:   utils.GetEnv("APP_ENV", "development"),
		LogLevel: utils.GetEnv("LOG_LEVEL", "info"),

		DatabaseURL:    utils.GetEnv("DATABASE_URL", ""),
		DBMaxOpenConns: utils.GetEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: utils.GetEnvInt("DB_MAX_IDLE_CONNS", 25),
		AutoMigrate:    utils.GetEnvBool("AUTO_MIGRATE", true),

		FilesDir: utils.GetEnv("FILES_DIR", "./files"),
		DataDir:  utils.GetEnv("DATA_DIR", "./data"),

		JWTSecret:     utils.GetEnv("JWT_SECRET", "change-this-in-production-please"),
		JWTExpiryHour: utils.GetEnvInt("JWT_EXPIRATION_HOURS", 24),

		ShareDomain: utils.GetEnv("SHARE_DOMAIN", "https://weddingsbymark.uk"),

		PreviewMaxPx:         utils.GetEnvInt("PREVIEW_MAX_PX", 1500),
		OrderMinSubtotalCent: utils.GetEnvInt64("ORDER_MIN_SUBTOTAL_CENTS", 1000),

		MetricsEnabled: utils.GetEnvBool("METRICS_ENABLED", true),
		CORSOrigins:    utils.GetEnv("CORS_ORIGINS", "*"),
	}
}

func (c Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "gallery.db")
}

func (c Config) ThumbnailsDir() string {
	return filepath.Join(c.DataDir, "thumbnails")
}

func (c Config) PreviewsDir() string {
	return filepath.Join(c.DataDir, "previews")
}

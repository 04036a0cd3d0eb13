package repositories

import (
	"database/sql"
	"time"

	"couples-gallery/internal/config"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	Gorm *gorm.DB
	SQL  *sql.DB
}

// Connect opens postgres when DATABASE_URL is configured, otherwise a sqlite
// file under the data directory. The handle is created once at startup and
// passed into every repository; components never reach for a global.
func Connect(cfg config.Config, log *zap.Logger) (*DB, error) {
	gormCfg := &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true}
	if log != nil {
		gormCfg.Logger = logger.New(
			zap.NewStdLog(log),
			logger.Config{LogLevel: logger.Warn},
		)
	}

	var dialector gorm.Dialector
	if cfg.DatabaseURL != "" {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.SQLitePath())
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return &DB{Gorm: db, SQL: sqlDB}, nil
}

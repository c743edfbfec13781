package postgres

import (
	"log"
	"time"

	"github.com/LavaJover/shvark-affiliate-service/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func MustInitDB(cfg *config.AffiliateConfig) *gorm.DB {
	dsn := cfg.AffiliateDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v\n", err.Error())
	}
	sqlDB.SetMaxOpenConns(cfg.AffiliateDB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.AffiliateDB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.AffiliateDB.ConnMaxLifetime)

	return db
}

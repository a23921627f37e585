package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormConfig is shared by every dialect. TranslateError is required: the
// repositories rely on gorm.ErrDuplicatedKey for unique violations. Open
// pings with its own timeout, so gorm's automatic ping is off.
func GormConfig(development bool) *gorm.Config {
	logLevel := gormlogger.Error
	if development {
		logLevel = gormlogger.Info
	}
	return &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(logLevel),
		TranslateError:         true,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func Open(ctx context.Context, dialector gorm.Dialector, development bool) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, GormConfig(development))
	if err != nil {
		return nil, fmt.Errorf("open %s failed: %w", dialector.Name(), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get %s sql db failed: %w", dialector.Name(), err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s failed: %w", dialector.Name(), err)
	}

	return db, nil
}

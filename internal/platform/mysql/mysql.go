package mysql

import (
	"context"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"partyup-network/internal/platform/database"
)

func New(ctx context.Context, dsn string, development bool) (*gorm.DB, error) {
	return database.Open(ctx, mysql.Open(dsn), development)
}

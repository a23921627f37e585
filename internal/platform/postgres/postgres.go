package postgres

import (
	"context"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"partyup-network/internal/platform/database"
)

func New(ctx context.Context, dsn string, development bool) (*gorm.DB, error) {
	return database.Open(ctx, postgres.Open(dsn), development)
}

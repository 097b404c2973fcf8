package postgres

import (
	"context"

	"courier/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Migrate creates or alters the courier tables.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&model.ServerModel{},
		&model.ConnectionModel{},
		&model.JobModel{},
		&model.RecipientModel{},
	); err != nil {
		return errors.Wrap(err, "failed to migrate courier tables")
	}

	return nil
}

package database

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedThemes inserts every catalog theme missing from the temas table.
// Existing rows are left untouched.
func SeedThemes(ctx context.Context, db *gorm.DB, themes []catalog.Theme) error {
	var created int64
	for _, t := range themes {
		tema := models.Tema{Name: t.Name, Description: t.Description}
		res := db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
			Create(&tema)
		if res.Error != nil {
			return res.Error
		}
		created += res.RowsAffected
	}
	if created > 0 {
		slog.Info("theme catalog seeded", "created", created)
	}
	return nil
}

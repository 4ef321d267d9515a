// Package testutil provides an in-memory database and fakes for the storage,
// reset-token and mail capabilities.
package testutil

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database private to the test.
// A single connection is used so transactions never wait on each other.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=off"
	db, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// CreateUser inserts a user with sensible defaults.
func CreateUser(t *testing.T, db *gorm.DB, email string, monitor bool) *models.User {
	t.Helper()
	u := &models.User{
		Email:     email,
		Name:      "User " + email,
		Password:  "$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva",
		IsMonitor: monitor,
		Role:      "user",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateTema(t *testing.T, db *gorm.DB, name string) *models.Tema {
	t.Helper()
	tema := &models.Tema{Name: name}
	require.NoError(t, db.Create(tema).Error)
	return tema
}

func CreateSubtema(t *testing.T, db *gorm.DB, temaID uuid.UUID, name string) *models.Subtema {
	t.Helper()
	sub := &models.Subtema{TemaID: temaID, Name: name}
	require.NoError(t, db.Omit("Tema").Create(sub).Error)
	return sub
}

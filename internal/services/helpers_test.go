package services

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:           "test-secret",
		JWTAccessExpiry:     15 * time.Minute,
		JWTRefreshExpiry:    time.Hour,
		PasswordResetExpiry: 30 * time.Minute,
		ResetURL:            "ecodicas://reset-password",
	}
}

func newStore(t *testing.T) (*gorm.DB, *repository.Store) {
	t.Helper()
	db := testutil.NewDB(t)
	return db, repository.New(db)
}

func assertKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if assert.Error(t, err) {
		assert.Equal(t, kind, apperr.KindOf(err), err.Error())
	}
}

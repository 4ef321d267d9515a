package testutil

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// TestSecret signs the tokens produced by AccessToken.
const TestSecret = "test-secret"

// AccessToken signs a session token for user, as the login flow would.
func AccessToken(t *testing.T, user *models.User) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"typ":   "access",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(TestSecret))
	require.NoError(t, err)
	return signed
}

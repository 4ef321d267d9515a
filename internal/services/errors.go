package services

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/repository"
)

var (
	ErrEmailTaken         = apperr.Conflict("email already registered")
	ErrInvalidCredentials = apperr.Unauthorized("invalid email or password")
	ErrInvalidToken       = apperr.Unauthorized("invalid or expired refresh token")
	ErrInvalidResetToken  = apperr.BadRequest("invalid or expired reset token")
	ErrUserNotFound       = apperr.NotFound("user not found")
	ErrTemaNotFound       = apperr.NotFound("tema not found")
	ErrSubtemaNotFound    = apperr.NotFound("subtema not found")
	ErrNotMonitor         = apperr.Forbidden("only monitors can verify content")
)

// RepoErr converts a repository error: ErrNotFound becomes notFound,
// ErrDuplicate and ErrReferenced become conflicts and anything else is an
// internal failure described by msg.
func RepoErr(err error, notFound *apperr.Error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, repository.ErrDuplicate):
		return apperr.Conflict("record already exists")
	case errors.Is(err, repository.ErrReferenced):
		return apperr.Conflict("record is still in use")
	default:
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return err
		}
		return apperr.Internal(err, msg)
	}
}

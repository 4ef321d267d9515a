package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/storage"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/validation"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	store   *repository.Store
	storage storage.Storage
}

func NewUserService(store *repository.Store, st storage.Storage) *UserService {
	return &UserService{store: store, storage: st}
}

func (s *UserService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.store.Users.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list users")
	}
	result := make([]dto.UserResponse, len(users))
	for i := range users {
		result[i] = mapUserToResponse(&users[i])
	}
	return result, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.store.Users.FindByID(ctx, id)
	if err != nil {
		return nil, RepoErr(err, ErrUserNotFound, "failed to get user")
	}
	resp := mapUserToResponse(user)
	return &resp, nil
}

// Update changes the caller's own profile. A new photo replaces the old one;
// the old object is removed only after the row is updated.
func (s *UserService) Update(ctx context.Context, actorID, id uuid.UUID, req *dto.UpdateUserRequest, photo *storage.Object) (*dto.UserResponse, error) {
	if actorID != id {
		return nil, apperr.Forbidden("users can only update their own profile")
	}

	user, err := s.store.Users.FindByID(ctx, id)
	if err != nil {
		return nil, RepoErr(err, ErrUserNotFound, "failed to get user")
	}

	var errs validation.Errors
	fields := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if errs.Required("nome", name) {
			errs.Length("nome", name, 1, validation.UserNameMax)
		}
		fields["name"] = name
	}
	if req.Phone != nil {
		if *req.Phone != "" {
			errs.Phone("telefone", *req.Phone)
		}
		fields["phone"] = *req.Phone
	}
	if req.ConsciousnessLevel != nil {
		errs.Range("nivelConsciencia", *req.ConsciousnessLevel, 0, validation.ConsciousnessLevel)
		fields["consciousness_level"] = *req.ConsciousnessLevel
	}
	if req.Password != nil {
		validation.Password(&errs, *req.Password)
	}
	if err := errs.Err("invalid user"); err != nil {
		return nil, err
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperr.Internal(err, "failed to hash password")
		}
		fields["password"] = string(hash)
	}

	tracker := storage.NewTracker(s.storage)
	defer tracker.Rollback(ctx)

	if photo != nil {
		key := storage.ObjectKey(user.ID.String(), photo.Name, time.Now())
		photoURL, err := tracker.Upload(ctx, storage.BucketProfilePhotos, key, photo.Data, photo.ContentType)
		if err != nil {
			return nil, apperr.Internal(err, "failed to upload profile photo")
		}
		fields["profile_photo_url"] = photoURL
		fields["profile_photo_key"] = key
	}

	if len(fields) == 0 {
		return nil, apperr.BadRequest("nothing to update")
	}
	if err := s.store.Users.Update(ctx, id, fields); err != nil {
		return nil, RepoErr(err, ErrUserNotFound, "failed to update user")
	}
	tracker.Commit()

	if photo != nil && user.ProfilePhotoKey != nil {
		s.removePhoto(ctx, *user.ProfilePhotoKey)
	}
	return s.Get(ctx, id)
}

// Delete removes the account and its sessions. Accounts that still author
// dicas or receitas are rejected with a conflict.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.store.Users.FindByID(ctx, id)
	if err != nil {
		return RepoErr(err, ErrUserNotFound, "failed to get user")
	}

	err = s.store.WithinTx(ctx, func(tx *repository.Store) error {
		if err := tx.RefreshTokens.DeleteByUser(ctx, id); err != nil {
			return err
		}
		return tx.Users.Delete(ctx, id)
	})
	if err != nil {
		return RepoErr(err, ErrUserNotFound, "failed to delete user")
	}

	if user.ProfilePhotoKey != nil {
		s.removePhoto(ctx, *user.ProfilePhotoKey)
	}
	return nil
}

// SetMonitor grants or revokes the verification privilege.
func (s *UserService) SetMonitor(ctx context.Context, id uuid.UUID, isMonitor bool) (*dto.UserResponse, error) {
	if err := s.store.Users.Update(ctx, id, map[string]interface{}{"is_monitor": isMonitor}); err != nil {
		return nil, RepoErr(err, ErrUserNotFound, "failed to update user")
	}
	slog.Info("monitor privilege changed", "user_id", id.String(), "is_monitor", isMonitor)
	return s.Get(ctx, id)
}

func (s *UserService) removePhoto(ctx context.Context, key string) {
	if err := s.storage.Remove(context.WithoutCancel(ctx), storage.BucketProfilePhotos, key); err != nil {
		slog.Error("failed to remove profile photo", "action", "storage_cleanup", "key", key, "error", err)
	}
}

// UserByEmail resolves the acting user from the email in their token.
func UserByEmail(ctx context.Context, store *repository.Store, email string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrUserNotFound
	}
	user, err := store.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, RepoErr(err, ErrUserNotFound, "failed to get user")
	}
	return user, nil
}

// RequireMonitor resolves a verifier and checks the monitor privilege.
func RequireMonitor(ctx context.Context, store *repository.Store, email string) (*models.User, error) {
	user, err := UserByEmail(ctx, store, email)
	if err != nil {
		return nil, err
	}
	if !user.IsMonitor {
		return nil, ErrNotMonitor
	}
	return user, nil
}

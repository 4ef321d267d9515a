package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/passwordreset"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/storage"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTypePasswordReset = "password_reset"

type AuthService struct {
	store   *repository.Store
	cfg     *config.Config
	storage storage.Storage
	resets  passwordreset.Store
	mailer  mailer.Mailer
}

func NewAuthService(store *repository.Store, cfg *config.Config, st storage.Storage, resets passwordreset.Store, m mailer.Mailer) *AuthService {
	return &AuthService{
		store:   store,
		cfg:     cfg,
		storage: st,
		resets:  resets,
		mailer:  m,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account, uploading the optional profile photo first.
// The photo is removed again if any later step fails.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest, photo *storage.Object) (*dto.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.NewUser(validation.UserInput{
		Email:              req.Email,
		Name:               req.Name,
		Phone:              req.Phone,
		Password:           req.Password,
		ConsciousnessLevel: req.ConsciousnessLevel,
	}); err != nil {
		return nil, err
	}

	if _, err := s.store.Users.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal(err, "failed to look up user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err, "failed to hash password")
	}

	user := models.User{
		ID:                 uuid.New(),
		Email:              req.Email,
		Name:               req.Name,
		Phone:              req.Phone,
		Password:           string(hash),
		ConsciousnessLevel: req.ConsciousnessLevel,
		Role:               "user",
	}

	tracker := storage.NewTracker(s.storage)
	defer tracker.Rollback(ctx)

	if photo != nil {
		key := storage.ObjectKey(user.ID.String(), photo.Name, time.Now())
		photoURL, err := tracker.Upload(ctx, storage.BucketProfilePhotos, key, photo.Data, photo.ContentType)
		if err != nil {
			return nil, apperr.Internal(err, "failed to upload profile photo")
		}
		user.ProfilePhotoURL = &photoURL
		user.ProfilePhotoKey = &key
	}

	if err := s.store.Users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, apperr.Internal(err, "failed to create user")
	}

	resp, err := s.generateTokenPair(ctx, &user)
	if err != nil {
		return nil, err
	}
	tracker.Commit()
	return resp, nil
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.store.Users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperr.Internal(err, "failed to look up user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(ctx, user)
}

func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	stored, err := s.store.RefreshTokens.FindActiveByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, apperr.Internal(err, "failed to look up refresh token")
	}

	if err := s.store.RefreshTokens.Revoke(ctx, tokenHash); err != nil {
		return nil, apperr.Internal(err, "failed to revoke refresh token")
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	user, err := s.store.Users.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, RepoErr(err, ErrInvalidToken, "failed to look up user")
	}

	return s.generateTokenPair(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	if err := s.store.RefreshTokens.Revoke(ctx, hashToken(req.RefreshToken)); err != nil {
		return apperr.Internal(err, "failed to revoke refresh token")
	}
	return nil
}

// ForgotPassword issues a single-use reset token and queues the email. It
// reports success whether or not the address is registered.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.store.Users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			slog.Error("password reset lookup failed", "action", "password_reset", "error", err)
		}
		return nil
	}

	jti := uuid.NewString()
	token, err := s.generateResetToken(user, jti)
	if err != nil {
		return apperr.Internal(err, "failed to sign reset token")
	}
	if err := s.resets.Save(ctx, jti, user.ID, s.cfg.PasswordResetExpiry); err != nil {
		return apperr.Internal(err, "failed to store reset token")
	}

	link := s.cfg.ResetURL + "?token=" + url.QueryEscape(token)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, link); err != nil {
		return apperr.Internal(err, "failed to queue reset email")
	}

	slog.Info("password reset requested", "user_id", user.ID.String())
	return nil
}

// ResetPassword redeems a reset token and sets the new password. Every
// refresh token of the user is revoked.
func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	var errs validation.Errors
	validation.Password(&errs, req.Password)
	if err := errs.Err("invalid password"); err != nil {
		return err
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(req.Token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || claims["typ"] != tokenTypePasswordReset {
		return ErrInvalidResetToken
	}
	jti, _ := claims["jti"].(string)
	sub, _ := claims["sub"].(string)

	userID, err := s.resets.Consume(ctx, jti)
	if err != nil {
		if errors.Is(err, passwordreset.ErrTokenNotFound) {
			return ErrInvalidResetToken
		}
		return apperr.Internal(err, "failed to redeem reset token")
	}
	if userID.String() != sub {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal(err, "failed to hash password")
	}

	return s.store.WithinTx(ctx, func(tx *repository.Store) error {
		if err := tx.Users.Update(ctx, userID, map[string]interface{}{"password": string(hash)}); err != nil {
			return RepoErr(err, ErrUserNotFound, "failed to update password")
		}
		if err := tx.RefreshTokens.DeleteByUser(ctx, userID); err != nil {
			return apperr.Internal(err, "failed to revoke sessions")
		}
		return nil
	})
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, apperr.Internal(err, "failed to sign access token")
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         mapUserToResponse(user),
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"typ":   middleware.TokenTypeAccess,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateResetToken(user *models.User, jti string) (string, error) {
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"jti": jti,
		"typ": tokenTypePasswordReset,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(s.cfg.PasswordResetExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", apperr.Internal(err, "failed to generate refresh token")
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)
	record := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.store.RefreshTokens.Create(ctx, &record); err != nil {
		return "", apperr.Internal(err, "failed to store refresh token")
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}

func mapUserToResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		Name:               u.Name,
		Phone:              u.Phone,
		ConsciousnessLevel: u.ConsciousnessLevel,
		IsMonitor:          u.IsMonitor,
		Role:               u.Role,
		ProfilePhotoURL:    u.ProfilePhotoURL,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

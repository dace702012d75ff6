package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/hostel-seat-allocation/internal/apperr"
	"github.com/iliyamo/hostel-seat-allocation/internal/model"
	"github.com/iliyamo/hostel-seat-allocation/internal/repository"
	"github.com/iliyamo/hostel-seat-allocation/internal/utils"
)

// AuthConfig holds the token and hashing parameters.
type AuthConfig struct {
	Secret     string
	TTLMin     int
	BcryptCost int
}

// AuthService logs admins in and resolves the admin behind a token.
type AuthService struct {
	admins repository.AdminStore
	cfg    AuthConfig
	log    *zap.Logger
}

func NewAuthService(admins repository.AdminStore, cfg AuthConfig, log *zap.Logger) *AuthService {
	return &AuthService{admins: admins, cfg: cfg, log: log.Named("auth")}
}

// Login checks the credentials and issues an access token.  Unknown
// usernames and wrong passwords both yield the same Auth error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.Admin, utils.AccessToken, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, utils.AccessToken{}, apperr.Validation("Missing credentials")
	}
	admin, err := s.admins.GetAdminByUsername(ctx, username)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, utils.AccessToken{}, apperr.Auth("Wrong credentials")
	}
	if err != nil {
		return nil, utils.AccessToken{}, err
	}
	if !utils.VerifyPassword(admin.PasswordHash, password) {
		s.log.Info("login rejected", zap.String("username", username))
		return nil, utils.AccessToken{}, apperr.Auth("Wrong credentials")
	}
	tok, err := utils.NewAccessToken(s.cfg.Secret, admin.ID, admin.Username, s.cfg.TTLMin)
	if err != nil {
		return nil, utils.AccessToken{}, err
	}
	return admin, tok, nil
}

// CreateAdmin stores a new admin with a bcrypt-hashed password.
func (s *AuthService) CreateAdmin(ctx context.Context, username, password string) (*model.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperr.Validation("Username and password are required")
	}
	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	a := &model.Admin{Username: username, PasswordHash: hash}
	if err := s.admins.CreateAdmin(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Admin returns the admin a verified token refers to.  A token for an
// admin that no longer exists is an Auth error.
func (s *AuthService) Admin(ctx context.Context, id uint64) (*model.Admin, error) {
	a, err := s.admins.GetAdmin(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Auth("Admin not found")
	}
	return a, err
}

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/AbduDark/MobileLinesManager/config"
	"github.com/AbduDark/MobileLinesManager/internal/apperr"
	"github.com/AbduDark/MobileLinesManager/internal/auditlog"
	"github.com/AbduDark/MobileLinesManager/middleware"
)

type Service interface {
	Login(ctx context.Context, req LoginRequest, ip string) (*LoginResponse, error)
	CreateUser(ctx context.Context, req CreateUserRequest, actorID *uint, ip string) (*User, error)
	SetActive(ctx context.Context, id uint, active bool, actorID *uint, ip string) error
	Get(ctx context.Context, id uint) (*User, error)
	List(ctx context.Context) ([]User, error)
	ListWorkers(ctx context.Context) ([]User, error)
}

type service struct {
	repo  Repository
	audit auditlog.Service
	cfg   *config.Config
}

func NewService(repo Repository, audit auditlog.Service, cfg *config.Config) Service {
	return &service{repo: repo, audit: audit, cfg: cfg}
}

func (s *service) Login(ctx context.Context, req LoginRequest, ip string) (*LoginResponse, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperr.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}

	claims := middleware.Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(s.cfg.JWTTTLHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.Username,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.audit.Log(ctx, &user.ID, auditlog.EntityUser, user.ID, auditlog.ActionLogin,
		fmt.Sprintf("user %q logged in", user.Username), ip)

	return &LoginResponse{Token: token, User: *user}, nil
}

func (s *service) CreateUser(ctx context.Context, req CreateUserRequest, actorID *uint, ip string) (*User, error) {
	username := strings.TrimSpace(req.Username)

	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         req.Role,
		Phone:        req.Phone,
		Email:        req.Email,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.audit.Log(ctx, actorID, auditlog.EntityUser, user.ID, auditlog.ActionCreate,
		fmt.Sprintf("user %q created with role %s", user.Username, user.Role), ip)
	return user, nil
}

// SetActive toggles the account flag. Users are deactivated, never deleted:
// assignment history references them.
func (s *service) SetActive(ctx context.Context, id uint, active bool, actorID *uint, ip string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.ErrUserNotFound
	}

	user.IsActive = active
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	state := "deactivated"
	if active {
		state = "activated"
	}
	s.audit.Log(ctx, actorID, auditlog.EntityUser, id, auditlog.ActionUpdate,
		fmt.Sprintf("user %q %s", user.Username, state), ip)
	return nil
}

func (s *service) Get(ctx context.Context, id uint) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrUserNotFound
	}
	return user, nil
}

func (s *service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *service) ListWorkers(ctx context.Context) ([]User, error) {
	return s.repo.ListActiveWorkers(ctx)
}

package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/deltahost/portal-service/internal/auth"
	"github.com/deltahost/portal-service/internal/config"
	"github.com/deltahost/portal-service/internal/models"
	"github.com/deltahost/portal-service/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccessCodeRequired = errors.New("access code is required")
	ErrInvalidAccessCode  = errors.New("invalid access code")
)

// UserStore is the slice of the user repository auth needs
type UserStore interface {
	Create(ctx context.Context, user *models.PortalUser) error
	GetByID(ctx context.Context, id string) (*models.PortalUser, error)
	GetByEmail(ctx context.Context, email string) (*models.PortalUser, error)
	GetAll(ctx context.Context) ([]*models.PortalUser, error)
	SetBan(ctx context.Context, id string, banned bool, reason *string) error
}

// AuditLogger records admin mutations
type AuditLogger interface {
	LogAction(ctx context.Context, entityType, entityID, action, status, message string) error
}

// AuthService handles customer accounts and the admin access-code gate
type AuthService struct {
	cfg         *config.Config
	userRepo    UserStore
	auditRepo   AuditLogger
	adminTokens *auth.AdminTokenStore
}

func NewAuthService(cfg *config.Config, userRepo UserStore, auditRepo AuditLogger, adminTokens *auth.AdminTokenStore) *AuthService {
	return &AuthService{
		cfg:         cfg,
		userRepo:    userRepo,
		auditRepo:   auditRepo,
		adminTokens: adminTokens,
	}
}

// Register creates a customer account and returns a session token
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	user := &models.PortalUser{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: auth.HashPassword(req.Password, s.cfg.Auth.PasswordSalt),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Printf("[Auth] Registered user %s", user.ID)
	return s.buildAuthResponse(user)
}

// Login checks credentials and returns a session token. Banned users still
// authenticate; writes are refused downstream with the ban reason.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !auth.CheckPassword(req.Password, s.cfg.Auth.PasswordSalt, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.buildAuthResponse(user)
}

// GetUser returns the customer-visible view of an account
func (s *AuthService) GetUser(ctx context.Context, userID string) (*models.UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildUserInfo(user), nil
}

// ListUsers returns all accounts (admin view)
func (s *AuthService) ListUsers(ctx context.Context) ([]models.UserInfo, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	infos := make([]models.UserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, *buildUserInfo(user))
	}
	return infos, nil
}

// BanUser sets the ban flag with the supplied reason, defaulting to
// "Banned by admin". Existing orders and servers are untouched.
func (s *AuthService) BanUser(ctx context.Context, userID, reason string) error {
	if reason == "" {
		reason = models.DefaultBanReason
	}

	if err := s.userRepo.SetBan(ctx, userID, true, &reason); err != nil {
		return err
	}

	_ = s.auditRepo.LogAction(ctx, "user", userID, "ban", "ok", reason)
	log.Printf("[Auth] Banned user %s: %s", userID, reason)
	return nil
}

// UnbanUser clears the ban flag and reason
func (s *AuthService) UnbanUser(ctx context.Context, userID string) error {
	if err := s.userRepo.SetBan(ctx, userID, false, nil); err != nil {
		return err
	}

	_ = s.auditRepo.LogAction(ctx, "user", userID, "unban", "ok", "")
	log.Printf("[Auth] Unbanned user %s", userID)
	return nil
}

// AdminLogin validates the access code and issues a 24h admin token. The
// three failure modes (missing input, mismatch, server error) map to distinct
// errors for the handler.
func (s *AuthService) AdminLogin(accessCode string) (*models.AdminLoginResponse, error) {
	if accessCode == "" {
		return nil, ErrAccessCodeRequired
	}

	if subtle.ConstantTimeCompare([]byte(accessCode), []byte(s.cfg.Admin.AccessCode)) != 1 {
		return nil, ErrInvalidAccessCode
	}

	token, expiresAt := s.adminTokens.Issue()
	return &models.AdminLoginResponse{
		Authenticated: true,
		Token:         token,
		ExpiresAt:     expiresAt.Format(time.RFC3339),
	}, nil
}

// AdminLogout revokes an issued admin token
func (s *AuthService) AdminLogout(token string) {
	s.adminTokens.Revoke(token)
}

func (s *AuthService) buildAuthResponse(user *models.PortalUser) (*models.AuthResponse, error) {
	token, err := auth.IssueCustomerToken(s.cfg.JWT.SecretKey, user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &models.AuthResponse{
		Token: token,
		User:  buildUserInfo(user),
	}, nil
}

func buildUserInfo(user *models.PortalUser) *models.UserInfo {
	return &models.UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		IsBanned:  user.IsBanned,
		BanReason: user.BanReason,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

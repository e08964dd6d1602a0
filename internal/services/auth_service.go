package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/sjperalta/backoffice-api/internal/audit"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/sjperalta/backoffice-api/internal/repository"
	"github.com/sjperalta/backoffice-api/internal/token"
	"github.com/sjperalta/backoffice-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const loginModule = "System Login"

// AuthService runs the login and per-request session protocols for admins and users
type AuthService struct {
	identities map[string]repository.IdentityRepository
	tokens     *token.Authority
	recorder   *audit.Recorder
}

// NewAuthService creates a new auth service
func NewAuthService(admins, users repository.IdentityRepository, tokens *token.Authority, recorder *audit.Recorder) *AuthService {
	return &AuthService{
		identities: map[string]repository.IdentityRepository{
			models.RoleAdmin: admins,
			models.RoleUser:  users,
		},
		tokens:   tokens,
		recorder: recorder,
	}
}

// LoginResult represents the result of a login attempt
type LoginResult struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Token    string `json:"token"`
	Role     string `json:"role"`
	Phone    string `json:"phone,omitempty"`
}

// Principal is the authenticated actor of a request
type Principal struct {
	ID             uint
	Username       string
	Name           string
	Role           string
	SessionVersion int
}

// VerifyResult is returned by Verify with a token carrying a fresh validity window
type VerifyResult struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	NewToken string `json:"newToken"`
}

func (s *AuthService) store(kind string) (repository.IdentityRepository, bool) {
	repo, ok := s.identities[kind]
	return repo, ok && repo != nil
}

// Login checks the password, bumps the stored session version and issues a token
// embedding the new version. Every token issued earlier for the account stops
// authenticating from this point on.
func (s *AuthService) Login(ctx context.Context, kind, username, password string) (*LoginResult, error) {
	repo, ok := s.store(kind)
	if !ok {
		return nil, fmt.Errorf("unknown account kind %q", kind)
	}

	acc, err := repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUsernameNotFound
		}
		return nil, fmt.Errorf("find %s %q: %w", kind, username, err)
	}

	if !PasswordMatches(acc.PasswordDigest(), password) {
		return nil, ErrWrongPassword
	}

	version := models.CurrentVersion(acc) + 1
	if err := repo.UpdateSessionVersion(ctx, acc.AccountID(), version); err != nil {
		return nil, fmt.Errorf("update session version: %w", err)
	}

	signed, err := s.tokens.Issue(acc.AccountID(), acc.AccountUsername(), acc.AccountRole(), version)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	result := &LoginResult{
		ID:       acc.AccountID(),
		Username: acc.AccountUsername(),
		Name:     acc.DisplayName(),
		Token:    signed,
		Role:     acc.AccountRole(),
	}
	if u, ok := acc.(*models.User); ok {
		result.Phone = u.Phone
	}

	id := acc.AccountID()
	s.recorder.Record(ctx, &models.OperationLog{
		UserID:       &id,
		OperatorName: acc.DisplayName(),
		Role:         acc.AccountRole(),
		Module:       loginModule,
		Action:       models.ActionLogin,
		Description:  fmt.Sprintf("%s %s signed in", acc.AccountRole(), acc.AccountUsername()),
		Method:       "AuthService.Login",
		Status:       models.AuditStatusSuccess,
	})

	logger.Info("Account signed in", "kind", kind, "account_id", id, "session_version", version)
	return result, nil
}

// Authenticate validates the token and checks its session version against the stored one
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*Principal, error) {
	claims, err := s.tokens.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	repo, ok := s.store(claims.Role)
	if !ok {
		return nil, token.ErrTokenInvalid
	}

	acc, err := repo.FindByID(ctx, claims.ActorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find %s %d: %w", claims.Role, claims.ActorID, err)
	}

	if claims.SessionVersion != models.CurrentVersion(acc) {
		return nil, ErrSessionSuperseded
	}

	return &Principal{
		ID:             acc.AccountID(),
		Username:       acc.AccountUsername(),
		Name:           acc.DisplayName(),
		Role:           acc.AccountRole(),
		SessionVersion: claims.SessionVersion,
	}, nil
}

// Verify authenticates the token and returns a refreshed one
func (s *AuthService) Verify(ctx context.Context, tokenString string) (*VerifyResult, error) {
	p, err := s.Authenticate(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	refreshed, err := s.tokens.Refresh(tokenString)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{
		UserID:   p.ID,
		Username: p.Username,
		Name:     p.Name,
		Role:     p.Role,
		NewToken: refreshed,
	}, nil
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// PasswordMatches compares a password with a stored value. bcrypt hashes are
// checked with bcrypt; anything else is a legacy plaintext value compared in
// constant time.
func PasswordMatches(stored, password string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}

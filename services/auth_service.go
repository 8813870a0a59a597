package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// Access roles carried in the token's role claim.
const (
	RoleViewer = "viewer"
	RoleAdmin  = "admin"
)

const tokenTTL = 24 * time.Hour

type LoginInput struct {
	Password string `json:"password"`
}

type AuthService interface {
	// LoginViewer checks the shared tournament password and issues a
	// viewer token.
	LoginViewer(ctx context.Context, input LoginInput) (string, error)
	// LoginAdmin checks the admin password and issues an admin token.
	LoginAdmin(ctx context.Context, input LoginInput) (string, error)
}

type authService struct {
	viewerHash []byte
	adminHash  []byte
	jwtSecret  []byte
}

// NewAuthService hashes the two shared secrets once at startup so the
// plaintext passwords never sit in memory past construction.
func NewAuthService(tournamentPassword, adminPassword, jwtSecret string) (AuthService, error) {
	viewerHash, err := bcrypt.GenerateFromPassword([]byte(tournamentPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash tournament password: %w", err)
	}
	adminHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return &authService{
		viewerHash: viewerHash,
		adminHash:  adminHash,
		jwtSecret:  []byte(jwtSecret),
	}, nil
}

func (s *authService) LoginViewer(_ context.Context, input LoginInput) (string, error) {
	return s.login(input.Password, s.viewerHash, RoleViewer)
}

func (s *authService) LoginAdmin(_ context.Context, input LoginInput) (string, error) {
	return s.login(input.Password, s.adminHash, RoleAdmin)
}

func (s *authService) login(password string, hash []byte, role string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password is required", ErrValidationFailed)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"role": role,
		"exp":  now.Add(tokenTTL).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

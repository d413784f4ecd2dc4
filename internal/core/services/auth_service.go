package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type AuthConfig struct {
	JWTSecret      []byte
	GoogleClientID string
	AdminEmails    []string
	AdminTokenTTL  time.Duration
	VoterTokenTTL  time.Duration
}

type authService struct {
	admins              ports.AdminRepository
	citizens            ports.CitizenDirectory
	googleTokenVerifier ports.TokenVerifier
	identity            ports.IdentityVerifier
	cfg                 AuthConfig
	options
}

func NewAuthService(
	admins ports.AdminRepository,
	citizens ports.CitizenDirectory,
	googleTokenVerifier ports.TokenVerifier,
	identity ports.IdentityVerifier,
	cfg AuthConfig,
	opts ...Option,
) ports.AuthService {
	if cfg.AdminTokenTTL <= 0 {
		cfg.AdminTokenTTL = 15 * time.Minute
	}
	if cfg.VoterTokenTTL <= 0 {
		cfg.VoterTokenTTL = 5 * time.Minute
	}
	emails := make([]string, 0, len(cfg.AdminEmails))
	for _, e := range cfg.AdminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			emails = append(emails, e)
		}
	}
	cfg.AdminEmails = emails
	return &authService{
		admins:              admins,
		citizens:            citizens,
		googleTokenVerifier: googleTokenVerifier,
		identity:            identity,
		cfg:                 cfg,
		options:             newOptions(opts),
	}
}

// LoginAdmin accepts a Google ID token from an allow-listed e-mail and issues an admin session.
func (s *authService) LoginAdmin(ctx context.Context, googleToken string) (string, error) {
	payload, err := s.googleTokenVerifier.Verify(ctx, googleToken, s.cfg.GoogleClientID)
	if err != nil {
		return "", fmt.Errorf("%w: invalid google token: %v", domain.ErrUnauthorized, err)
	}

	email := strings.ToLower(payload.Email)
	if !slices.Contains(s.cfg.AdminEmails, email) {
		return "", fmt.Errorf("%w: %s is not an administrator", domain.ErrUnauthorized, email)
	}

	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to get admin: %w", err)
	}
	if admin == nil {
		admin = &domain.Admin{
			ID:        uuid.New(),
			Email:     email,
			Name:      payload.Name,
			CreatedAt: s.clock.Now(),
		}
		if err := s.admins.Create(ctx, admin); err != nil {
			return "", fmt.Errorf("failed to create admin: %w", err)
		}
	}
	if err := s.admins.TouchLogin(ctx, admin.ID); err != nil {
		return "", fmt.Errorf("failed to record admin login: %w", err)
	}

	return s.issueToken(admin.ID, domain.RoleAdmin, s.cfg.AdminTokenTTL)
}

// AuthenticateVoter checks the live image against the citizen's reference image.
// Any verifier failure denies access.
func (s *authService) AuthenticateVoter(ctx context.Context, nid string, image []byte) (string, error) {
	nid = strings.TrimSpace(nid)
	if nid == "" || len(image) == 0 {
		return "", domain.NewValidationError("nid and image are required")
	}

	citizen, err := s.citizens.GetByNID(ctx, nid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("%w: unknown citizen", domain.ErrUnauthorized)
		}
		return "", err
	}

	match, err := s.identity.VerifyIdentity(ctx, citizen.ID, image)
	if err != nil {
		s.logger.Error("identity verification failed",
			"event", "identity_verification_failed",
			"module", "election/auth",
			"layer", "service",
			"citizen_id", citizen.ID,
			"error", err,
		)
		return "", fmt.Errorf("%w: identity could not be verified", domain.ErrUnauthorized)
	}
	if !match {
		s.logger.Warn("identity mismatch",
			"event", "identity_mismatch",
			"module", "election/auth",
			"layer", "service",
			"citizen_id", citizen.ID,
		)
		return "", fmt.Errorf("%w: identity could not be verified", domain.ErrUnauthorized)
	}

	return s.issueToken(citizen.ID, domain.RoleVoter, s.cfg.VoterTokenTTL)
}

func (s *authService) ParseToken(tokenString string) (*ports.SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return s.cfg.JWTSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: invalid claims", domain.ErrUnauthorized)
	}
	sub, _ := claims["sub"].(string)
	subject, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid subject", domain.ErrUnauthorized)
	}
	role, _ := claims["role"].(string)

	session := &ports.SessionClaims{Subject: subject, Role: domain.Role(role)}
	switch session.Role {
	case domain.RoleVoter:
		session.CitizenID = subject
	case domain.RoleAdmin:
	default:
		return nil, fmt.Errorf("%w: unknown role", domain.ErrUnauthorized)
	}
	return session, nil
}

func (s *authService) issueToken(subject uuid.UUID, role domain.Role, ttl time.Duration) (string, error) {
	now := s.clock.Now()
	claims := jwt.MapClaims{
		"sub":  subject.String(),
		"role": string(role),
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.cfg.JWTSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

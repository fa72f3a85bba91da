package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"audiovault"
	"audiovault/internal/policy"
	"audiovault/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	errNoCredential       = audiovault.E(audiovault.KindUnauthenticated, "authentication required")
	errInvalidToken       = audiovault.E(audiovault.KindUnauthenticated, "invalid token")
	errInvalidCredentials = audiovault.E(audiovault.KindUnauthenticated, "invalid credentials")
	errSubjectGone        = audiovault.E(audiovault.KindUnauthenticated, "account no longer exists")
)

// ClaimsValidator signs and verifies HS256 tokens carrying a subject id and expiry.
type ClaimsValidator struct {
	secret []byte
	now    func() time.Time
}

func NewClaimsValidator(secret string) *ClaimsValidator {
	return &ClaimsValidator{secret: []byte(secret), now: time.Now}
}

// Issue signs a token for subject that expires after ttl.
func (v *ClaimsValidator) Issue(subject string, ttl time.Duration) (string, error) {
	now := v.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	})
	return token.SignedString(v.secret)
}

// Validate checks signature and expiry and returns the subject id.
// Every failure is Unauthenticated.
func (v *ClaimsValidator) Validate(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", errNoCredential
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", audiovault.Wrap(audiovault.KindUnauthenticated, "token expired", err)
		}
		return "", audiovault.Wrap(audiovault.KindUnauthenticated, "invalid token", err)
	}
	if claims.Subject == "" {
		return "", errInvalidToken
	}
	return claims.Subject, nil
}

// AuthService handles login and per-request subject resolution.
type AuthService struct {
	users  repository.UserRepo
	claims *ClaimsValidator
	ttl    time.Duration
}

func NewAuthService(users repository.UserRepo, secret string, ttl time.Duration) *AuthService {
	return &AuthService{users: users, claims: NewClaimsValidator(secret), ttl: ttl}
}

// dummyHash keeps the bcrypt cost paid for unknown usernames.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("audiovault-dummy"), bcrypt.DefaultCost)

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", audiovault.E(audiovault.KindValidation, "username and password are required")
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, audiovault.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", errInvalidCredentials
		}
		return "", err
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", errInvalidCredentials
	}

	token, err := s.claims.Issue(u.ID, s.ttl)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Authenticate validates the token and loads the subject's current admin flag.
//
// Claims carry no revocation, but the subject row is read on every call: a
// token whose user has been deleted is rejected as Unauthenticated even before
// it expires, so a gone user cannot create rows owned by a missing id. Other
// account changes (admin flag) take effect on the next request.
func (s *AuthService) Authenticate(ctx context.Context, token string) (policy.Subject, error) {
	id, err := s.claims.Validate(token)
	if err != nil {
		return policy.Subject{}, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, audiovault.ErrNotFound) {
			return policy.Subject{}, errSubjectGone
		}
		return policy.Subject{}, err
	}
	return policy.Subject{ID: u.ID, IsAdmin: u.IsAdmin}, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", audiovault.E(audiovault.KindValidation, "password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", audiovault.E(audiovault.KindValidation, "password is too long")
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

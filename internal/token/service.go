package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/collabhub/collabhub-api/internal/repository"
)

var (
	// ErrExpiredToken is returned when a token's expiry has passed.
	ErrExpiredToken = errors.New("token has expired")
	// ErrInvalidToken is returned for any other decode, signature, or claim failure.
	ErrInvalidToken = errors.New("invalid token")
)

// Service issues and verifies HMAC-SHA256 session tokens and maintains the
// revocation list. The secret is fixed at construction time.
type Service struct {
	secret  []byte
	ttl     time.Duration
	skew    time.Duration
	revoked repository.RevokedTokenRepository
}

// NewService creates a token Service. skew is a small grace added on top of
// ttl when computing the expiry claim.
func NewService(secret []byte, ttl, skew time.Duration, revoked repository.RevokedTokenRepository) *Service {
	return &Service{
		secret:  secret,
		ttl:     ttl,
		skew:    skew,
		revoked: revoked,
	}
}

// Issue builds and signs a token for the user. Pure apart from the secret:
// the same inputs always produce the same token.
func (s *Service) Issue(userID string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl + s.skew)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the subject user ID. It
// fails closed: anything that does not fully verify is rejected.
func (s *Service) Verify(tokenStr string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Revoke adds the literal token string to the blacklist. Revoking the same
// token again is a no-op. The token's own expiry is captured so the sweeper
// knows when the row stops mattering; undecodable tokens are retained for the
// full TTL.
func (s *Service) Revoke(tokenStr string) error {
	expiresAt := time.Now().Add(s.ttl + s.skew)
	if exp := s.peekExpiry(tokenStr); exp != nil {
		expiresAt = *exp
	}
	return s.revoked.Create(tokenStr, expiresAt)
}

// IsRevoked reports whether the token is on the blacklist.
func (s *Service) IsRevoked(tokenStr string) (bool, error) {
	return s.revoked.Exists(tokenStr)
}

// PurgeExpired drops blacklist rows for tokens that have expired on their own.
func (s *Service) PurgeExpired(now time.Time) (int64, error) {
	return s.revoked.DeleteExpired(now)
}

// peekExpiry reads the expiry claim without verifying the signature. Only
// used to bound blacklist retention, never for authentication.
func (s *Service) peekExpiry(tokenStr string) *time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	return &claims.ExpiresAt.Time
}

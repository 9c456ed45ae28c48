// Package auth provides password hashing and JWT issuance, validation and
// revocation.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
	ErrRevokedToken = errors.New("token has been revoked")
)

// TokenType distinguishes short-lived access tokens from long-lived
// refresh tokens. A token of one type is never accepted where the other
// is expected.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims are the JWT claims carried by both token types. The RegisteredClaims
// ID field (jti) identifies the token for revocation.
type Claims struct {
	UserID    string    `json:"user_id"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is the access/refresh pair returned on login.
type TokenPair struct {
	Access  string
	Refresh string
}

// RevocationStore is the blacklist the token authority consults. Revoked
// token IDs are rejected by every subsequent validation.
type RevocationStore interface {
	RevokeToken(ctx context.Context, jti string) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// TokenManager issues and validates HS256-signed JWTs and owns the
// revocation blacklist.
type TokenManager struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	revoked    RevocationStore
}

// NewTokenManager creates a token manager with the given secret and token
// lifetimes. secretKey should be a strong random string (e.g. 32 bytes).
func NewTokenManager(secretKey string, accessTTL, refreshTTL time.Duration, revoked RevocationStore) *TokenManager {
	return &TokenManager{
		secretKey:  []byte(secretKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		revoked:    revoked,
	}
}

// Issue creates a new access/refresh token pair for the given user.
// Each token carries its own jti so it can be revoked independently.
func (m *TokenManager) Issue(userID string) (TokenPair, error) {
	access, err := m.sign(userID, TokenTypeAccess, m.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := m.sign(userID, TokenTypeRefresh, m.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (m *TokenManager) sign(userID string, tokenType TokenType, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Validate parses the token, checks the signature, expiry, expected type
// and the revocation blacklist, returning the claims if all pass.
func (m *TokenManager) Validate(ctx context.Context, tokenString string, want TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != want {
		return nil, ErrInvalidToken
	}

	revoked, err := m.revoked.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, ErrRevokedToken
	}

	return claims, nil
}

// Revoke validates the refresh token and adds its jti to the blacklist.
// Used by logout.
func (m *TokenManager) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := m.Validate(ctx, refreshToken, TokenTypeRefresh)
	if err != nil {
		return err
	}
	return m.revoked.RevokeToken(ctx, claims.ID)
}

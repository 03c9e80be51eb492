// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/phishguard/phishguard/internal/config"
)

// Claims represents JWT claims carried by Phishguard bearer tokens.
// UserID and Role are required; a verified token missing either is
// rejected as invalid.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	OrgID  string `json:"org_id,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager handles JWT token creation and validation.
//
// Security requirements:
//   - JWT secret must be at least 32 characters for production security
//   - Secret is stored as []byte to prevent string interning attacks
//   - Uses HS256 signing algorithm (HMAC with SHA-256)
type TokenManager struct {
	secret []byte
	expiry time.Duration
}

// NewTokenManager creates a token manager with the configured secret and expiry.
func NewTokenManager(cfg *config.SecurityConfig) (*TokenManager, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but was empty")
	}

	return &TokenManager{
		secret: []byte(secret),
		expiry: cfg.TokenExpiry,
	}, nil
}

// GenerateToken creates a signed JWT for an authenticated user.
//
// Token claims:
//   - user_id, email, org_id, role: the user's identity
//   - ExpiresAt: now + configured expiry
//   - IssuedAt, NotBefore: token creation timestamp
//
// Tokens are stateless and cannot be revoked before expiration.
func (m *TokenManager) GenerateToken(userID, email, orgID, role string) (string, error) {
	claims := &Claims{
		UserID: userID,
		Email:  email,
		OrgID:  orgID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateToken validates a JWT token and extracts the caller's identity.
//
// Validation steps:
//  1. Parse token structure and extract claims
//  2. Verify HMAC-SHA256 signature matches secret
//  3. Check signing algorithm is HMAC (prevents algorithm confusion attacks)
//  4. Verify expiration and NotBefore claims against server time
//  5. Require the user_id and role claims to be present
//
// The returned error describes the failure for logging; callers must not
// surface it to clients (all failures are reported as a single invalid-token
// denial).
func (m *TokenManager) ValidateToken(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if claims.UserID == "" {
		return nil, fmt.Errorf("token missing required user_id claim")
	}
	if claims.Role == "" {
		return nil, fmt.Errorf("token missing required role claim")
	}

	return &Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		OrgID:  claims.OrgID,
		Role:   claims.Role,
	}, nil
}

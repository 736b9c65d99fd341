package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"userdash/internal/clock"
)

// Token lifetimes of the mock sign-in
const (
	AccessTokenExpiry  = 7 * 24 * time.Hour
	RefreshTokenExpiry = 30 * 24 * time.Hour
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims of a session token
type Claims struct {
	Type  string `json:"type"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager handles JWT token generation and validation
type TokenManager struct {
	secret             []byte
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	clock              clock.Clock
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(secret string, clk clock.Clock) *TokenManager {
	if clk == nil {
		clk = clock.Real{}
	}
	return &TokenManager{
		secret:             []byte(secret),
		accessTokenExpiry:  AccessTokenExpiry,
		refreshTokenExpiry: RefreshTokenExpiry,
		clock:              clk,
	}
}

// GenerateAccessToken creates an access token with a unique id
func (tm *TokenManager) GenerateAccessToken(email string) (string, error) {
	return tm.generate(tokenTypeAccess, email, tm.accessTokenExpiry)
}

// GenerateRefreshToken creates a long-lived refresh token with a unique id
func (tm *TokenManager) GenerateRefreshToken(email string) (string, error) {
	return tm.generate(tokenTypeRefresh, email, tm.refreshTokenExpiry)
}

func (tm *TokenManager) generate(typ, email string, expiry time.Duration) (string, error) {
	now := tm.clock.Now()
	claims := &Claims{
		Type:  typ,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", typ, err)
	}
	return tokenString, nil
}

// ValidateAccessToken verifies an access token and returns its claims
func (tm *TokenManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return tm.validate(tokenString, tokenTypeAccess)
}

// ValidateRefreshToken verifies a refresh token and returns its claims
func (tm *TokenManager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return tm.validate(tokenString, tokenTypeRefresh)
}

func (tm *TokenManager) validate(tokenString, typ string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(tm.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Type != typ {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrInvalidToken, typ, claims.Type)
	}
	return claims, nil
}

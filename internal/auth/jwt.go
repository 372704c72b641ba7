// Package auth issues and verifies the HS256 access tokens of the API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of an access token
const DefaultTokenTTL = 7 * 24 * time.Hour

var (
	// ErrInvalidToken is returned for malformed, forged or expired tokens
	ErrInvalidToken = errors.New("invalid access token")

	// ErrEmptySecret is returned by NewTokenManager without a signing secret
	ErrEmptySecret = errors.New("jwt secret must not be empty")
)

// Claims are the registered claims carried by an access token.
// Subject holds the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenManager signs and verifies access tokens with a shared secret
type TokenManager struct {
	now    func() time.Time
	issuer string
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a TokenManager. A non-positive ttl uses DefaultTokenTTL.
func NewTokenManager(secret, issuer string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{
		now:    time.Now,
		issuer: issuer,
		secret: []byte(secret),
		ttl:    ttl,
	}, nil
}

// Issue returns a signed token for userID
func (m *TokenManager) Issue(userID string) (string, error) {
	now := m.now()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's signature, algorithm, issuer and expiry and
// returns the user id it was issued for
func (m *TokenManager) Verify(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of an admin session token and of its cookie.
const DefaultTokenTTL = 24 * time.Hour

var ErrEmptySecret = errors.New("token signing secret is empty")

// Claims is the signed session payload: the admin identity plus iat/exp.
type Claims struct {
	AdminID string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens. Nothing is stored
// server side, a token is valid as long as its signature and exp check out.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	// clock, replaceable in tests
	NowFunc func() time.Time
}

func NewTokenService(secret []byte, ttl time.Duration) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	return &TokenService{
		secret:  append([]byte(nil), secret...),
		ttl:     ttl,
		NowFunc: time.Now,
	}, nil
}

func (ts *TokenService) TTL() time.Duration {
	return ts.ttl
}

func (ts *TokenService) Issue(identity Identity) (string, error) {
	now := ts.NowFunc()
	claims := Claims{
		AdminID: identity.ID,
		Email:   identity.Email,
		Name:    identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify returns the identity carried by token. Any failure (empty, malformed,
// tampered, foreign secret or algorithm, missing or passed exp) gives false.
func (ts *TokenService) Verify(token string) (*Identity, bool) {
	if token == "" {
		return nil, false
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (interface{}, error) {
			return ts.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(ts.NowFunc),
	)
	if err != nil || !parsed.Valid {
		return nil, false
	}

	return &Identity{
		ID:    claims.AdminID,
		Email: claims.Email,
		Name:  claims.Name,
	}, true
}

// TruncateToken shortens a token for log lines, a full token is a usable credential.
func TruncateToken(token string) string {
	const keep = 8
	if len(token) <= keep {
		return "***"
	}
	return token[:keep] + "..."
}

package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vetpoint/backend/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// Tokens mints and validates the HS256 session tokens handed to the
// mobile client after sign-in.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

type SessionClaims struct {
	UserID string
	Role   domain.Role
}

func (t *Tokens) Mint(userID string, role domain.Role) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"exp":  time.Now().Add(t.ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *Tokens) Parse(raw string) (SessionClaims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return SessionClaims{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return SessionClaims{}, ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	return SessionClaims{UserID: sub, Role: domain.Role(role)}, nil
}

// Package token issues and decodes the self-contained bearer tokens used
// for authentication. Validity is purely a function of signature and
// expiry; no server-side session state exists.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"eventvault/pkg/domain"
)

// Decode failures, distinguishable so the boundary can report a stable
// error code for each.
var (
	ErrExpired      = errors.New("token expired")
	ErrBadSignature = errors.New("token signature invalid")
	ErrMalformed    = errors.New("token malformed")
)

// Details describes an issued token.
type Details struct {
	UserID    int64     `json:"user_id"`
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 tokens with a single shared secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a codec from the configured signing secret and token
// lifetime.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token signing secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &Codec{secret: []byte(secret), ttl: ttl}, nil
}

// Issue signs a token binding the user id and role with an expiry.
func (c *Codec) Issue(userID int64, role domain.Role) (Details, error) {
	now := time.Now().UTC()
	exp := now.Add(c.ttl)
	cl := claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(c.secret)
	if err != nil {
		return Details{}, fmt.Errorf("sign token: %w", err)
	}
	return Details{UserID: userID, Token: signed, IssuedAt: now, ExpiresAt: exp}, nil
}

// Decode verifies signature and expiry and reconstructs the principal.
// Failures map to ErrExpired, ErrBadSignature, or ErrMalformed.
func (c *Codec) Decode(tokenString string) (domain.Principal, error) {
	var cl claims
	parsed, err := jwt.ParseWithClaims(tokenString, &cl, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return domain.Principal{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return domain.Principal{}, ErrBadSignature
		default:
			return domain.Principal{}, ErrMalformed
		}
	}
	if !parsed.Valid {
		return domain.Principal{}, ErrMalformed
	}
	userID, err := strconv.ParseInt(cl.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return domain.Principal{}, ErrMalformed
	}
	role := domain.Role(cl.Role)
	switch role {
	case domain.RoleUser, domain.RoleModerator, domain.RoleAdmin:
	default:
		return domain.Principal{}, ErrMalformed
	}
	return domain.Principal{ID: userID, Role: role}, nil
}

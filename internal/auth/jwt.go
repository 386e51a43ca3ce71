// Package auth issues and validates the session tokens handed out at
// signup/login. Tokens are stateless HS256 JWTs, so no session state is
// kept server-side.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Janriisasi/hanceai/internal/model"
)

// TokenGenerator abstracts token creation so services stay framework-agnostic.
type TokenGenerator interface {
	Generate(user model.User) (string, error)
}

type Generator struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewGenerator(secret, issuer string, ttl time.Duration) *Generator {
	return &Generator{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Claims carries the registered claim set plus the account's display name,
// so the client can greet the user without an extra round trip.
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}

func (g *Generator) Generate(user model.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
		Name: user.Name,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.secret)
}

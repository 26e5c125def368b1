package api

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenProvider supplies the learner's bearer token. It is called right
// before every authenticated request; implementations decide whether to
// cache. An empty token means nobody is signed in.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed token, typically from configuration.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// TokenFunc adapts a function to TokenProvider.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// NoToken is the provider used when no learner is signed in.
var NoToken TokenProvider = StaticToken("")

// Claims is what the client reads from a bearer token. The signature is
// not verified; the backend does that.
type Claims struct {
	Subject   string
	Issuer    string
	Email     string
	ExpiresAt time.Time // zero when the token has no exp claim
}

// Expired reports whether the token is past its expiry at now.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseClaims decodes the claims of a JWT without verifying it.
func ParseClaims(token string) (*Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	var c Claims
	c.Subject, _ = mc.GetSubject()
	c.Issuer, _ = mc.GetIssuer()
	if email, ok := mc["email"].(string); ok {
		c.Email = email
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return &c, nil
}

// Authenticated reports whether tp currently yields a usable token. Opaque
// (non-JWT) tokens count as usable; JWTs must not be expired.
func Authenticated(ctx context.Context, tp TokenProvider, now time.Time) bool {
	if tp == nil {
		return false
	}
	tok, err := tp.Token(ctx)
	if err != nil || tok == "" {
		return false
	}
	claims, err := ParseClaims(tok)
	if err != nil {
		return true
	}
	return !claims.Expired(now)
}

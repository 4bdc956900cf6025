package userauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the structured claims carried by a bearer token
type AuthClaims interface {
	Subject() string
	UserID() string
	Role() string
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid,omitempty"`
	UserRole string `json:"role,omitempty"`
}

var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Role returns the role label embedded at issuance. The role is computed
// once at login; a default is applied when the identity carried none.
func (c *JWTClaims) Role() string {
	if c.UserRole == "" {
		return DefaultRole
	}
	return c.UserRole
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// PrincipalFromClaims builds the request scoped principal out of validated
// claims. Claims are only ever handed out by the token service after the
// signature and expiry checks passed.
func PrincipalFromClaims(claims AuthClaims) Principal {
	p := Principal{
		Subject: claims.UserID(),
		Role:    claims.Role(),
	}

	if iat := claims.IssuedAt(); !iat.IsZero() {
		p.IssuedAt = &iat
	}

	if exp := claims.Expires(); !exp.IsZero() {
		p.Expires = &exp
	}

	return p
}

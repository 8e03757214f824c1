package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the full claim set of an issued token: subject, issued-at
// and expiry. Role is deliberately absent so that a role change in the store
// takes effect on the very next request without re-issuing the token.
type AccessClaims struct {
	jwt.RegisteredClaims
}

// Login returns the subject, which is always a login.
func (c *AccessClaims) Login() string {
	return c.RegisteredClaims.Subject
}

// Expires returns the expiration time
func (c *AccessClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// Issued returns the issued at time
func (c *AccessClaims) Issued() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

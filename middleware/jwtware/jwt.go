// Package jwtware is the per-request bearer token filter of the stateless
// API pipeline. It never rejects a request itself: a missing, malformed or
// expired token simply leaves the request unauthenticated and the route
// authorization guard decides later whether that is acceptable.
package jwtware

import (
	"strings"

	"github.com/formation-app/centre-server/auth"
	"github.com/gofiber/fiber/v2"
)

var defaultAuthScheme = "Bearer"

// Config holds the filter configuration.
type Config struct {
	// PublicPrefixes short-circuits the filter for always public paths
	// (auth and diagnostic endpoints).
	PublicPrefixes []string

	// TokenService verifies tokens and extracts subjects.
	TokenService auth.TokenService

	// Resolver loads the account behind a token subject. Only the login
	// strategy is consulted: token subjects are always logins, never emails.
	Resolver auth.IdentityResolver

	// ContextKey is the fiber locals key the principal is stored under.
	ContextKey string

	// AuthScheme of the Authorization header, Bearer by default.
	AuthScheme string

	Logger auth.Logger
}

func (cfg *Config) setDefaults() {
	if cfg.ContextKey == "" {
		cfg.ContextKey = "principal"
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = defaultAuthScheme
	}
	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}
	if cfg.TokenService == nil {
		panic("AUTH: jwt filter configuration: TokenService is required.")
	}
	if cfg.Resolver == nil {
		panic("AUTH: jwt filter configuration: Resolver is required.")
	}
}

// New builds the filter. Branches are terminal: the first one that matches
// decides the request's authentication state and passes control on.
func New(config Config) fiber.Handler {
	cfg := config
	cfg.setDefaults()

	return func(c *fiber.Ctx) error {
		if isPublicPath(c.Path(), cfg.PublicPrefixes) {
			return c.Next()
		}

		raw, ok := extractBearer(c.Get(fiber.HeaderAuthorization), cfg.AuthScheme)
		if !ok {
			return c.Next()
		}

		subject, err := cfg.TokenService.ExtractSubject(raw)
		if err != nil {
			// Invalid tokens are not an error at this stage; the guard
			// rejects later if the route requires authentication.
			cfg.Logger.Debug("jwt filter dropped token", "error", err)
			return c.Next()
		}

		// A principal attached earlier in the chain wins; never overwrite.
		if c.Locals(cfg.ContextKey) != nil {
			return c.Next()
		}

		res, err := cfg.Resolver.ResolveLogin(c.UserContext(), subject)
		if err != nil {
			cfg.Logger.Debug("jwt filter could not resolve subject", "subject", subject, "error", err)
			return c.Next()
		}

		if err := cfg.TokenService.Validate(raw, res.User.Login); err != nil {
			cfg.Logger.Debug("jwt filter token validation failed", "subject", subject, "error", err)
			return c.Next()
		}

		principal := &auth.Principal{User: res.User, Source: res.Source}
		c.Locals(cfg.ContextKey, principal)
		c.SetUserContext(auth.WithPrincipal(c.UserContext(), principal))

		return c.Next()
	}
}

// PrincipalFromCtx returns the principal the filter attached, if any.
func PrincipalFromCtx(c *fiber.Ctx, contextKey string) (*auth.Principal, bool) {
	if contextKey == "" {
		contextKey = "principal"
	}
	raw := c.Locals(contextKey)
	if raw == nil {
		return nil, false
	}
	p, ok := raw.(*auth.Principal)
	return p, ok
}

// isPublicPath matches on segment boundaries, so /api/auth covers
// /api/auth/login but not /api/authx.
func isPublicPath(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func extractBearer(header, authScheme string) (string, bool) {
	if header == "" {
		return "", false
	}
	l := len(authScheme)
	if len(header) > l+1 && strings.EqualFold(header[:l], authScheme) {
		return strings.TrimSpace(header[l:]), true
	}
	return "", false
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

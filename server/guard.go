package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/formation-app/centre-server/auth"
	"github.com/formation-app/centre-server/model"
)

// RouteRule maps a path prefix to the set of roles allowed through. An
// empty role set marks the prefix public. Rules are evaluated in order,
// first prefix match wins, so narrower prefixes go first.
type RouteRule struct {
	Prefix string
	Roles  []model.UserRole
}

// Public reports whether the rule lets unauthenticated requests pass.
func (r RouteRule) Public() bool {
	return len(r.Roles) == 0
}

func (r RouteRule) matches(path string) bool {
	if path == r.Prefix {
		return true
	}
	return strings.HasPrefix(path, r.Prefix+"/")
}

func (r RouteRule) allows(role model.UserRole) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// APIRules is the authorization table of the stateless API surface.
func APIRules() []RouteRule {
	return []RouteRule{
		{Prefix: "/api/auth"},
		{Prefix: "/api/diagnostic"},
		{Prefix: "/api/etudiants", Roles: model.AllRoles()},
		{Prefix: "/api/cours", Roles: model.AllRoles()},
		{Prefix: "/api/groupes", Roles: model.AllRoles()},
		{Prefix: "/api/inscriptions", Roles: model.AllRoles()},
		{Prefix: "/api/seances", Roles: model.AllRoles()},
		{Prefix: "/api/notes", Roles: model.AllRoles()},
		{Prefix: "/api/formateurs", Roles: []model.UserRole{model.RoleAdmin, model.RoleFormateur}},
		{Prefix: "/api/statistiques/rapport-notes", Roles: model.AllRoles()},
		{Prefix: "/api/statistiques", Roles: []model.UserRole{model.RoleAdmin, model.RoleFormateur}},
		{Prefix: "/api", Roles: model.AllRoles()},
	}
}

// WebRules is the authorization table of the session admin surface.
func WebRules() []RouteRule {
	return []RouteRule{
		{Prefix: "/login"},
		{Prefix: "/logout"},
		{Prefix: "/admin", Roles: []model.UserRole{model.RoleAdmin}},
	}
}

// PrincipalFunc extracts the authenticated principal, or nil when the
// request carries none.
type PrincipalFunc func(c *fiber.Ctx) *auth.Principal

// GuardConfig configures a role guard instance.
type GuardConfig struct {
	Rules     []RouteRule
	Principal PrincipalFunc
	// Unauthenticated handles requests with no principal on a
	// protected route. Defaults to a JSON 401.
	Unauthenticated fiber.Handler
	// Forbidden handles requests whose principal lacks the required
	// role. Defaults to a JSON 403.
	Forbidden fiber.Handler
	Logger    auth.Logger
}

// NewGuard builds the route authorization middleware. Paths not covered
// by any rule are rejected as unauthenticated, the table is a whitelist.
func NewGuard(cfg GuardConfig) fiber.Handler {
	if cfg.Principal == nil {
		panic("guard: Principal extractor is required")
	}

	if cfg.Unauthenticated == nil {
		cfg.Unauthenticated = func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
	}

	if cfg.Forbidden == nil {
		cfg.Forbidden = func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden",
			})
		}
	}

	if cfg.Logger == nil {
		cfg.Logger = auth.DefaultLogger()
	}

	return func(c *fiber.Ctx) error {
		path := c.Path()

		var rule *RouteRule
		for i := range cfg.Rules {
			if cfg.Rules[i].matches(path) {
				rule = &cfg.Rules[i]
				break
			}
		}

		if rule != nil && rule.Public() {
			return c.Next()
		}

		principal := cfg.Principal(c)
		if principal == nil {
			return cfg.Unauthenticated(c)
		}

		if rule == nil {
			cfg.Logger.Warn("no authorization rule for path", "path", path)
			return cfg.Unauthenticated(c)
		}

		if !rule.allows(principal.Role()) {
			cfg.Logger.Debug("role not allowed",
				"path", path,
				"login", principal.Login(),
				"role", principal.Role(),
			)
			return cfg.Forbidden(c)
		}

		return c.Next()
	}
}

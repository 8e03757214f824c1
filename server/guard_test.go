package server

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formation-app/centre-server/auth"
	"github.com/formation-app/centre-server/model"
)

// newGuardApp mounts the guard in front of a catch-all handler and
// resolves the principal from a test header so each request can pick
// its own role.
func newGuardApp(rules []RouteRule) *fiber.App {
	app := fiber.New()

	app.Use(NewGuard(GuardConfig{
		Rules: rules,
		Principal: func(c *fiber.Ctx) *auth.Principal {
			role := c.Get("X-Test-Role")
			if role == "" {
				return nil
			}
			return &auth.Principal{
				User: &model.User{Login: "tester", Role: model.UserRole(role)},
			}
		},
	}))

	app.All("/*", func(c *fiber.Ctx) error {
		return c.SendString("reached")
	})

	return app
}

func guardRequest(t *testing.T, app *fiber.App, path string, role model.UserRole) (int, string) {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	if role != "" {
		req.Header.Set("X-Test-Role", string(role))
	}

	res, err := app.Test(req)
	require.NoError(t, err)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return res.StatusCode, string(body)
}

func TestGuardAPIRules(t *testing.T) {
	app := newGuardApp(APIRules())

	cases := []struct {
		name string
		path string
		role model.UserRole
		code int
	}{
		{"auth is public", "/api/auth/login", "", 200},
		{"diagnostic is public", "/api/diagnostic/health", "", 200},
		{"etudiants needs a principal", "/api/etudiants", "", 401},
		{"etudiants admin", "/api/etudiants", model.RoleAdmin, 200},
		{"etudiants trainer", "/api/etudiants", model.RoleFormateur, 200},
		{"etudiants student", "/api/etudiants/42", model.RoleEtudiant, 200},
		{"formateurs admin", "/api/formateurs", model.RoleAdmin, 200},
		{"formateurs trainer", "/api/formateurs", model.RoleFormateur, 200},
		{"formateurs student denied", "/api/formateurs", model.RoleEtudiant, 403},
		{"statistiques student denied", "/api/statistiques", model.RoleEtudiant, 403},
		{"statistiques moyennes student denied", "/api/statistiques/moyennes-cours", model.RoleEtudiant, 403},
		{"rapport-notes student allowed", "/api/statistiques/rapport-notes/42", model.RoleEtudiant, 200},
		{"rapport-notes admin allowed", "/api/statistiques/rapport-notes/42", model.RoleAdmin, 200},
		{"api fallback authenticated", "/api/autre", model.RoleEtudiant, 200},
		{"api fallback anonymous", "/api/autre", "", 401},
		{"uncovered path anonymous", "/metrics", "", 401},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := guardRequest(t, app, tc.path, tc.role)
			assert.Equal(t, tc.code, code)

			switch tc.code {
			case 200:
				assert.Equal(t, "reached", body)
			case 401:
				var payload map[string]string
				require.NoError(t, json.Unmarshal([]byte(body), &payload))
				assert.Equal(t, "Unauthorized", payload["error"])
			case 403:
				var payload map[string]string
				require.NoError(t, json.Unmarshal([]byte(body), &payload))
				assert.Equal(t, "Forbidden", payload["error"])
			}
		})
	}
}

func TestGuardWebRules(t *testing.T) {
	app := newGuardApp(WebRules())

	code, body := guardRequest(t, app, "/login", "")
	assert.Equal(t, 200, code)
	assert.Equal(t, "reached", body)

	code, _ = guardRequest(t, app, "/logout", "")
	assert.Equal(t, 200, code)

	code, _ = guardRequest(t, app, "/admin/dashboard", "")
	assert.Equal(t, 401, code)

	code, _ = guardRequest(t, app, "/admin/dashboard", model.RoleAdmin)
	assert.Equal(t, 200, code)

	code, _ = guardRequest(t, app, "/admin/dashboard", model.RoleEtudiant)
	assert.Equal(t, 403, code)
}

// The rapport-notes rule has to sit before the generic statistiques
// rule, otherwise students lose access to their own transcript.
func TestGuardRuleOrderIsSignificant(t *testing.T) {
	rules := APIRules()

	var rapport, stats int
	for i, r := range rules {
		switch r.Prefix {
		case "/api/statistiques/rapport-notes":
			rapport = i
		case "/api/statistiques":
			stats = i
		}
	}

	assert.Less(t, rapport, stats)
}

func TestGuardCustomHandlers(t *testing.T) {
	app := fiber.New()

	app.Use(NewGuard(GuardConfig{
		Rules: []RouteRule{{Prefix: "/private", Roles: []model.UserRole{model.RoleAdmin}}},
		Principal: func(c *fiber.Ctx) *auth.Principal {
			return nil
		},
		Unauthenticated: func(c *fiber.Ctx) error {
			return c.Redirect("/login")
		},
	}))
	app.Get("/private", func(c *fiber.Ctx) error { return c.SendString("reached") })

	res, err := app.Test(httptest.NewRequest("GET", "/private", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, res.StatusCode)
	assert.Equal(t, "/login", res.Header.Get("Location"))
}

func TestGuardRequiresPrincipalExtractor(t *testing.T) {
	assert.Panics(t, func() {
		NewGuard(GuardConfig{Rules: APIRules()})
	})
}

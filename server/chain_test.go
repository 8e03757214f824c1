package server

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixMatches(t *testing.T) {
	p := Prefix("/api")

	assert.True(t, p.Matches("/api"))
	assert.True(t, p.Matches("/api/etudiants"))
	assert.True(t, p.Matches("/api/etudiants/42"))
	assert.False(t, p.Matches("/apidocs"))
	assert.False(t, p.Matches("/ap"))
	assert.False(t, p.Matches("/admin"))
}

func TestExactMatches(t *testing.T) {
	e := Exact("/login")

	assert.True(t, e.Matches("/login"))
	assert.False(t, e.Matches("/login/"))
	assert.False(t, e.Matches("/login/reset"))
	assert.False(t, e.Matches("/logout"))
}

func TestMatcherOverlaps(t *testing.T) {
	cases := []struct {
		name    string
		a, b    Matcher
		overlap bool
	}{
		{"nested prefixes", Prefix("/api"), Prefix("/api/auth"), true},
		{"sibling prefixes", Prefix("/api"), Prefix("/admin"), false},
		{"prefix shadowing similar name", Prefix("/api"), Prefix("/apidocs"), false},
		{"exact inside prefix", Prefix("/admin"), Exact("/admin/dashboard"), true},
		{"exact outside prefix", Prefix("/admin"), Exact("/login"), false},
		{"same exact", Exact("/login"), Exact("/login"), true},
		{"distinct exacts", Exact("/login"), Exact("/logout"), false},
		{"catch-all swallows prefix", CatchAll{}, Prefix("/api"), true},
		{"catch-all swallows exact", Exact("/login"), CatchAll{}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlap, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.overlap, tc.b.Overlaps(tc.a))
		})
	}
}

func TestChainSelectFirstMatch(t *testing.T) {
	api := &Pipeline{Name: "api"}
	web := &Pipeline{Name: "web"}
	pub := &Pipeline{Name: "public"}

	chain := NewChain().
		Handle(Prefix("/api"), api).
		Handle(Prefix("/admin"), web).
		Handle(Exact("/login"), web).
		Handle(CatchAll{}, pub)

	require.NoError(t, chain.Validate())

	cases := []struct {
		path string
		want *Pipeline
	}{
		{"/api/etudiants", api},
		{"/api", api},
		{"/admin/dashboard", web},
		{"/login", web},
		{"/login/extra", pub},
		{"/", pub},
		{"/anything", pub},
	}

	for _, tc := range cases {
		got, ok := chain.Select(tc.path)
		require.True(t, ok, tc.path)
		assert.Same(t, tc.want, got, tc.path)
	}
}

func TestChainValidateRejectsOverlap(t *testing.T) {
	api := &Pipeline{Name: "api"}
	auth := &Pipeline{Name: "auth"}

	chain := NewChain().
		Handle(Prefix("/api"), api).
		Handle(Prefix("/api/auth"), auth)

	err := chain.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlap")
	assert.Contains(t, err.Error(), "api")
	assert.Contains(t, err.Error(), "auth")
}

func TestChainValidateCatchAllMustBeLast(t *testing.T) {
	pub := &Pipeline{Name: "public"}
	api := &Pipeline{Name: "api"}

	chain := NewChain().
		Handle(CatchAll{}, pub).
		Handle(Prefix("/api"), api)

	err := chain.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "final entry")
}

// The production route table must stay pairwise disjoint. This pins the
// startup assertion on the real matcher set.
func TestProductionChainIsDisjoint(t *testing.T) {
	p := &Pipeline{Name: "noop"}

	chain := NewChain().
		Handle(Prefix("/db-console"), p).
		Handle(Prefix("/api"), p).
		Handle(Prefix("/admin"), p).
		Handle(Exact("/login"), p).
		Handle(Exact("/logout"), p).
		Handle(CatchAll{}, p)

	require.NoError(t, chain.Validate())
}

func TestChainApplyScopesMiddleware(t *testing.T) {
	app := fiber.New()

	tag := func(name string) fiber.Handler {
		return func(c *fiber.Ctx) error {
			c.Set("X-Pipeline", name)
			return c.Next()
		}
	}

	api := &Pipeline{
		Name:       "api",
		Middleware: []fiber.Handler{tag("api")},
		Register: func(r fiber.Router) {
			r.Get("/api/ping", func(c *fiber.Ctx) error {
				return c.SendString("api pong")
			})
		},
	}
	pub := &Pipeline{
		Name:       "public",
		Middleware: []fiber.Handler{tag("public")},
		Register: func(r fiber.Router) {
			r.Get("/ping", func(c *fiber.Ctx) error {
				return c.SendString("pong")
			})
		},
	}

	chain := NewChain().
		Handle(Prefix("/api"), api).
		Handle(CatchAll{}, pub)

	require.NoError(t, chain.Apply(app))

	res, err := app.Test(httptest.NewRequest("GET", "/api/ping", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	assert.Equal(t, "api pong", string(body))
	assert.Equal(t, "api", res.Header.Get("X-Pipeline"))

	res, err = app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	body, _ = io.ReadAll(res.Body)
	assert.Equal(t, "pong", string(body))
	assert.Equal(t, "public", res.Header.Get("X-Pipeline"))
}

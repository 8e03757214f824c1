package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/formation-app/centre-server/auth"
	"github.com/formation-app/centre-server/repository"
	"github.com/formation-app/centre-server/service"
)

const (
	sessionLoginKey = "login"
	webPrincipalKey = "web:principal"
)

// WebController is the session based admin surface: form login, admin
// dashboard and logout. It never touches bearer tokens.
type WebController struct {
	auther   auth.Authenticator
	repos    repository.Manager
	stats    *service.Statistics
	store    *session.Store
	registry *SessionRegistry
	logger   auth.Logger
}

func NewWebController(auther auth.Authenticator, repos repository.Manager, stats *service.Statistics, logger auth.Logger) *WebController {
	store := session.New(session.Config{
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		Expiration:     8 * time.Hour,
	})

	return &WebController{
		auther:   auther,
		repos:    repos,
		stats:    stats,
		store:    store,
		registry: NewSessionRegistry(),
		logger:   logger,
	}
}

// CSRF returns the csrf middleware of the web pipeline. Form posts carry
// the token in the _csrf field; safe methods pass through.
func (wc *WebController) CSRF() fiber.Handler {
	return csrf.New(csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
	})
}

// Authenticate resolves the session principal and attaches it to the
// request. Like the bearer filter on the API side it never rejects; the
// route guard decides afterwards whether anonymous is acceptable.
func (wc *WebController) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if principal := wc.sessionPrincipal(c); principal != nil {
			c.Locals(webPrincipalKey, principal)
			c.SetUserContext(auth.WithPrincipal(c.UserContext(), principal))
		}
		return c.Next()
	}
}

// Principal returns the session principal attached by Authenticate, nil
// for anonymous requests.
func (wc *WebController) Principal(c *fiber.Ctx) *auth.Principal {
	principal, _ := c.Locals(webPrincipalKey).(*auth.Principal)
	return principal
}

// sessionPrincipal loads the account behind the session cookie. A
// session superseded by a newer login, or whose account vanished, is
// destroyed on sight.
func (wc *WebController) sessionPrincipal(c *fiber.Ctx) *auth.Principal {
	sess, err := wc.store.Get(c)
	if err != nil {
		return nil
	}

	login, ok := sess.Get(sessionLoginKey).(string)
	if !ok || login == "" {
		return nil
	}

	if !wc.registry.Current(login, sess.ID()) {
		_ = sess.Destroy()
		return nil
	}

	user, err := wc.repos.Users().GetByLogin(c.UserContext(), login)
	if err != nil {
		_ = sess.Destroy()
		return nil
	}

	return &auth.Principal{User: user, Source: auth.ResolvedByLogin}
}

func (wc *WebController) Register(app fiber.Router) {
	app.Get("/login", wc.LoginShow)
	app.Post("/login", wc.LoginPost)
	app.Post("/logout", wc.Logout)

	app.Get("/admin", func(c *fiber.Ctx) error {
		return c.Redirect("/admin/dashboard", fiber.StatusFound)
	})
	app.Get("/admin/dashboard", wc.Dashboard)
	app.Get("/admin/etudiants", wc.EtudiantsPage)
	app.Get("/admin/formateurs", wc.FormateursPage)
	app.Get("/admin/groupes", wc.GroupesPage)
}

func (wc *WebController) LoginShow(c *fiber.Ctx) error {
	if wc.Principal(c) != nil {
		return c.Redirect("/admin/dashboard", fiber.StatusFound)
	}

	return c.Render("login", fiber.Map{
		"Title":  "Connexion",
		"Error":  c.Query("error") == "true",
		"Logout": c.Query("logout") == "true",
		"CSRF":   c.Locals("csrf"),
	})
}

// LoginPost authenticates the form credentials and rotates the single
// live session of the principal. Any failure redirects back with the
// error flag, nothing more specific ever reaches the browser.
func (wc *WebController) LoginPost(c *fiber.Ctx) error {
	login := c.FormValue("login")
	password := c.FormValue("password")

	result, err := wc.auther.Login(c.UserContext(), login, password)
	if err != nil {
		return c.Redirect("/login?error=true", fiber.StatusFound)
	}

	sess, err := wc.store.Get(c)
	if err != nil {
		wc.logger.Error("web login session open failed", "error", err)
		return c.Redirect("/login?error=true", fiber.StatusFound)
	}

	// Fresh session id on login, the old cookie must not survive
	// authentication.
	if err := sess.Regenerate(); err != nil {
		wc.logger.Error("web login session regenerate failed", "error", err)
		return c.Redirect("/login?error=true", fiber.StatusFound)
	}

	sess.Set(sessionLoginKey, result.User.Login)
	if err := sess.Save(); err != nil {
		wc.logger.Error("web login session save failed", "error", err)
		return c.Redirect("/login?error=true", fiber.StatusFound)
	}

	if previous := wc.registry.Bind(result.User.Login, sess.ID()); previous != "" {
		wc.logger.Info("superseded previous web session", "login", result.User.Login)
	}

	return c.Redirect("/admin/dashboard", fiber.StatusFound)
}

func (wc *WebController) Logout(c *fiber.Ctx) error {
	sess, err := wc.store.Get(c)
	if err == nil {
		if login, ok := sess.Get(sessionLoginKey).(string); ok {
			wc.registry.Release(login, sess.ID())
		}
		if err := sess.Destroy(); err != nil {
			wc.logger.Error("web logout session destroy failed", "error", err)
		}
	}

	return c.Redirect("/login?logout=true", fiber.StatusFound)
}

func (wc *WebController) Dashboard(c *fiber.Ctx) error {
	overview, err := wc.stats.Overview(c.UserContext())
	if err != nil {
		wc.logger.Error("dashboard overview failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).Render("errors/500", fiber.Map{
			"Title": "Erreur",
		})
	}

	return c.Render("admin/dashboard", fiber.Map{
		"Title":    "Tableau de bord",
		"Overview": overview,
		"CSRF":     c.Locals("csrf"),
	})
}

func (wc *WebController) EtudiantsPage(c *fiber.Ctx) error {
	records, err := wc.repos.Etudiants().List(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).Render("errors/500", fiber.Map{
			"Title": "Erreur",
		})
	}

	return c.Render("admin/etudiants", fiber.Map{
		"Title":     "Etudiants",
		"Etudiants": records,
	})
}

func (wc *WebController) FormateursPage(c *fiber.Ctx) error {
	records, err := wc.repos.Formateurs().List(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).Render("errors/500", fiber.Map{
			"Title": "Erreur",
		})
	}

	return c.Render("admin/formateurs", fiber.Map{
		"Title":      "Formateurs",
		"Formateurs": records,
	})
}

func (wc *WebController) GroupesPage(c *fiber.Ctx) error {
	records, err := wc.repos.Groupes().List(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).Render("errors/500", fiber.Map{
			"Title": "Erreur",
		})
	}

	return c.Render("admin/groupes", fiber.Map{
		"Title":   "Groupes",
		"Groupes": records,
	})
}

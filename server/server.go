package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"
	"github.com/uptrace/bun"

	"github.com/formation-app/centre-server/auth"
	"github.com/formation-app/centre-server/config"
	"github.com/formation-app/centre-server/middleware/jwtware"
	"github.com/formation-app/centre-server/repository"
	"github.com/formation-app/centre-server/service"
)

// Version is stamped at build time.
var Version = "dev"

// Options configures the server beyond what the environment provides.
type Options struct {
	// ViewsDir overrides the template directory, ./views by default.
	ViewsDir string
	Logger   auth.Logger
}

// Server owns the fiber app and the wired pipelines.
type Server struct {
	app    *fiber.App
	cfg    *config.Config
	logger auth.Logger
}

// New wires the whole request surface: the four pipelines, the chain
// routing between them and the controllers behind each one.
func New(cfg *config.Config, db *bun.DB, repos repository.Manager, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = auth.DefaultLogger()
	}

	viewsDir := opts.ViewsDir
	if viewsDir == "" {
		viewsDir = "./views"
	}

	engine := django.New(viewsDir, ".django")

	app := fiber.New(fiber.Config{
		AppName:               "centre-server",
		Views:                 engine,
		DisableStartupMessage: !cfg.Debug,
		ErrorHandler:          errorHandler(logger),
	})

	tokens := auth.NewTokenServiceFromConfig(cfg, logger)
	resolver := auth.NewResolver(repos.Users(), repos.Etudiants(), repos.Formateurs()).WithLogger(logger)
	auther := auth.NewAuthenticator(resolver, tokens).WithLogger(logger)

	provisioner := service.NewProvisioner(repos).WithLogger(logger)
	accounts := service.NewAccounts(repos).WithLogger(logger)
	stats := service.NewStatistics(repos)

	authAPI := NewAuthController(auther, accounts, repos, logger)
	profiles := NewProfileController(repos, provisioner, logger)
	cours := NewCoursController(repos, logger)
	groupes := NewGroupeController(repos, logger)
	scolarite := NewScolariteController(repos, logger)
	statistiques := NewStatistiquesController(stats, service.NewTextRenderer(), repos, cfg.GetContextKey(), logger)
	diagnostic := NewDiagnosticController(db, Version, logger)
	web := NewWebController(auther, repos, stats, logger)

	jwtFilter := jwtware.New(jwtware.Config{
		PublicPrefixes: []string{"/api/auth", "/api/diagnostic"},
		TokenService:   tokens,
		Resolver:       resolver,
		ContextKey:     cfg.GetContextKey(),
		AuthScheme:     cfg.GetAuthScheme(),
		Logger:         logger,
	})

	apiGuard := NewGuard(GuardConfig{
		Rules: APIRules(),
		Principal: func(c *fiber.Ctx) *auth.Principal {
			p, ok := jwtware.PrincipalFromCtx(c, cfg.GetContextKey())
			if !ok {
				return nil
			}
			return p
		},
		Logger: logger,
	})

	diagnosticPipeline := &Pipeline{
		Name:     "diagnostic",
		Register: diagnostic.RegisterConsole,
	}

	apiPipeline := &Pipeline{
		Name:       "api",
		Middleware: []fiber.Handler{jwtFilter, apiGuard},
		Register: func(r fiber.Router) {
			authAPI.Register(r)
			profiles.Register(r)
			cours.Register(r)
			groupes.Register(r)
			scolarite.Register(r)
			statistiques.Register(r)
			diagnostic.RegisterAPI(r)
		},
	}

	webGuard := NewGuard(GuardConfig{
		Rules:     WebRules(),
		Principal: web.Principal,
		Unauthenticated: func(c *fiber.Ctx) error {
			return c.Redirect("/login", fiber.StatusFound)
		},
		Forbidden: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusForbidden).Render("errors/403", fiber.Map{
				"Title": "Acces refuse",
			})
		},
		Logger: logger,
	})

	webPipeline := &Pipeline{
		Name:       "web",
		Middleware: []fiber.Handler{web.CSRF(), web.Authenticate(), webGuard},
		Register:   web.Register,
	}

	publicPipeline := &Pipeline{
		Name: "public",
		Register: func(r fiber.Router) {
			r.Get("/", func(c *fiber.Ctx) error {
				return c.Redirect("/login", fiber.StatusFound)
			})
		},
	}

	chain := NewChain().
		Handle(Prefix("/db-console"), diagnosticPipeline).
		Handle(Prefix("/api"), apiPipeline).
		Handle(Prefix("/admin"), webPipeline).
		Handle(Exact("/login"), webPipeline).
		Handle(Exact("/logout"), webPipeline).
		Handle(CatchAll{}, publicPipeline)

	if err := chain.Apply(app); err != nil {
		return nil, err
	}

	return &Server{
		app:    app,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen() error {
	s.logger.Info("server listening", "addr", s.cfg.Addr)
	return s.app.Listen(s.cfg.Addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// errorHandler keeps API failures as JSON and renders the error page for
// everything else. Handler errors never leak internals.
func errorHandler(logger auth.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("request failed", "path", c.Path(), "error", err)
			message = "Internal server error"
		}

		if strings.HasPrefix(c.Path(), "/api") {
			return c.Status(code).JSON(fiber.Map{
				"error": message,
			})
		}

		return c.Status(code).Render("errors/500", fiber.Map{
			"Title": "Erreur",
		})
	}
}

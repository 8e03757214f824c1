package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/formation-app/centre-server/auth"
	"github.com/formation-app/centre-server/middleware/jwtware"
	"github.com/formation-app/centre-server/model"
	"github.com/formation-app/centre-server/repository"
	"github.com/formation-app/centre-server/service"
)

// StatistiquesController serves the reporting endpoints. Route level
// roles are enforced by the guard; the ownership rule on transcripts is
// enforced here, a student only ever reads their own.
type StatistiquesController struct {
	stats      *service.Statistics
	renderer   service.ReportRenderer
	repos      repository.Manager
	contextKey string
	logger     auth.Logger
}

func NewStatistiquesController(stats *service.Statistics, renderer service.ReportRenderer, repos repository.Manager, contextKey string, logger auth.Logger) *StatistiquesController {
	return &StatistiquesController{
		stats:      stats,
		renderer:   renderer,
		repos:      repos,
		contextKey: contextKey,
		logger:     logger,
	}
}

func (st *StatistiquesController) Register(app fiber.Router) {
	app.Get("/api/statistiques", st.Overview)
	app.Get("/api/statistiques/moyennes-cours", st.MoyennesCours)
	app.Get("/api/statistiques/rapport-notes/:id", st.RapportNotes)
}

func (st *StatistiquesController) Overview(c *fiber.Ctx) error {
	overview, err := st.stats.Overview(c.UserContext())
	if err != nil {
		st.logger.Error("statistics overview failed", "error", err)
		return errInternal(c)
	}
	return c.JSON(overview)
}

func (st *StatistiquesController) MoyennesCours(c *fiber.Ctx) error {
	rows, err := st.stats.MoyennesParCours(c.UserContext())
	if err != nil {
		st.logger.Error("course averages failed", "error", err)
		return errInternal(c)
	}
	return c.JSON(rows)
}

// RapportNotes returns a student transcript. Students may only request
// their own id; trainers and admins may request any.
func (st *StatistiquesController) RapportNotes(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	principal, ok := jwtware.PrincipalFromCtx(c, st.contextKey)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	if principal.Role() == model.RoleEtudiant {
		owned, err := st.ownsTranscript(c, principal)
		if err != nil {
			st.logger.Error("ownership lookup failed", "login", principal.Login(), "error", err)
			return errInternal(c)
		}
		if !owned.valid || owned.etudiantID != id {
			st.logger.Debug("transcript ownership denied",
				"login", principal.Login(),
				"requested", id,
			)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden",
			})
		}
	}

	report, err := st.stats.RapportNotes(c.UserContext(), id)
	if err != nil {
		if auth.IsRecordNotFound(err) {
			return errNotFound(c)
		}
		st.logger.Error("transcript build failed", "id", id, "error", err)
		return errInternal(c)
	}

	if c.Query("format") == "text" {
		body, err := st.renderer.Render(report)
		if err != nil {
			return errInternal(c)
		}
		c.Set(fiber.HeaderContentType, st.renderer.ContentType())
		return c.SendString(body)
	}

	return c.JSON(report)
}

type transcriptOwnership struct {
	valid      bool
	etudiantID uuid.UUID
}

func (st *StatistiquesController) ownsTranscript(c *fiber.Ctx, principal *auth.Principal) (transcriptOwnership, error) {
	etudiant, err := st.repos.Etudiants().GetByUserID(c.UserContext(), principal.ID())
	if err != nil {
		if auth.IsRecordNotFound(err) {
			return transcriptOwnership{}, nil
		}
		return transcriptOwnership{}, err
	}
	return transcriptOwnership{valid: true, etudiantID: etudiant.ID}, nil
}

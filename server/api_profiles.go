package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/formation-app/centre-server/auth"
	"github.com/formation-app/centre-server/repository"
	"github.com/formation-app/centre-server/service"
)

// ProfileController serves the student and trainer CRUD endpoints.
type ProfileController struct {
	repos       repository.Manager
	provisioner *service.Provisioner
	logger      auth.Logger
}

func NewProfileController(repos repository.Manager, provisioner *service.Provisioner, logger auth.Logger) *ProfileController {
	return &ProfileController{
		repos:       repos,
		provisioner: provisioner,
		logger:      logger,
	}
}

func (pc *ProfileController) Register(app fiber.Router) {
	app.Get("/api/etudiants", pc.ListEtudiants)
	app.Get("/api/etudiants/:id", pc.GetEtudiant)
	app.Post("/api/etudiants", pc.CreateEtudiant)
	app.Put("/api/etudiants/:id", pc.UpdateEtudiant)
	app.Delete("/api/etudiants/:id", pc.DeleteEtudiant)

	app.Get("/api/formateurs", pc.ListFormateurs)
	app.Get("/api/formateurs/:id", pc.GetFormateur)
	app.Post("/api/formateurs", pc.CreateFormateur)
	app.Put("/api/formateurs/:id", pc.UpdateFormateur)
	app.Delete("/api/formateurs/:id", pc.DeleteFormateur)
}

func (pc *ProfileController) ListEtudiants(c *fiber.Ctx) error {
	records, err := pc.repos.Etudiants().List(c.UserContext())
	if err != nil {
		pc.logger.Error("list etudiants failed", "error", err)
		return errInternal(c)
	}
	return c.JSON(records)
}

func (pc *ProfileController) GetEtudiant(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	record, err := pc.repos.Etudiants().GetByID(c.UserContext(), id)
	if err != nil {
		if auth.IsRecordNotFound(err) {
			return errNotFound(c)
		}
		pc.logger.Error("get etudiant failed", "id", id, "error", err)
		return errInternal(c)
	}
	return c.JSON(record)
}

// CreateEtudiant provisions the profile along with its user account and
// returns the one-time credentials.
func (pc *ProfileController) CreateEtudiant(c *fiber.Ctx) error {
	input := service.CreateEtudiantInput{}
	if err := c.BodyParser(&input); err != nil {
		return errBadRequest(c, "invalid body")
	}

	created, err := pc.provisioner.CreateEtudiant(c.UserContext(), input)
	if err != nil {
		return provisioningError(c, pc.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

type updateEtudiantRequest struct {
	Nom             string     `json:"nom"`
	Prenom          string     `json:"prenom"`
	DateInscription *time.Time `json:"dateInscription"`
}

func (pc *ProfileController) UpdateEtudiant(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	req := updateEtudiantRequest{}
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "invalid body")
	}

	record, err := pc.repos.Etudiants().GetByID(c.UserContext(), id)
	if err != nil {
		if auth.IsRecordNotFound(err) {
			return errNotFound(c)
		}
		return errInternal(c)
	}

	if req.Nom != "" {
		record.Nom = req.Nom
	}
	if req.Prenom != "" {
		record.Prenom = req.Prenom
	}
	if req.DateInscription != nil {
		record.DateInscription = req.DateInscription
	}

	if record, err = pc.repos.Etudiants().Update(c.UserContext(), record); err != nil {
		pc.logger.Error("update etudiant failed", "id", id, "error", err)
		return errInternal(c)
	}

	return c.JSON(record)
}

// DeleteEtudiant removes the profile together with its grades,
// enrollments and owned user account, in one transaction.
func (pc *ProfileController) DeleteEtudiant(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	record, err := pc.repos.Etudiants().GetByID(c.UserContext(), id)
	if err != nil {
		if auth.IsRecordNotFound(err) {
			return errNotFound(c)
		}
		return errInternal(c)
	}

	err = pc.repos.RunInTx(c.UserContext(), nil, func(ctx context.Context, tx bun.Tx) error {
		return pc.repos.Etudiants().DeleteWithUser(ctx, tx, record)
	})
	if err != nil {
		pc.logger.Error("delete etudiant failed", "id", id, "error", err)
		return errInternal(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (pc *ProfileController) ListFormateurs(c *fiber.Ctx) error {
	records, err := pc.repos.Formateurs().List(c.UserContext())
	if err != nil {
		pc.logger.Error("list formateurs failed", "error", err)
		return errInternal(c)
	}
	return c.JSON(records)
}

func (pc *ProfileController) GetFormateur(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	record, err := pc.repos.Formateurs().GetByID(c.UserContext(), id)
	if err != nil {
		if auth.IsRecordNotFound(err) {
			return errNotFound(c)
		}
		pc.logger.Error("get formateur failed", "id", id, "error", err)
		return errInternal(c)
	}
	return c.JSON(record)
}

func (pc *ProfileController) CreateFormateur(c *fiber.Ctx) error {
	input := service.CreateFormateurInput{}
	if err := c.BodyParser(&input); err != nil {
		return errBadRequest(c, "invalid body")
	}

	created, err := pc.provisioner.CreateFormateur(c.UserContext(), input)
	if err != nil {
		return provisioningError(c, pc.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

type updateFormateurRequest struct {
	Nom        string `json:"nom"`
	Specialite string `json:"specialite"`
}

func (pc *ProfileController) UpdateFormateur(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	req := updateFormateurRequest{}
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "invalid body")
	}

	record, err := pc.repos.Formateurs().GetByID(c.UserContext(), id)
	if err != nil {
		if auth.IsRecordNotFound(err) {
			return errNotFound(c)
		}
		return errInternal(c)
	}

	if req.Nom != "" {
		record.Nom = req.Nom
	}
	if req.Specialite != "" {
		record.Specialite = req.Specialite
	}

	if record, err = pc.repos.Formateurs().Update(c.UserContext(), record); err != nil {
		pc.logger.Error("update formateur failed", "id", id, "error", err)
		return errInternal(c)
	}

	return c.JSON(record)
}

// DeleteFormateur removes the profile and its user account. Courses and
// class meetings survive with their trainer link cleared.
func (pc *ProfileController) DeleteFormateur(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	record, err := pc.repos.Formateurs().GetByID(c.UserContext(), id)
	if err != nil {
		if auth.IsRecordNotFound(err) {
			return errNotFound(c)
		}
		return errInternal(c)
	}

	err = pc.repos.RunInTx(c.UserContext(), nil, func(ctx context.Context, tx bun.Tx) error {
		return pc.repos.Formateurs().DeleteWithUser(ctx, tx, record)
	})
	if err != nil {
		pc.logger.Error("delete formateur failed", "id", id, "error", err)
		return errInternal(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func pathID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

func errBadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "Bad request",
		"message": message,
	})
}

func errNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Not found",
	})
}

func errConflict(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{
		"error":   "Conflict",
		"message": message,
	})
}

func provisioningError(c *fiber.Ctx, logger auth.Logger, err error) error {
	switch {
	case isServiceConflict(err):
		return errConflict(c, err.Error())
	case isValidationError(err):
		return errBadRequest(c, err.Error())
	default:
		logger.Error("provisioning failed", "error", err)
		return errInternal(c)
	}
}

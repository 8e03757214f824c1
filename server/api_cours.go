package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/formation-app/centre-server/auth"
	"github.com/formation-app/centre-server/model"
	"github.com/formation-app/centre-server/repository"
)

// CoursController serves courses and academic sessions.
type CoursController struct {
	repos  repository.Manager
	logger auth.Logger
}

func NewCoursController(repos repository.Manager, logger auth.Logger) *CoursController {
	return &CoursController{repos: repos, logger: logger}
}

func (cc *CoursController) Register(app fiber.Router) {
	app.Get("/api/cours", cc.List)
	app.Get("/api/cours/:id", cc.Get)
	app.Post("/api/cours", cc.Create)
	app.Put("/api/cours/:id", cc.Update)
	app.Delete("/api/cours/:id", cc.Delete)

	app.Get("/api/sessions", cc.ListSessions)
	app.Post("/api/sessions", cc.CreateSession)
	app.Put("/api/sessions/:id", cc.UpdateSession)
	app.Delete("/api/sessions/:id", cc.DeleteSession)
}

func (cc *CoursController) List(c *fiber.Ctx) error {
	if raw := c.Query("formateurId"); raw != "" {
		formateurID, err := uuid.Parse(raw)
		if err != nil {
			return errBadRequest(c, "invalid formateurId")
		}
		records, err := cc.repos.Cours().ListByFormateur(c.UserContext(), formateurID)
		if err != nil {
			return errInternal(c)
		}
		return c.JSON(records)
	}

	records, err := cc.repos.Cours().List(c.UserContext())
	if err != nil {
		cc.logger.Error("list cours failed", "error", err)
		return errInternal(c)
	}
	return c.JSON(records)
}

func (cc *CoursController) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	record, err := cc.repos.Cours().GetByID(c.UserContext(), id)
	if err != nil {
		if auth.IsRecordNotFound(err) {
			return errNotFound(c)
		}
		return errInternal(c)
	}
	return c.JSON(record)
}

type coursRequest struct {
	Code        string     `json:"code"`
	Titre       string     `json:"titre"`
	Description string     `json:"description"`
	FormateurID *uuid.UUID `json:"formateurId"`
	SessionID   *uuid.UUID `json:"sessionId"`
}

func (r coursRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(2, 20)),
		validation.Field(&r.Titre, validation.Required, validation.Length(1, 200)),
	)
}

func (cc *CoursController) Create(c *fiber.Ctx) error {
	req := coursRequest{}
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return errBadRequest(c, err.Error())
	}

	taken, err := cc.repos.Cours().ExistsByCode(c.UserContext(), req.Code)
	if err != nil {
		return errInternal(c)
	}
	if taken {
		return errConflict(c, "course code already registered")
	}

	record := &model.Cours{
		Code:        req.Code,
		Titre:       req.Titre,
		Description: req.Description,
		FormateurID: req.FormateurID,
		SessionID:   req.SessionID,
	}

	if record, err = cc.repos.Cours().Create(c.UserContext(), record); err != nil {
		cc.logger.Error("create cours failed", "code", req.Code, "error", err)
		return errInternal(c)
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

func (cc *CoursController) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	req := coursRequest{}
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "invalid body")
	}

	record, err := cc.repos.Cours().GetByID(c.UserContext(), id)
	if err != nil {
		if auth.IsRecordNotFound(err) {
			return errNotFound(c)
		}
		return errInternal(c)
	}

	if req.Titre != "" {
		record.Titre = req.Titre
	}
	if req.Description != "" {
		record.Description = req.Description
	}
	if req.FormateurID != nil {
		record.FormateurID = req.FormateurID
	}
	if req.SessionID != nil {
		record.SessionID = req.SessionID
	}

	if record, err = cc.repos.Cours().Update(c.UserContext(), record); err != nil {
		cc.logger.Error("update cours failed", "id", id, "error", err)
		return errInternal(c)
	}

	return c.JSON(record)
}

func (cc *CoursController) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	if err := cc.repos.Cours().Delete(c.UserContext(), id); err != nil {
		cc.logger.Error("delete cours failed", "id", id, "error", err)
		return errInternal(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (cc *CoursController) ListSessions(c *fiber.Ctx) error {
	records, err := cc.repos.Sessions().List(c.UserContext())
	if err != nil {
		return errInternal(c)
	}
	return c.JSON(records)
}

type sessionRequest struct {
	Semestre      string `json:"semestre"`
	AnneeScolaire string `json:"anneeScolaire"`
}

func (r sessionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Semestre, validation.Required),
		validation.Field(&r.AnneeScolaire, validation.Required),
	)
}

func (cc *CoursController) CreateSession(c *fiber.Ctx) error {
	req := sessionRequest{}
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return errBadRequest(c, err.Error())
	}

	record, err := cc.repos.Sessions().Create(c.UserContext(), &model.SessionFormation{
		Semestre:      req.Semestre,
		AnneeScolaire: req.AnneeScolaire,
	})
	if err != nil {
		return errInternal(c)
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

func (cc *CoursController) UpdateSession(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	req := sessionRequest{}
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "invalid body")
	}

	record, err := cc.repos.Sessions().GetByID(c.UserContext(), id)
	if err != nil {
		if auth.IsRecordNotFound(err) {
			return errNotFound(c)
		}
		return errInternal(c)
	}

	if req.Semestre != "" {
		record.Semestre = req.Semestre
	}
	if req.AnneeScolaire != "" {
		record.AnneeScolaire = req.AnneeScolaire
	}

	if record, err = cc.repos.Sessions().Update(c.UserContext(), record); err != nil {
		return errInternal(c)
	}

	return c.JSON(record)
}

func (cc *CoursController) DeleteSession(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	if err := cc.repos.Sessions().Delete(c.UserContext(), id); err != nil {
		return errInternal(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

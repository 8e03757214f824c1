package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/formation-app/centre-server/auth"
	"github.com/formation-app/centre-server/model"
	"github.com/formation-app/centre-server/repository"
)

// GroupeController serves student groups and their course links.
type GroupeController struct {
	repos  repository.Manager
	logger auth.Logger
}

func NewGroupeController(repos repository.Manager, logger auth.Logger) *GroupeController {
	return &GroupeController{repos: repos, logger: logger}
}

func (gc *GroupeController) Register(app fiber.Router) {
	app.Get("/api/groupes", gc.List)
	app.Get("/api/groupes/:id", gc.Get)
	app.Post("/api/groupes", gc.Create)
	app.Put("/api/groupes/:id", gc.Update)
	app.Delete("/api/groupes/:id", gc.Delete)

	app.Get("/api/groupes/:id/cours", gc.ListCours)
	app.Post("/api/groupes/:id/cours", gc.LinkCours)
	app.Delete("/api/groupes/:id/cours/:coursId", gc.UnlinkCours)
}

func (gc *GroupeController) List(c *fiber.Ctx) error {
	if nom := c.Query("nom"); nom != "" {
		records, err := gc.repos.Groupes().SearchByNom(c.UserContext(), nom)
		if err != nil {
			return errInternal(c)
		}
		return c.JSON(records)
	}

	records, err := gc.repos.Groupes().List(c.UserContext())
	if err != nil {
		gc.logger.Error("list groupes failed", "error", err)
		return errInternal(c)
	}
	return c.JSON(records)
}

func (gc *GroupeController) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	record, err := gc.repos.Groupes().GetByID(c.UserContext(), id)
	if err != nil {
		if auth.IsRecordNotFound(err) {
			return errNotFound(c)
		}
		return errInternal(c)
	}
	return c.JSON(record)
}

type groupeRequest struct {
	Nom string `json:"nom"`
}

func (r groupeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nom, validation.Required, validation.Length(1, 100)),
	)
}

func (gc *GroupeController) Create(c *fiber.Ctx) error {
	req := groupeRequest{}
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return errBadRequest(c, err.Error())
	}

	taken, err := gc.repos.Groupes().ExistsByNom(c.UserContext(), req.Nom)
	if err != nil {
		return errInternal(c)
	}
	if taken {
		return errConflict(c, "group name already registered")
	}

	record, err := gc.repos.Groupes().Create(c.UserContext(), &model.Groupe{Nom: req.Nom})
	if err != nil {
		gc.logger.Error("create groupe failed", "nom", req.Nom, "error", err)
		return errInternal(c)
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

func (gc *GroupeController) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	req := groupeRequest{}
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return errBadRequest(c, err.Error())
	}

	record, err := gc.repos.Groupes().GetByID(c.UserContext(), id)
	if err != nil {
		if auth.IsRecordNotFound(err) {
			return errNotFound(c)
		}
		return errInternal(c)
	}

	if req.Nom != record.Nom {
		taken, err := gc.repos.Groupes().ExistsByNom(c.UserContext(), req.Nom)
		if err != nil {
			return errInternal(c)
		}
		if taken {
			return errConflict(c, "group name already registered")
		}
		record.Nom = req.Nom
	}

	if record, err = gc.repos.Groupes().Update(c.UserContext(), record); err != nil {
		gc.logger.Error("update groupe failed", "id", id, "error", err)
		return errInternal(c)
	}

	return c.JSON(record)
}

func (gc *GroupeController) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	if err := gc.repos.Groupes().Delete(c.UserContext(), id); err != nil {
		gc.logger.Error("delete groupe failed", "id", id, "error", err)
		return errInternal(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (gc *GroupeController) ListCours(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	records, err := gc.repos.Groupes().ListCours(c.UserContext(), id)
	if err != nil {
		return errInternal(c)
	}
	return c.JSON(records)
}

type linkCoursRequest struct {
	CoursID uuid.UUID `json:"coursId"`
}

func (r linkCoursRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CoursID, validation.By(requiredUUID)),
	)
}

func (gc *GroupeController) LinkCours(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	req := linkCoursRequest{}
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return errBadRequest(c, err.Error())
	}

	if _, err := gc.repos.Groupes().GetByID(c.UserContext(), id); err != nil {
		if auth.IsRecordNotFound(err) {
			return errNotFound(c)
		}
		return errInternal(c)
	}

	if _, err := gc.repos.Cours().GetByID(c.UserContext(), req.CoursID); err != nil {
		if auth.IsRecordNotFound(err) {
			return errNotFound(c)
		}
		return errInternal(c)
	}

	if err := gc.repos.Groupes().LinkCours(c.UserContext(), id, req.CoursID); err != nil {
		gc.logger.Error("link cours to groupe failed", "groupe", id, "cours", req.CoursID, "error", err)
		return errInternal(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (gc *GroupeController) UnlinkCours(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	coursID, err := uuid.Parse(c.Params("coursId"))
	if err != nil {
		return errBadRequest(c, "invalid coursId")
	}

	if err := gc.repos.Groupes().UnlinkCours(c.UserContext(), id, coursID); err != nil {
		gc.logger.Error("unlink cours from groupe failed", "groupe", id, "cours", coursID, "error", err)
		return errInternal(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

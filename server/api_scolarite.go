package server

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/formation-app/centre-server/auth"
	"github.com/formation-app/centre-server/model"
	"github.com/formation-app/centre-server/repository"
)

// ScolariteController serves enrollments, class meetings and grades.
type ScolariteController struct {
	repos  repository.Manager
	logger auth.Logger
}

func NewScolariteController(repos repository.Manager, logger auth.Logger) *ScolariteController {
	return &ScolariteController{repos: repos, logger: logger}
}

func (sc *ScolariteController) Register(app fiber.Router) {
	app.Get("/api/inscriptions", sc.ListInscriptions)
	app.Get("/api/inscriptions/:id", sc.GetInscription)
	app.Post("/api/inscriptions", sc.CreateInscription)
	app.Put("/api/inscriptions/:id/status", sc.UpdateInscriptionStatus)
	app.Delete("/api/inscriptions/:id", sc.DeleteInscription)

	app.Get("/api/seances", sc.ListSeances)
	app.Get("/api/seances/:id", sc.GetSeance)
	app.Post("/api/seances", sc.CreateSeance)
	app.Put("/api/seances/:id", sc.UpdateSeance)
	app.Delete("/api/seances/:id", sc.DeleteSeance)

	app.Get("/api/notes", sc.ListNotes)
	app.Get("/api/notes/:id", sc.GetNote)
	app.Post("/api/notes", sc.CreateNote)
	app.Put("/api/notes/:id", sc.UpdateNote)
	app.Delete("/api/notes/:id", sc.DeleteNote)
}

func (sc *ScolariteController) ListInscriptions(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if raw := c.Query("etudiantId"); raw != "" {
		etudiantID, err := uuid.Parse(raw)
		if err != nil {
			return errBadRequest(c, "invalid etudiantId")
		}
		records, err := sc.repos.Inscriptions().ListByEtudiant(ctx, etudiantID)
		if err != nil {
			return errInternal(c)
		}
		return c.JSON(records)
	}

	if raw := c.Query("coursId"); raw != "" {
		coursID, err := uuid.Parse(raw)
		if err != nil {
			return errBadRequest(c, "invalid coursId")
		}
		records, err := sc.repos.Inscriptions().ListByCours(ctx, coursID)
		if err != nil {
			return errInternal(c)
		}
		return c.JSON(records)
	}

	records, err := sc.repos.Inscriptions().List(ctx)
	if err != nil {
		sc.logger.Error("list inscriptions failed", "error", err)
		return errInternal(c)
	}
	return c.JSON(records)
}

func (sc *ScolariteController) GetInscription(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	record, err := sc.repos.Inscriptions().GetByID(c.UserContext(), id)
	if err != nil {
		if auth.IsRecordNotFound(err) {
			return errNotFound(c)
		}
		return errInternal(c)
	}
	return c.JSON(record)
}

type inscriptionRequest struct {
	EtudiantID uuid.UUID `json:"etudiantId"`
	CoursID    uuid.UUID `json:"coursId"`
}

func (r inscriptionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EtudiantID, validation.By(requiredUUID)),
		validation.Field(&r.CoursID, validation.By(requiredUUID)),
	)
}

// CreateInscription enrolls a student in a course. One enrollment per
// student and course pair.
func (sc *ScolariteController) CreateInscription(c *fiber.Ctx) error {
	req := inscriptionRequest{}
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return errBadRequest(c, err.Error())
	}

	ctx := c.UserContext()

	taken, err := sc.repos.Inscriptions().Exists(ctx, req.EtudiantID, req.CoursID)
	if err != nil {
		return errInternal(c)
	}
	if taken {
		return errConflict(c, "student already enrolled in this course")
	}

	record, err := sc.repos.Inscriptions().Create(ctx, &model.Inscription{
		EtudiantID: req.EtudiantID,
		CoursID:    req.CoursID,
	})
	if err != nil {
		sc.logger.Error("create inscription failed", "error", err)
		return errInternal(c)
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

type inscriptionStatusRequest struct {
	Status string `json:"status"`
}

func (r inscriptionStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status,
			validation.Required,
			validation.In(
				model.InscriptionActive,
				model.InscriptionCancelled,
				model.InscriptionCompleted,
			),
		),
	)
}

func (sc *ScolariteController) UpdateInscriptionStatus(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	req := inscriptionStatusRequest{}
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return errBadRequest(c, err.Error())
	}

	record, err := sc.repos.Inscriptions().UpdateStatus(c.UserContext(), id, req.Status)
	if err != nil {
		if auth.IsRecordNotFound(err) {
			return errNotFound(c)
		}
		return errInternal(c)
	}

	return c.JSON(record)
}

func (sc *ScolariteController) DeleteInscription(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	if err := sc.repos.Inscriptions().Delete(c.UserContext(), id); err != nil {
		return errInternal(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (sc *ScolariteController) ListSeances(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if raw := c.Query("coursId"); raw != "" {
		coursID, err := uuid.Parse(raw)
		if err != nil {
			return errBadRequest(c, "invalid coursId")
		}
		records, err := sc.repos.Seances().ListByCours(ctx, coursID)
		if err != nil {
			return errInternal(c)
		}
		return c.JSON(records)
	}

	records, err := sc.repos.Seances().List(ctx)
	if err != nil {
		return errInternal(c)
	}
	return c.JSON(records)
}

func (sc *ScolariteController) GetSeance(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	record, err := sc.repos.Seances().GetByID(c.UserContext(), id)
	if err != nil {
		if auth.IsRecordNotFound(err) {
			return errNotFound(c)
		}
		return errInternal(c)
	}
	return c.JSON(record)
}

type seanceRequest struct {
	Date        time.Time  `json:"date"`
	Heure       string     `json:"heure"`
	Salle       string     `json:"salle"`
	CoursID     uuid.UUID  `json:"coursId"`
	FormateurID *uuid.UUID `json:"formateurId"`
}

func (r seanceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Date, validation.Required),
		validation.Field(&r.Heure, validation.Required),
		validation.Field(&r.CoursID, validation.By(requiredUUID)),
	)
}

func (sc *ScolariteController) CreateSeance(c *fiber.Ctx) error {
	req := seanceRequest{}
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return errBadRequest(c, err.Error())
	}

	record, err := sc.repos.Seances().Create(c.UserContext(), &model.Seance{
		Date:        req.Date,
		Heure:       req.Heure,
		Salle:       req.Salle,
		CoursID:     req.CoursID,
		FormateurID: req.FormateurID,
	})
	if err != nil {
		sc.logger.Error("create seance failed", "error", err)
		return errInternal(c)
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

func (sc *ScolariteController) UpdateSeance(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	req := seanceRequest{}
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "invalid body")
	}

	record, err := sc.repos.Seances().GetByID(c.UserContext(), id)
	if err != nil {
		if auth.IsRecordNotFound(err) {
			return errNotFound(c)
		}
		return errInternal(c)
	}

	if !req.Date.IsZero() {
		record.Date = req.Date
	}
	if req.Heure != "" {
		record.Heure = req.Heure
	}
	if req.Salle != "" {
		record.Salle = req.Salle
	}
	if req.CoursID != uuid.Nil {
		record.CoursID = req.CoursID
	}
	if req.FormateurID != nil {
		record.FormateurID = req.FormateurID
	}

	if record, err = sc.repos.Seances().Update(c.UserContext(), record); err != nil {
		return errInternal(c)
	}

	return c.JSON(record)
}

func (sc *ScolariteController) DeleteSeance(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	if err := sc.repos.Seances().Delete(c.UserContext(), id); err != nil {
		return errInternal(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (sc *ScolariteController) ListNotes(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if raw := c.Query("etudiantId"); raw != "" {
		etudiantID, err := uuid.Parse(raw)
		if err != nil {
			return errBadRequest(c, "invalid etudiantId")
		}
		records, err := sc.repos.Notes().ListByEtudiant(ctx, etudiantID)
		if err != nil {
			return errInternal(c)
		}
		return c.JSON(records)
	}

	if raw := c.Query("coursId"); raw != "" {
		coursID, err := uuid.Parse(raw)
		if err != nil {
			return errBadRequest(c, "invalid coursId")
		}
		records, err := sc.repos.Notes().ListByCours(ctx, coursID)
		if err != nil {
			return errInternal(c)
		}
		return c.JSON(records)
	}

	records, err := sc.repos.Notes().List(ctx)
	if err != nil {
		return errInternal(c)
	}
	return c.JSON(records)
}

func (sc *ScolariteController) GetNote(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	record, err := sc.repos.Notes().GetByID(c.UserContext(), id)
	if err != nil {
		if auth.IsRecordNotFound(err) {
			return errNotFound(c)
		}
		return errInternal(c)
	}
	return c.JSON(record)
}

type noteRequest struct {
	Valeur     *float64  `json:"valeur"`
	EtudiantID uuid.UUID `json:"etudiantId"`
	CoursID    uuid.UUID `json:"coursId"`
}

func (r noteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Valeur, validation.NotNil, validation.Min(0.0), validation.Max(20.0)),
		validation.Field(&r.EtudiantID, validation.By(requiredUUID)),
		validation.Field(&r.CoursID, validation.By(requiredUUID)),
	)
}

// CreateNote records a grade out of 20.
func (sc *ScolariteController) CreateNote(c *fiber.Ctx) error {
	req := noteRequest{}
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return errBadRequest(c, err.Error())
	}

	now := time.Now()
	record, err := sc.repos.Notes().Create(c.UserContext(), &model.Note{
		Valeur:     *req.Valeur,
		DateSaisie: &now,
		EtudiantID: req.EtudiantID,
		CoursID:    req.CoursID,
	})
	if err != nil {
		sc.logger.Error("create note failed", "error", err)
		return errInternal(c)
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

func (sc *ScolariteController) UpdateNote(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	req := noteRequest{}
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "invalid body")
	}
	if req.Valeur == nil || *req.Valeur < 0 || *req.Valeur > 20 {
		return errBadRequest(c, "valeur must be between 0 and 20")
	}

	record, err := sc.repos.Notes().GetByID(c.UserContext(), id)
	if err != nil {
		if auth.IsRecordNotFound(err) {
			return errNotFound(c)
		}
		return errInternal(c)
	}

	now := time.Now()
	record.Valeur = *req.Valeur
	record.DateSaisie = &now

	if record, err = sc.repos.Notes().Update(c.UserContext(), record); err != nil {
		return errInternal(c)
	}

	return c.JSON(record)
}

func (sc *ScolariteController) DeleteNote(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return errBadRequest(c, "invalid id")
	}

	if err := sc.repos.Notes().Delete(c.UserContext(), id); err != nil {
		return errInternal(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

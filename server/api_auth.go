package server

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/formation-app/centre-server/auth"
	"github.com/formation-app/centre-server/model"
	"github.com/formation-app/centre-server/repository"
	"github.com/formation-app/centre-server/service"
)

// AuthController serves the public authentication endpoints of the API
// pipeline. Me and ChangePassword authenticate by parsing the presented
// token themselves since the whole prefix bypasses the jwt filter.
type AuthController struct {
	auther   auth.Authenticator
	accounts *service.Accounts
	repos    repository.Manager
	logger   auth.Logger
}

func NewAuthController(auther auth.Authenticator, accounts *service.Accounts, repos repository.Manager, logger auth.Logger) *AuthController {
	return &AuthController{
		auther:   auther,
		accounts: accounts,
		repos:    repos,
		logger:   logger,
	}
}

func (ac *AuthController) Register(app fiber.Router) {
	app.Post("/api/auth/login", ac.Login)
	app.Get("/api/auth/me", ac.Me)
	app.Post("/api/auth/change-password", ac.ChangePassword)
	app.Get("/api/auth/test", ac.Test)
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Login, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// loginResponse wraps the shared account block with the minted token.
// Absent profile ids stay out of the body on both login and me.
type loginResponse struct {
	Token string `json:"token"`
	Type  string `json:"type"`
	identityPayload
}

// identityPayload is the account block shared by login and me responses.
type identityPayload struct {
	Username  string     `json:"username"`
	Roles     []string   `json:"roles"`
	UserID    uuid.UUID  `json:"userId"`
	StudentID *uuid.UUID `json:"studentId,omitempty"`
	TrainerID *uuid.UUID `json:"trainerId,omitempty"`
}

// Login authenticates an identifier and password and mints a bearer
// token. Every failure collapses to the same generic 401.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	req := loginRequest{}
	if err := c.BodyParser(&req); err != nil {
		return invalidCredentials(c)
	}
	if err := req.Validate(); err != nil {
		return invalidCredentials(c)
	}

	result, err := ac.auther.Login(c.UserContext(), req.Login, req.Password)
	if err != nil {
		return invalidCredentials(c)
	}

	identity, err := ac.identityOf(c, result.User)
	if err != nil {
		ac.logger.Error("login profile lookup failed", "login", result.User.Login, "error", err)
		return errInternal(c)
	}

	return c.JSON(loginResponse{
		Token:           result.Token,
		Type:            "Bearer",
		identityPayload: *identity,
	})
}

// Me returns the account behind the presented token. The role comes from
// the store, not the token.
func (ac *AuthController) Me(c *fiber.Ctx) error {
	raw := bearerToken(c)
	if raw == "" {
		return invalidToken(c)
	}

	res, err := ac.auther.CurrentUser(c.UserContext(), raw)
	if err != nil {
		return invalidToken(c)
	}

	identity, err := ac.identityOf(c, res.User)
	if err != nil {
		ac.logger.Error("me profile lookup failed", "login", res.User.Login, "error", err)
		return errInternal(c)
	}

	return c.JSON(identity)
}

// ChangePassword replaces the token holder's password after checking
// the current one.
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	raw := bearerToken(c)
	if raw == "" {
		return invalidToken(c)
	}

	res, err := ac.auther.CurrentUser(c.UserContext(), raw)
	if err != nil {
		return invalidToken(c)
	}

	input := service.ChangePasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return errBadRequest(c, "invalid body")
	}

	if err := ac.accounts.ChangePassword(c.UserContext(), res.User.Login, input); err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			return errBadRequest(c, "current password does not match")
		case isValidationError(err):
			return errBadRequest(c, err.Error())
		default:
			ac.logger.Error("change password failed", "login", res.User.Login, "error", err)
			return errInternal(c)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Password updated",
	})
}

// Test is a reachability probe for the public auth prefix.
func (ac *AuthController) Test(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Auth endpoint accessible",
	})
}

// identityOf attaches the owning profile id, when one exists, to the
// account payload.
func (ac *AuthController) identityOf(c *fiber.Ctx, user *model.User) (*identityPayload, error) {
	payload := &identityPayload{
		Username: user.Login,
		Roles:    []string{string(user.Role)},
		UserID:   user.ID,
	}

	switch user.Role {
	case model.RoleEtudiant:
		etudiant, err := ac.repos.Etudiants().GetByUserID(c.UserContext(), user.ID)
		if err != nil {
			if auth.IsRecordNotFound(err) {
				return payload, nil
			}
			return nil, err
		}
		payload.StudentID = &etudiant.ID
	case model.RoleFormateur:
		formateur, err := ac.repos.Formateurs().GetByUserID(c.UserContext(), user.ID)
		if err != nil {
			if auth.IsRecordNotFound(err) {
				return payload, nil
			}
			return nil, err
		}
		payload.TrainerID = &formateur.ID
	}

	return payload, nil
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > 7 && strings.EqualFold(header[:6], "Bearer") {
		return strings.TrimSpace(header[6:])
	}
	return ""
}

func invalidCredentials(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":   "Invalid credentials",
		"message": "Login or password is incorrect",
	})
}

func invalidToken(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Invalid token",
	})
}

func errInternal(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/formation-app/centre-server/auth"
	"github.com/formation-app/centre-server/model"
	"github.com/formation-app/centre-server/repository"
)

const (
	etudiantMatriculePrefix  = "ETU-"
	formateurMatriculePrefix = "FORM-"
)

// maxLoginSuffix bounds the numeric suffix search when deriving a login.
const maxLoginSuffix = 100

// Provisioner creates student and trainer profiles together with their
// backing user accounts. Profile creation is transactional, either both
// records exist afterwards or neither does.
type Provisioner struct {
	repos  repository.Manager
	logger auth.Logger
}

func NewProvisioner(repos repository.Manager) *Provisioner {
	return &Provisioner{
		repos:  repos,
		logger: auth.DefaultLogger(),
	}
}

func (p *Provisioner) WithLogger(logger auth.Logger) *Provisioner {
	p.logger = logger
	return p
}

type CreateEtudiantInput struct {
	Nom             string     `json:"nom"`
	Prenom          string     `json:"prenom"`
	Email           string     `json:"email"`
	DateInscription *time.Time `json:"dateInscription"`
}

func (i CreateEtudiantInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Nom, validation.Required, validation.Length(1, 100)),
		validation.Field(&i.Prenom, validation.Required, validation.Length(1, 100)),
		validation.Field(&i.Email, validation.Required, validation.Length(3, 255), is.Email),
	)
}

type CreateFormateurInput struct {
	Nom        string `json:"nom"`
	Specialite string `json:"specialite"`
	Email      string `json:"email"`
}

func (i CreateFormateurInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Nom, validation.Required, validation.Length(1, 100)),
		validation.Field(&i.Specialite, validation.Required, validation.Length(1, 100)),
		validation.Field(&i.Email, validation.Required, validation.Length(3, 255), is.Email),
	)
}

// ProvisionedEtudiant is a created student plus the credentials handed
// back to the caller once at creation time.
type ProvisionedEtudiant struct {
	Etudiant        *model.Etudiant `json:"etudiant"`
	Login           string          `json:"login"`
	InitialPassword string          `json:"initialPassword"`
}

type ProvisionedFormateur struct {
	Formateur       *model.Formateur `json:"formateur"`
	Login           string           `json:"login"`
	InitialPassword string           `json:"initialPassword"`
}

// CreateEtudiant registers a student profile and its user account. The
// account login is derived from the generated matricule and the initial
// password equals the login.
func (p *Provisioner) CreateEtudiant(ctx context.Context, input CreateEtudiantInput) (*ProvisionedEtudiant, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	if taken, err := p.repos.Etudiants().ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("%w: email %s", ErrDuplicateEmail, email)
	}

	out := &ProvisionedEtudiant{}

	err := p.repos.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		matricule, err := p.generateMatricule(ctx, etudiantMatriculePrefix, p.repos.Etudiants().ExistsByMatricule)
		if err != nil {
			return err
		}

		user, login, err := p.createAccount(ctx, tx, matricule, email, model.RoleEtudiant)
		if err != nil {
			return err
		}

		dateInscription := input.DateInscription
		if dateInscription == nil {
			now := time.Now()
			dateInscription = &now
		}

		record := &model.Etudiant{
			Matricule:       matricule,
			Nom:             input.Nom,
			Prenom:          input.Prenom,
			Email:           email,
			DateInscription: dateInscription,
			UserID:          &user.ID,
		}

		if record, err = p.repos.Etudiants().CreateTx(ctx, tx, record); err != nil {
			return fmt.Errorf("create etudiant: %w", err)
		}

		record.User = user
		out.Etudiant = record
		out.Login = login
		out.InitialPassword = login
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("provisioned etudiant", "matricule", out.Etudiant.Matricule, "login", out.Login)

	return out, nil
}

// CreateFormateur registers a trainer profile and its user account.
func (p *Provisioner) CreateFormateur(ctx context.Context, input CreateFormateurInput) (*ProvisionedFormateur, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	if taken, err := p.repos.Formateurs().ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("%w: email %s", ErrDuplicateEmail, email)
	}

	out := &ProvisionedFormateur{}

	err := p.repos.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		matricule, err := p.generateMatricule(ctx, formateurMatriculePrefix, p.repos.Formateurs().ExistsByMatricule)
		if err != nil {
			return err
		}

		user, login, err := p.createAccount(ctx, tx, matricule, email, model.RoleFormateur)
		if err != nil {
			return err
		}

		record := &model.Formateur{
			Matricule:  matricule,
			Nom:        input.Nom,
			Specialite: input.Specialite,
			Email:      email,
			UserID:     &user.ID,
		}

		if record, err = p.repos.Formateurs().CreateTx(ctx, tx, record); err != nil {
			return fmt.Errorf("create formateur: %w", err)
		}

		record.User = user
		out.Formateur = record
		out.Login = login
		out.InitialPassword = login
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("provisioned formateur", "matricule", out.Formateur.Matricule, "login", out.Login)

	return out, nil
}

// createAccount derives a free login, hashes the initial password and
// inserts the user row inside the profile transaction.
func (p *Provisioner) createAccount(ctx context.Context, tx bun.Tx, matricule, email string, role model.UserRole) (*model.User, string, error) {
	login, err := p.deriveLogin(ctx, tx, matricule, email)
	if err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(login)
	if err != nil {
		return nil, "", fmt.Errorf("hash initial password: %w", err)
	}

	user := &model.User{
		Login:        login,
		PasswordHash: hash,
		Role:         role,
	}

	if id, err := hashid.NewUUID(email); err == nil {
		user.ID = id
	}

	if user, err = p.repos.Users().CreateTx(ctx, tx, user); err != nil {
		return nil, "", fmt.Errorf("create user account: %w", err)
	}

	return user, login, nil
}

// deriveLogin picks the first available login. The lowercased matricule
// is preferred, then the email local part, then the local part with a
// numeric suffix.
func (p *Provisioner) deriveLogin(ctx context.Context, tx bun.IDB, matricule, email string) (string, error) {
	candidate := strings.ToLower(matricule)
	taken, err := p.loginTaken(ctx, tx, candidate)
	if err != nil {
		return "", err
	}
	if !taken {
		return candidate, nil
	}

	local := loginFromEmail(email)
	taken, err = p.loginTaken(ctx, tx, local)
	if err != nil {
		return "", err
	}
	if !taken {
		return local, nil
	}

	for i := 2; i < maxLoginSuffix; i++ {
		candidate = fmt.Sprintf("%s%d", local, i)
		taken, err = p.loginTaken(ctx, tx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: for %s", ErrLoginExhausted, email)
}

func (p *Provisioner) loginTaken(ctx context.Context, tx bun.IDB, login string) (bool, error) {
	_, err := p.repos.Users().GetByLoginTx(ctx, tx, login)
	if err != nil {
		if auth.IsRecordNotFound(err) {
			return false, nil
		}
		return true, err
	}
	return true, nil
}

// generateMatricule produces a prefixed random identifier, retrying on
// the unlikely collision.
func (p *Provisioner) generateMatricule(ctx context.Context, prefix string, exists func(context.Context, string) (bool, error)) (string, error) {
	for i := 0; i < 10; i++ {
		matricule := prefix + strings.ToUpper(uuid.NewString()[:8])
		taken, err := exists(ctx, matricule)
		if err != nil {
			return "", err
		}
		if !taken {
			return matricule, nil
		}
	}
	return "", ErrMatriculeExhausted
}

func loginFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return strings.ToLower(email[:at])
	}
	return strings.ToLower(email)
}

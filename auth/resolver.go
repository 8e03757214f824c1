package auth

import (
	"context"
	"fmt"

	"github.com/formation-app/centre-server/model"
	"github.com/google/uuid"
)

// ResolutionSource tags which strategy matched an identifier.
type ResolutionSource string

const (
	ResolvedByLogin        ResolutionSource = "login"
	ResolvedByStudentEmail ResolutionSource = "student_email"
	ResolvedByTrainerEmail ResolutionSource = "trainer_email"
)

// Resolution carries the resolved account plus, when the match went
// through a profile, the owning profile id.
type Resolution struct {
	User      *model.User
	Source    ResolutionSource
	ProfileID uuid.UUID
}

// HasProfile reports whether the resolution went through a profile record.
func (r *Resolution) HasProfile() bool {
	return r.ProfileID != uuid.Nil
}

// Resolver maps a human supplied identifier to a user account using
// ordered fallback strategies: login first, then student email, then
// trainer email, short-circuiting on the first hit. Logins, student
// emails and trainer emails occupy overlapping identifier spaces, so a
// single login endpoint can accept any of the three without the caller
// declaring which kind it supplied.
type Resolver struct {
	users      UserStore
	etudiants  StudentStore
	formateurs TrainerStore
	logger     Logger
}

// NewResolver creates a Resolver over the three stores.
func NewResolver(users UserStore, etudiants StudentStore, formateurs TrainerStore) *Resolver {
	return &Resolver{
		users:      users,
		etudiants:  etudiants,
		formateurs: formateurs,
		logger:     defLogger{},
	}
}

func (r *Resolver) WithLogger(logger Logger) *Resolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Resolve runs the strategies in strict order. It returns ErrOrphanProfile
// when a profile matched by email has no linked user account, which is a
// data integrity defect distinct from ErrIdentityNotFound.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (*Resolution, error) {
	if identifier == "" {
		return nil, ErrIdentityNotFound
	}

	res, err := r.ResolveLogin(ctx, identifier)
	if err == nil {
		return res, nil
	}
	if err != ErrIdentityNotFound {
		return nil, err
	}

	etudiant, err := r.etudiants.GetByEmail(ctx, identifier)
	if err == nil {
		if etudiant.UserID == nil || etudiant.User == nil {
			r.logger.Error("student profile matched by email has no linked user account",
				"etudiant_id", etudiant.ID.String(),
				"email", etudiant.Email,
			)
			return nil, ErrOrphanProfile
		}
		return &Resolution{
			User:      etudiant.User,
			Source:    ResolvedByStudentEmail,
			ProfileID: etudiant.ID,
		}, nil
	}
	if !IsRecordNotFound(err) {
		return nil, fmt.Errorf("resolve student by email: %w", err)
	}

	formateur, err := r.formateurs.GetByEmail(ctx, identifier)
	if err == nil {
		if formateur.UserID == nil || formateur.User == nil {
			r.logger.Error("trainer profile matched by email has no linked user account",
				"formateur_id", formateur.ID.String(),
				"email", formateur.Email,
			)
			return nil, ErrOrphanProfile
		}
		return &Resolution{
			User:      formateur.User,
			Source:    ResolvedByTrainerEmail,
			ProfileID: formateur.ID,
		}, nil
	}
	if !IsRecordNotFound(err) {
		return nil, fmt.Errorf("resolve trainer by email: %w", err)
	}

	return nil, ErrIdentityNotFound
}

// ResolveLogin runs only the first strategy. Token subjects are always
// logins, so the per-request auth filter uses this entry point and skips
// the email fallbacks entirely.
func (r *Resolver) ResolveLogin(ctx context.Context, login string) (*Resolution, error) {
	user, err := r.users.GetByLogin(ctx, login)
	if err != nil {
		if IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("resolve by login: %w", err)
	}

	return &Resolution{
		User:   user,
		Source: ResolvedByLogin,
	}, nil
}

var _ IdentityResolver = (*Resolver)(nil)

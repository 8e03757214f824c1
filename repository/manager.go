package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// Manager exposes all repositories
type Manager interface {
	Validate() error
	MustValidate()
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Users() Users
	Etudiants() *Etudiants
	Formateurs() *Formateurs
	Cours() *Cours
	Sessions() *Sessions
	Inscriptions() *Inscriptions
	Seances() *Seances
	Notes() *Notes
	Groupes() *Groupes
}

type mngr struct {
	db           *bun.DB
	users        Users
	etudiants    *Etudiants
	formateurs   *Formateurs
	cours        *Cours
	sessions     *Sessions
	inscriptions *Inscriptions
	seances      *Seances
	notes        *Notes
	groupes      *Groupes
}

func NewManager(db *bun.DB) Manager {
	return &mngr{
		db:           db,
		users:        NewUsersRepository(db),
		etudiants:    NewEtudiantsRepository(db),
		formateurs:   NewFormateursRepository(db),
		cours:        NewCoursRepository(db),
		sessions:     NewSessionsRepository(db),
		inscriptions: NewInscriptionsRepository(db),
		seances:      NewSeancesRepository(db),
		notes:        NewNotesRepository(db),
		groupes:      NewGroupesRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.etudiants == nil {
		return errors.New("repository etudiants should be initialized")
	}

	if m.formateurs == nil {
		return errors.New("repository formateurs should be initialized")
	}

	if m.cours == nil {
		return errors.New("repository cours should be initialized")
	}

	if m.sessions == nil {
		return errors.New("repository sessions should be initialized")
	}

	if m.inscriptions == nil {
		return errors.New("repository inscriptions should be initialized")
	}

	if m.seances == nil {
		return errors.New("repository seances should be initialized")
	}

	if m.notes == nil {
		return errors.New("repository notes should be initialized")
	}

	if m.groupes == nil {
		return errors.New("repository groupes should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Etudiants() *Etudiants {
	return m.etudiants
}

func (m mngr) Formateurs() *Formateurs {
	return m.formateurs
}

func (m mngr) Cours() *Cours {
	return m.cours
}

func (m mngr) Sessions() *Sessions {
	return m.sessions
}

func (m mngr) Inscriptions() *Inscriptions {
	return m.inscriptions
}

func (m mngr) Seances() *Seances {
	return m.seances
}

func (m mngr) Notes() *Notes {
	return m.notes
}

func (m mngr) Groupes() *Groupes {
	return m.groupes
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the stored role of a user account
type UserRole = string

const (
	// RoleAdmin manages the whole center
	RoleAdmin UserRole = "ADMIN"
	// RoleFormateur teaches courses and grades students
	RoleFormateur UserRole = "FORMATEUR"
	// RoleEtudiant attends courses
	RoleEtudiant UserRole = "ETUDIANT"
)

// User is the credential record backing an authenticatable actor.
// Exactly one per human; ADMIN users have no profile, FORMATEUR and
// ETUDIANT users are owned by their profile record.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Login         string     `bun:"login,notnull,unique" json:"login,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Role          UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Etudiant is a student profile. It optionally owns one User; a profile
// without a linked User is a provisioning defect, not a normal state.
type Etudiant struct {
	bun.BaseModel   `bun:"table:etudiants,alias:etu"`
	ID              uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Matricule       string         `bun:"matricule,notnull,unique" json:"matricule,omitempty"`
	Nom             string         `bun:"nom,notnull" json:"nom,omitempty"`
	Prenom          string         `bun:"prenom,notnull" json:"prenom,omitempty"`
	Email           string         `bun:"email,notnull,unique" json:"email,omitempty"`
	DateInscription *time.Time     `bun:"date_inscription,nullzero,default:current_timestamp" json:"date_inscription,omitempty"`
	UserID          *uuid.UUID     `bun:"user_id,unique,nullzero,type:uuid" json:"user_id,omitempty"`
	User            *User          `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Inscriptions    []*Inscription `bun:"rel:has-many,join:id=etudiant_id" json:"inscriptions,omitempty"`
	Notes           []*Note        `bun:"rel:has-many,join:id=etudiant_id" json:"notes,omitempty"`
}

// Formateur is a trainer profile, same ownership rules as Etudiant.
type Formateur struct {
	bun.BaseModel `bun:"table:formateurs,alias:frm"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Matricule     string     `bun:"matricule,notnull,unique" json:"matricule,omitempty"`
	Nom           string     `bun:"nom,notnull" json:"nom,omitempty"`
	Specialite    string     `bun:"specialite,notnull" json:"specialite,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	UserID        *uuid.UUID `bun:"user_id,unique,nullzero,type:uuid" json:"user_id,omitempty"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Cours         []*Cours   `bun:"rel:has-many,join:id=formateur_id" json:"cours,omitempty"`
}

// SessionFormation is an academic term, e.g. semester S1 of 2024-2025.
type SessionFormation struct {
	bun.BaseModel `bun:"table:sessions,alias:ses"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Semestre      string    `bun:"semestre,notnull" json:"semestre,omitempty"`
	AnneeScolaire string    `bun:"annee_scolaire,notnull" json:"annee_scolaire,omitempty"`
}

// Cours is a course taught by a Formateur during a SessionFormation.
type Cours struct {
	bun.BaseModel `bun:"table:cours,alias:crs"`
	ID            uuid.UUID         `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Code          string            `bun:"code,notnull,unique" json:"code,omitempty"`
	Titre         string            `bun:"titre,notnull" json:"titre,omitempty"`
	Description   string            `bun:"description" json:"description,omitempty"`
	FormateurID   *uuid.UUID        `bun:"formateur_id,nullzero,type:uuid" json:"formateur_id,omitempty"`
	Formateur     *Formateur        `bun:"rel:belongs-to,join:formateur_id=id" json:"formateur,omitempty"`
	SessionID     *uuid.UUID        `bun:"session_id,nullzero,type:uuid" json:"session_id,omitempty"`
	Session       *SessionFormation `bun:"rel:belongs-to,join:session_id=id" json:"session,omitempty"`
}

// Groupe is a named cohort of students attending courses together.
type Groupe struct {
	bun.BaseModel `bun:"table:groupes,alias:grp"`
	ID            uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Nom           string         `bun:"nom,notnull,unique" json:"nom,omitempty"`
	CoursGroupes  []*CoursGroupe `bun:"rel:has-many,join:id=groupe_id" json:"cours_groupes,omitempty"`
}

// CoursGroupe links a Groupe to one Cours it attends. A course appears
// at most once per group.
type CoursGroupe struct {
	bun.BaseModel `bun:"table:cours_groupe,alias:cgr"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	GroupeID      uuid.UUID `bun:"groupe_id,notnull,type:uuid,unique:uq_cours_groupe" json:"groupe_id,omitempty"`
	Groupe        *Groupe   `bun:"rel:belongs-to,join:groupe_id=id" json:"groupe,omitempty"`
	CoursID       uuid.UUID `bun:"cours_id,notnull,type:uuid,unique:uq_cours_groupe" json:"cours_id,omitempty"`
	Cours         *Cours    `bun:"rel:belongs-to,join:cours_id=id" json:"cours,omitempty"`
}

// Inscription statuses
const (
	InscriptionActive    = "ACTIVE"
	InscriptionCancelled = "CANCELLED"
	InscriptionCompleted = "COMPLETED"
)

// Inscription enrolls an Etudiant in a Cours.
type Inscription struct {
	bun.BaseModel   `bun:"table:inscriptions,alias:ins"`
	ID              uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	DateInscription *time.Time `bun:"date_inscription,nullzero,default:current_timestamp" json:"date_inscription,omitempty"`
	Status          string     `bun:"status,notnull,default:'ACTIVE'" json:"status,omitempty"`
	EtudiantID      uuid.UUID  `bun:"etudiant_id,notnull,type:uuid" json:"etudiant_id,omitempty"`
	Etudiant        *Etudiant  `bun:"rel:belongs-to,join:etudiant_id=id" json:"etudiant,omitempty"`
	CoursID         uuid.UUID  `bun:"cours_id,notnull,type:uuid" json:"cours_id,omitempty"`
	Cours           *Cours     `bun:"rel:belongs-to,join:cours_id=id" json:"cours,omitempty"`
}

// Seance is one scheduled class occurrence.
type Seance struct {
	bun.BaseModel `bun:"table:seances,alias:sea"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Date          time.Time  `bun:"date,notnull" json:"date,omitempty"`
	Heure         string     `bun:"heure,notnull" json:"heure,omitempty"`
	Salle         string     `bun:"salle" json:"salle,omitempty"`
	CoursID       uuid.UUID  `bun:"cours_id,notnull,type:uuid" json:"cours_id,omitempty"`
	Cours         *Cours     `bun:"rel:belongs-to,join:cours_id=id" json:"cours,omitempty"`
	FormateurID   *uuid.UUID `bun:"formateur_id,nullzero,type:uuid" json:"formateur_id,omitempty"`
	Formateur     *Formateur `bun:"rel:belongs-to,join:formateur_id=id" json:"formateur,omitempty"`
}

// Note is a grade, out of 20, given to an Etudiant for a Cours.
type Note struct {
	bun.BaseModel `bun:"table:notes,alias:not"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Valeur        float64    `bun:"valeur,notnull" json:"valeur"`
	DateSaisie    *time.Time `bun:"date_saisie,nullzero,default:current_timestamp" json:"date_saisie,omitempty"`
	EtudiantID    uuid.UUID  `bun:"etudiant_id,notnull,type:uuid" json:"etudiant_id,omitempty"`
	Etudiant      *Etudiant  `bun:"rel:belongs-to,join:etudiant_id=id" json:"etudiant,omitempty"`
	CoursID       uuid.UUID  `bun:"cours_id,notnull,type:uuid" json:"cours_id,omitempty"`
	Cours         *Cours     `bun:"rel:belongs-to,join:cours_id=id" json:"cours,omitempty"`
}

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/formation-app/centre-server/model"
	"github.com/google/uuid"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// TokenService issues and validates the bearer tokens of the stateless
// API pipeline. Tokens carry only a subject claim; the subject is always
// a login, never an email, and the holder's role is re-read from the
// store on every request rather than baked into the token.
type TokenService interface {
	Issue(subject string) (string, error)
	ExtractSubject(token string) (string, error)
	Validate(token, expectedSubject string) error
}

// IdentityResolver maps a human supplied identifier to a user account.
type IdentityResolver interface {
	Resolve(ctx context.Context, identifier string) (*Resolution, error)
	ResolveLogin(ctx context.Context, login string) (*Resolution, error)
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	CurrentUser(ctx context.Context, token string) (*Resolution, error)
}

// Config holds the process wide auth options, read once at startup.
type Config interface {
	GetSigningKey() string
	GetTokenTTL() time.Duration
	GetContextKey() string
	GetAuthScheme() string
}

// UserStore retrieves user accounts by login.
type UserStore interface {
	GetByLogin(ctx context.Context, login string) (*model.User, error)
}

// StudentStore retrieves student profiles for email fallback resolution.
type StudentStore interface {
	GetByEmail(ctx context.Context, email string) (*model.Etudiant, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Etudiant, error)
}

// TrainerStore retrieves trainer profiles for email fallback resolution.
type TrainerStore interface {
	GetByEmail(ctx context.Context, email string) (*model.Formateur, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Formateur, error)
}

// LoginResult is what a successful login yields.
type LoginResult struct {
	Token      string
	User       *model.User
	Resolution *Resolution
}

// DefaultLogger returns the stdout fallback logger used when no logger
// was injected.
func DefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(msg), args...)
}

func (d defLogger) Warn(msg string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(msg), args...)
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(msg), args...)
}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(msg), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

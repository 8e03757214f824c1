package auth

import (
	"context"
	"errors"
)

// Auther authenticates identifiers against the store and mints tokens.
type Auther struct {
	resolver IdentityResolver
	tokens   TokenService
	logger   Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(resolver IdentityResolver, tokens TokenService) *Auther {
	return &Auther{
		resolver: resolver,
		tokens:   tokens,
		logger:   defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Login resolves the identifier, verifies the password, and issues a token
// whose subject is the account login. Every failure collapses into
// ErrInvalidCredentials externally; orphan profiles are logged in full
// before being collapsed, since they indicate a provisioning bug upstream.
func (s *Auther) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	res, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrOrphanProfile) {
			s.logger.Error("login rejected: orphan profile", "identifier", identifier)
			s.burnCompare(password)
			return nil, ErrInvalidCredentials
		}
		if errors.Is(err, ErrIdentityNotFound) {
			s.logger.Info("login rejected: unknown identifier", "identifier", identifier)
			s.burnCompare(password)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("login resolve error", "error", err)
		return nil, err
	}

	if err := ComparePasswordAndHash(password, res.User.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			s.logger.Info("login rejected: bad password", "login", res.User.Login)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	token, err := s.tokens.Issue(res.User.Login)
	if err != nil {
		s.logger.Error("login token issue error", "error", err)
		return nil, err
	}

	return &LoginResult{
		Token:      token,
		User:       res.User,
		Resolution: res,
	}, nil
}

// burnCompare runs a bcrypt compare against a throwaway hash so a login
// against an unknown identifier costs the same as one against a bad
// password. It keeps the two rejection paths indistinguishable by timing.
func (s *Auther) burnCompare(password string) {
	_ = ComparePasswordAndHash(password, RandomPasswordHash())
}

// CurrentUser re-resolves the token holder from the store. The role that
// comes back is the stored one, not anything frozen at issuance.
func (s *Auther) CurrentUser(ctx context.Context, token string) (*Resolution, error) {
	subject, err := s.tokens.ExtractSubject(token)
	if err != nil {
		return nil, err
	}

	res, err := s.resolver.ResolveLogin(ctx, subject)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Validate(token, res.User.Login); err != nil {
		return nil, err
	}

	return res, nil
}

var _ Authenticator = (*Auther)(nil)

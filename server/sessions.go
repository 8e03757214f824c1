package server

import "sync"

// SessionRegistry tracks the single live web session allowed per login.
// Binding a login to a new session id supersedes the previous one; the
// superseded session is destroyed lazily on its next request.
type SessionRegistry struct {
	mu      sync.Mutex
	byLogin map[string]string
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		byLogin: map[string]string{},
	}
}

// Bind makes sessionID the only live session for login and returns the
// superseded session id, if any.
func (r *SessionRegistry) Bind(login, sessionID string) (previous string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous = r.byLogin[login]
	r.byLogin[login] = sessionID
	if previous == sessionID {
		return ""
	}
	return previous
}

// Current reports whether sessionID is the live session for login.
func (r *SessionRegistry) Current(login, sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.byLogin[login] == sessionID
}

// Release drops the binding, but only if sessionID still owns it.
func (r *SessionRegistry) Release(login, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byLogin[login] == sessionID {
		delete(r.byLogin, login)
	}
}

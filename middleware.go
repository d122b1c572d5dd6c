package authrelay

import (
	"github.com/wsproxy/authrelay/dialect"
	"github.com/wsproxy/authrelay/wire"
)

// AuthMiddleware correlates one login request with its eventual response
// and mutates the connection's User accordingly. One instance exists per
// connection; the dialect backend it parses with is shared and stateless.
//
// Since the client simply disconnects to log out, there is no logout
// handling here.
type AuthMiddleware struct {
	user    *User
	backend dialect.Backend
	logger  Logger
	metrics Metrics

	// requestID is the correlation id of the in-flight login, or nil.
	// At most one login is tracked at a time: a second login request
	// silently supersedes an unresolved one.
	requestID any
}

// NewAuthMiddleware constructs an AuthMiddleware for the given user and
// dialect backend.
func NewAuthMiddleware(user *User, backend dialect.Backend, opts ...Option) (*AuthMiddleware, error) {
	if user == nil {
		return nil, ErrNilUser
	}
	if backend == nil {
		return nil, ErrNilBackend
	}

	m := &AuthMiddleware{
		user:    user,
		backend: backend,
		logger:  NoopLogger(),
		metrics: &NoopMetrics{},
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// InProgress reports whether a login request is awaiting its response.
// The surrounding proxy uses this to decide whether to queue or reject
// overlapping operations.
func (m *AuthMiddleware) InProgress() bool {
	return m.requestID != nil
}

// ProcessRequest inspects a client→server envelope. If it is a login
// request, the middleware starts tracking its correlation id and stages
// the submitted credentials on the User before the outcome is known.
// Every other envelope passes through with zero mutation.
func (m *AuthMiddleware) ProcessRequest(msg wire.Message) {
	requestID := m.backend.RequestID(msg)
	if requestID == nil || !m.backend.IsLoginRequest(msg) {
		return
	}

	username, password, err := m.backend.Credentials(msg)
	if err != nil {
		// IsLoginRequest guarantees both fields are present, so this
		// only fires on a backend bug.
		m.logger.Errorf("auth: cannot extract credentials: %v", err)
		return
	}

	m.requestID = requestID
	m.user.Username = username
	m.user.Password = password
	m.logger.Debugf("auth: tracking login request %v", requestID)
}

// ProcessResponse inspects a server→client envelope. If its correlation
// id matches the tracked login request, the login is resolved exactly
// once: on success the User becomes authenticated with the staged
// credentials, on failure the credentials are cleared. Unrelated
// responses, including retransmissions after the tracked id has been
// cleared, have no effect.
func (m *AuthMiddleware) ProcessResponse(msg wire.Message) {
	requestID := m.backend.RequestID(msg)
	if requestID == nil || !wire.SameID(requestID, m.requestID) {
		return
	}

	if m.backend.LoginSucceeded(msg) {
		m.user.IsAuthenticated = true
		m.logger.Infof("auth: user %s logged in", m.user)
		m.metrics.IncCounter("authrelay_logins_total", map[string]string{"outcome": "success"})
	} else {
		m.user.Username = ""
		m.user.Password = ""
		m.logger.Infof("auth: login request %v rejected", requestID)
		m.metrics.IncCounter("authrelay_logins_total", map[string]string{"outcome": "failure"})
	}
	m.requestID = nil
}

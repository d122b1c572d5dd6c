// Package dialect provides the message-shape parsers for the two wire
// dialects spoken by the upstream API server generations.
//
// A Backend answers four questions about a decoded envelope without side
// effects or retained state: its correlation id, whether it is a login
// request, the credentials it carries, and whether a response reports a
// successful login. Backends know nothing about the authentication
// process or the current user; one backend (the one matching the upstream
// in use) is resolved once at startup and shared read-only across all
// connections.
package dialect

import (
	"errors"
	"fmt"

	"github.com/wsproxy/authrelay/wire"
)

var (
	// ErrUnsupportedDialect is returned by Get for an unknown dialect name.
	ErrUnsupportedDialect = errors.New("unsupported dialect")

	// ErrMalformedLogin is returned by Credentials when the envelope lacks
	// the credential fields. Callers must check IsLoginRequest first; this
	// error signals a broken caller, not a user-facing failure.
	ErrMalformedLogin = errors.New("malformed login request")
)

// Backend parses envelopes for one wire dialect.
type Backend interface {
	// RequestID returns the envelope's correlation id, or nil when absent.
	RequestID(msg wire.Message) any

	// IsLoginRequest reports whether the envelope is an administrative
	// login request carrying both credential fields.
	IsLoginRequest(msg wire.Message) bool

	// Credentials extracts the username and password from a login request.
	// It must only be called after IsLoginRequest returned true.
	Credentials(msg wire.Message) (username, password string, err error)

	// LoginSucceeded reports whether a login response carries no error
	// indicator.
	LoginSucceeded(msg wire.Message) bool
}

// Backends are stateless, so a single instance per dialect serves the
// whole process.
var backends = map[string]Backend{
	"go":     goBackend{},
	"python": pythonBackend{},
}

// Get returns the shared Backend for the named dialect. It is the single
// validation point guarding the rest of the system from an unrecognized
// protocol generation.
func Get(name string) (Backend, error) {
	backend, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, name)
	}
	return backend, nil
}

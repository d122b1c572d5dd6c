// Package token issues and redeems the short-lived, single-use tokens
// that let a client re-authenticate without re-sending a password, for
// example after a page reload.
//
// Token requests arrive as a dedicated sub-protocol on the same WebSocket
// as ordinary traffic and are answered locally by the proxy; they are
// never forwarded to the upstream server. A token's lifecycle is
// issued → redeemed or issued → expired, both terminal: whichever of
// redemption and expiry wins removes the entry, and the loser observes
// absence.
package token

import (
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wsproxy/authrelay"
	"github.com/wsproxy/authrelay/wire"
)

// DefaultMaxLife is the token time-to-live used unless WithMaxLife is given.
const DefaultMaxLife = 2 * time.Minute

// Timestamps in creation responses use ISO-8601 UTC with a trailing Z and
// microsecond precision. The Z is literal; values are converted to UTC
// before formatting.
const timestampFormat = "2006-01-02T15:04:05.000000Z"

const (
	unknownTokenError = "unknown, fulfilled, or expired token"
	unauthorizedCode  = "unauthorized access"
)

// CancelFunc cancels a scheduled expiry. Cancelling after the expiry has
// fired is a no-op.
type CancelFunc func()

// Scheduler runs fn after d elapses. The default is time.AfterFunc; tests
// inject their own to drive expiry deterministically.
type Scheduler func(d time.Duration, fn func()) CancelFunc

// record holds the credentials recoverable through one token.
//
// Stashing raw credentials is a security risk deemed acceptably small:
// an authenticated WebSocket held in memory has a similar risk profile
// and the proxy cannot operate without that.
type record struct {
	username string
	password string
	cancel   CancelFunc
}

// Handler serves the token sub-protocol. One instance may be shared by
// every connection of the process; the store is guarded by a mutex so
// redemption and expiry race safely.
type Handler struct {
	maxLife  time.Duration
	now      func() time.Time
	schedule Scheduler
	logger   authrelay.Logger
	metrics  authrelay.Metrics

	mu     sync.Mutex
	tokens map[string]record
}

// NewHandler constructs a Handler with the given options.
func NewHandler(opts ...Option) (*Handler, error) {
	h := &Handler{
		maxLife: DefaultMaxLife,
		now:     time.Now,
		schedule: func(d time.Duration, fn func()) CancelFunc {
			timer := time.AfterFunc(d, fn)
			return func() { timer.Stop() }
		},
		logger:  authrelay.NoopLogger(),
		metrics: &authrelay.NoopMetrics{},
		tokens:  make(map[string]record),
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// TokenRequested reports whether msg is a token creation request. It is
// independent of the login tracking done by AuthMiddleware.
func (h *Handler) TokenRequested(msg wire.Message) bool {
	typ, _ := msg.String("Type")
	req, _ := msg.String("Request")
	return msg.Has("RequestId") && typ == "GUIToken" && req == "Create"
}

// ProcessTokenRequest creates a single-use, time-expired token for the
// user's current credentials and sends the creation response locally.
func (h *Handler) ProcessTokenRequest(msg wire.Message, user *authrelay.User, write wire.WriteFunc) error {
	id := uuid.New()
	tok := hex.EncodeToString(id[:])

	cancel := h.schedule(h.maxLife, func() { h.expire(tok) })

	h.mu.Lock()
	h.tokens[tok] = record{
		username: user.Username,
		password: user.Password,
		cancel:   cancel,
	}
	live := len(h.tokens)
	h.mu.Unlock()

	h.logger.Debugf("token: issued for user %s", user)
	h.metrics.IncCounter("authrelay_tokens_total", map[string]string{"event": "issued"})
	h.metrics.SetGauge("authrelay_tokens_live", float64(live), nil)

	now := h.now().UTC()
	return write(wire.Message{
		"RequestId": msg["RequestId"],
		"Response": wire.Message{
			"Token":   tok,
			"Created": now.Format(timestampFormat),
			"Expires": now.Add(h.maxLife).Format(timestampFormat),
		},
	})
}

// AuthenticationRequested reports whether msg is a token login request.
func (h *Handler) AuthenticationRequested(msg wire.Message) bool {
	typ, _ := msg.String("Type")
	req, _ := msg.String("Request")
	return msg.Has("RequestId") && typ == "GUIToken" && req == "Login" &&
		msg.Map("Params").Has("Token")
}

// ProcessAuthenticationRequest redeems the token carried by msg. When the
// token is live, its credentials are returned with ok true and the caller
// is expected to perform a real login exchange on the user's behalf. When
// it is unknown, already consumed or expired, a local error response is
// written and ok is false: the request has been fully handled.
func (h *Handler) ProcessAuthenticationRequest(msg wire.Message, write wire.WriteFunc) (username, password string, ok bool, err error) {
	tok, _ := msg.Map("Params").String("Token")

	h.mu.Lock()
	rec, found := h.tokens[tok]
	if found {
		delete(h.tokens, tok)
	}
	live := len(h.tokens)
	h.mu.Unlock()

	if !found {
		h.metrics.IncCounter("authrelay_tokens_total", map[string]string{"event": "rejected"})
		err := write(wire.Message{
			"RequestId": msg["RequestId"],
			"Error":     unknownTokenError,
			"ErrorCode": unauthorizedCode,
			"Response":  wire.Message{},
		})
		return "", "", false, err
	}

	// The entry is already gone; cancelling just releases the timer.
	rec.cancel()
	h.logger.Debugf("token: redeemed for user %s", rec.username)
	h.metrics.IncCounter("authrelay_tokens_total", map[string]string{"event": "redeemed"})
	h.metrics.SetGauge("authrelay_tokens_live", float64(live), nil)
	return rec.username, rec.password, true, nil
}

// ProcessAuthenticationResponse builds the success response for a token
// login whose real login exchange has completed. It carries the recovered
// credentials so the client can cache them for subsequent direct use.
func (h *Handler) ProcessAuthenticationResponse(msg wire.Message, user *authrelay.User) wire.Message {
	return wire.Message{
		"RequestId": msg["RequestId"],
		"Response": wire.Message{
			"AuthTag":  user.Username,
			"Password": user.Password,
		},
	}
}

func (h *Handler) expire(tok string) {
	h.mu.Lock()
	_, found := h.tokens[tok]
	if found {
		delete(h.tokens, tok)
	}
	live := len(h.tokens)
	h.mu.Unlock()

	// Redemption may have won the race, in which case there is nothing
	// to do.
	if found {
		h.logger.Debugf("token: expired unredeemed")
		h.metrics.IncCounter("authrelay_tokens_total", map[string]string{"event": "expired"})
		h.metrics.SetGauge("authrelay_tokens_live", float64(live), nil)
	}
}

// Package proxy relays WebSocket traffic between a browser client and the
// upstream API server, embedding the authrelay core: login exchanges are
// observed by the auth middleware, and the token sub-protocol is answered
// locally without ever reaching the upstream.
package proxy

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/wsproxy/authrelay"
	"github.com/wsproxy/authrelay/dialect"
	"github.com/wsproxy/authrelay/token"
)

// ErrNoUpstream is returned when a Proxy is constructed without an
// upstream URL.
var ErrNoUpstream = errors.New("upstream URL is required")

// Proxy accepts WebSocket connections and relays them to the upstream
// server. One Proxy serves many connections; each connection gets its own
// User and AuthMiddleware while the token handler is shared so tokens
// survive reconnects within their lifetime.
type Proxy struct {
	upstreamURL string
	dialectName string
	backend     dialect.Backend
	tokens      *token.Handler
	logger      authrelay.Logger
	metrics     authrelay.Metrics
	tracer      authrelay.Tracer
	upgrader    websocket.Upgrader
	dialer      *websocket.Dialer
}

// New constructs a Proxy. The dialect name is validated here, once, so an
// unrecognized protocol generation fails at startup instead of per
// message.
func New(opts ...ProxyOption) (*Proxy, error) {
	p := &Proxy{
		dialectName: "go",
		logger:      authrelay.NoopLogger(),
		metrics:     &authrelay.NoopMetrics{},
		tracer:      &authrelay.NoopTracer{},
		dialer:      websocket.DefaultDialer,
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	if p.upstreamURL == "" {
		return nil, ErrNoUpstream
	}

	backend, err := dialect.Get(p.dialectName)
	if err != nil {
		return nil, err
	}
	p.backend = backend

	if p.tokens == nil {
		tokens, err := token.NewHandler(
			token.WithLogger(p.logger),
			token.WithMetrics(p.metrics),
		)
		if err != nil {
			return nil, err
		}
		p.tokens = tokens
	}
	return p, nil
}

// ServeHTTP upgrades the client request and relays it to the upstream
// server until either side disconnects.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	client, err := p.upgrader.Upgrade(w, r, nil)
	if err != nil {
		p.logger.Errorf("proxy: upgrade failed: %v", err)
		return
	}
	defer client.Close()

	upstream, _, err := p.dialer.DialContext(r.Context(), p.upstreamURL, nil)
	if err != nil {
		p.logger.Errorf("proxy: cannot reach upstream %s: %v", p.upstreamURL, err)
		return
	}
	defer upstream.Close()

	p.metrics.IncCounter("authrelay_sessions_total", nil)
	span := p.tracer.StartSpan("proxy.session")
	span.SetTag("dialect", p.dialectName)
	defer span.Finish()

	session := p.newSession(client, upstream)
	if err := session.Run(r.Context()); err != nil {
		p.logger.Debugf("proxy: session ended: %v", err)
	}
}

// ProxyOption configures a Proxy.
type ProxyOption func(*Proxy) error

// WithUpstream sets the upstream WebSocket URL (required).
func WithUpstream(url string) ProxyOption {
	return func(p *Proxy) error {
		if url == "" {
			return ErrNoUpstream
		}
		p.upstreamURL = url
		return nil
	}
}

// WithDialect selects the wire dialect spoken by the upstream server.
// Default: "go".
func WithDialect(name string) ProxyOption {
	return func(p *Proxy) error {
		p.dialectName = name
		return nil
	}
}

// WithTokenHandler supplies a shared token handler. When omitted, the
// proxy creates one with the default time-to-live.
func WithTokenHandler(tokens *token.Handler) ProxyOption {
	return func(p *Proxy) error {
		if tokens == nil {
			return errors.New("token handler cannot be nil")
		}
		p.tokens = tokens
		return nil
	}
}

// WithLogger sets the logger for proxy and session events.
func WithLogger(logger authrelay.Logger) ProxyOption {
	return func(p *Proxy) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		p.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(metrics authrelay.Metrics) ProxyOption {
	return func(p *Proxy) error {
		if metrics == nil {
			return errors.New("metrics cannot be nil")
		}
		p.metrics = metrics
		return nil
	}
}

// WithTracer sets the tracer used for session spans.
func WithTracer(tracer authrelay.Tracer) ProxyOption {
	return func(p *Proxy) error {
		if tracer == nil {
			return errors.New("tracer cannot be nil")
		}
		p.tracer = tracer
		return nil
	}
}

// WithCheckOrigin overrides the upgrader's origin check. The GUI is
// usually served from a different origin than the proxy, so deployments
// commonly need this.
func WithCheckOrigin(check func(*http.Request) bool) ProxyOption {
	return func(p *Proxy) error {
		if check == nil {
			return errors.New("origin check cannot be nil")
		}
		p.upgrader.CheckOrigin = check
		return nil
	}
}

// newSession builds the per-connection state.
func (p *Proxy) newSession(client, upstream Conn) *Session {
	user := &authrelay.User{}
	// Construction cannot fail: user and backend are always non-nil here.
	auth, err := authrelay.NewAuthMiddleware(user, p.backend,
		authrelay.WithLogger(p.logger),
		authrelay.WithMetrics(p.metrics),
	)
	if err != nil {
		panic(fmt.Sprintf("proxy: middleware construction: %v", err))
	}
	return &Session{
		user:        user,
		auth:        auth,
		tokens:      p.tokens,
		backend:     p.backend,
		dialectName: p.dialectName,
		logger:      p.logger,
		client:      client,
		upstream:    upstream,
	}
}

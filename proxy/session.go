package proxy

import (
	"context"

	"github.com/wsproxy/authrelay"
	"github.com/wsproxy/authrelay/dialect"
	"github.com/wsproxy/authrelay/token"
	"github.com/wsproxy/authrelay/wire"
)

// Conn is the subset of *websocket.Conn the session needs. Tests
// substitute in-memory fakes.
type Conn interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
	Close() error
}

// Session relays one client connection. Both pumps feed a single loop
// goroutine, so every handler runs to completion before the next message
// is looked at; per-connection state needs no locking.
type Session struct {
	user        *authrelay.User
	auth        *authrelay.AuthMiddleware
	tokens      *token.Handler
	backend     dialect.Backend
	dialectName string
	logger      authrelay.Logger

	client   Conn
	upstream Conn

	// tokenLogin is the token login request currently being fulfilled by
	// a synthesized upstream login, or nil. Its correlation id marks the
	// upstream response that must be answered with the recovered
	// credentials instead of being forwarded.
	tokenLogin wire.Message
}

type side int

const (
	fromClient side = iota
	fromUpstream
)

type event struct {
	side side
	msg  wire.Message
	err  error
}

// Run pumps messages until either side disconnects or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	events := make(chan event)
	done := make(chan struct{})
	defer close(done)
	go pump(s.client, fromClient, events, done)
	go pump(s.upstream, fromUpstream, events, done)

	defer s.client.Close()
	defer s.upstream.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if ev.err != nil {
				return ev.err
			}
			var err error
			if ev.side == fromClient {
				err = s.HandleClientMessage(ev.msg)
			} else {
				err = s.HandleUpstreamMessage(ev.msg)
			}
			if err != nil {
				return err
			}
		}
	}
}

// pump reads envelopes into the session loop until the connection fails
// or the session stops listening.
func pump(conn Conn, from side, events chan<- event, done <-chan struct{}) {
	for {
		var msg wire.Message
		if err := conn.ReadJSON(&msg); err != nil {
			select {
			case events <- event{side: from, err: err}:
			case <-done:
			}
			return
		}
		select {
		case events <- event{side: from, msg: msg}:
		case <-done:
			return
		}
	}
}

// HandleClientMessage routes one client→server envelope. Token
// sub-protocol requests are answered locally; everything else is observed
// by the auth middleware and forwarded upstream.
func (s *Session) HandleClientMessage(msg wire.Message) error {
	switch {
	case s.tokens.TokenRequested(msg):
		return s.tokens.ProcessTokenRequest(msg, s.user, s.writeClient)

	case s.tokens.AuthenticationRequested(msg):
		username, password, ok, err := s.tokens.ProcessAuthenticationRequest(msg, s.writeClient)
		if !ok {
			// Already answered with the unknown-token error.
			return err
		}
		// Fulfill the token by performing a real login on the user's
		// behalf, reusing the client's correlation id so the eventual
		// response can be matched back to this request.
		login := loginRequest(s.dialectName, msg["RequestId"], username, password)
		s.auth.ProcessRequest(login)
		s.tokenLogin = msg
		return s.upstream.WriteJSON(login)

	default:
		s.auth.ProcessRequest(msg)
		return s.upstream.WriteJSON(msg)
	}
}

// HandleUpstreamMessage routes one server→client envelope. The response
// completing a token-initiated login is replaced with the token success
// envelope; everything else is observed by the auth middleware and
// forwarded to the client.
func (s *Session) HandleUpstreamMessage(msg wire.Message) error {
	s.auth.ProcessResponse(msg)

	if s.tokenLogin != nil && wire.SameID(s.backend.RequestID(msg), s.tokenLogin["RequestId"]) {
		tokenLogin := s.tokenLogin
		s.tokenLogin = nil
		if s.backend.LoginSucceeded(msg) {
			return s.client.WriteJSON(s.tokens.ProcessAuthenticationResponse(tokenLogin, s.user))
		}
		// The upstream rejection already carries its own error envelope;
		// let the client see it unchanged.
	}
	return s.client.WriteJSON(msg)
}

// writeClient is the local-response sink handed to the token handler.
func (s *Session) writeClient(msg wire.Message) error {
	return s.client.WriteJSON(msg)
}

// loginRequest builds a login request in the active dialect carrying the
// recovered credentials.
func loginRequest(dialectName string, requestID any, username, password string) wire.Message {
	if dialectName == "python" {
		return wire.Message{
			"request_id": requestID,
			"op":         "login",
			"user":       username,
			"password":   password,
		}
	}
	return wire.Message{
		"RequestId": requestID,
		"Type":      "Admin",
		"Request":   "Login",
		"Params":    wire.Message{"AuthTag": username, "Password": password},
	}
}

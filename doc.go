// Package authrelay implements the authentication core of a WebSocket
// proxy sitting between a browser client and a backend API server.
//
// The package does not forward messages itself. The surrounding proxy
// hands every client→server envelope to AuthMiddleware.ProcessRequest and
// every server→client envelope to AuthMiddleware.ProcessResponse; the
// middleware recognizes login exchanges in the active wire dialect and
// tracks the connection's User state as a byproduct. Short-lived
// single-use tokens, which let a client re-authenticate without
// re-sending a password, are handled by the token subpackage. A complete
// relay wiring both together over gorilla/websocket lives in the proxy
// subpackage.
package authrelay

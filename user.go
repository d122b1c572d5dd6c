package authrelay

import "fmt"

// User is the current WebSocket user. One instance exists per client
// connection, created unauthenticated when the connection is established
// and discarded when it closes. Only AuthMiddleware mutates it; the token
// handler reads it.
//
// The password is kept in memory in the clear so that token redemption
// can hand the original credentials back to the client. This is an
// accepted risk: an authenticated WebSocket held in memory carries a
// similar exposure, and the proxy cannot operate without that.
type User struct {
	Username        string
	Password        string
	IsAuthenticated bool
}

// String renders the user for log lines. The password is never included.
func (u *User) String() string {
	username := u.Username
	if username == "" {
		username = "anonymous"
	}
	status := "not authenticated"
	if u.IsAuthenticated {
		status = "authenticated"
	}
	return fmt.Sprintf("<User: %s (%s)>", username, status)
}

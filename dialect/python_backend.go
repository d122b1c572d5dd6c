package dialect

import "github.com/wsproxy/authrelay/wire"

// pythonBackend parses envelopes for the Python generation of the
// upstream API.
//
// A login request looks like:
//
//	{"request_id": 42, "op": "login", "user": "admin", "password": "SECRET"}
//
// The response echoes the request fields; success adds "result": true and
// a failure adds "err": true.
type pythonBackend struct{}

func (pythonBackend) RequestID(msg wire.Message) any {
	return msg["request_id"]
}

func (pythonBackend) IsLoginRequest(msg wire.Message) bool {
	op, _ := msg.String("op")
	return op == "login" && msg.Has("user") && msg.Has("password")
}

func (pythonBackend) Credentials(msg wire.Message) (string, string, error) {
	username, uok := msg.String("user")
	password, pok := msg.String("password")
	if !uok || !pok {
		return "", "", ErrMalformedLogin
	}
	return username, password, nil
}

func (pythonBackend) LoginSucceeded(msg wire.Message) bool {
	result, _ := msg["result"].(bool)
	err, _ := msg["err"].(bool)
	return result && !err
}

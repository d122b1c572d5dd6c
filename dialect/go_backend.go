package dialect

import "github.com/wsproxy/authrelay/wire"

// goBackend parses envelopes for the Go generation of the upstream API.
//
// A login request looks like:
//
//	{"RequestId": 42, "Type": "Admin", "Request": "Login",
//	 "Params": {"AuthTag": "user-admin", "Password": "SECRET"}}
//
// A successful response is {"RequestId": 42, "Response": {}}; a failure
// additionally carries "Error" and "ErrorCode" fields.
type goBackend struct{}

func (goBackend) RequestID(msg wire.Message) any {
	return msg["RequestId"]
}

func (goBackend) IsLoginRequest(msg wire.Message) bool {
	typ, _ := msg.String("Type")
	req, _ := msg.String("Request")
	params := msg.Map("Params")
	return typ == "Admin" && req == "Login" &&
		params.Has("AuthTag") && params.Has("Password")
}

func (goBackend) Credentials(msg wire.Message) (string, string, error) {
	params := msg.Map("Params")
	username, uok := params.String("AuthTag")
	password, pok := params.String("Password")
	if !uok || !pok {
		return "", "", ErrMalformedLogin
	}
	return username, password, nil
}

func (goBackend) LoginSucceeded(msg wire.Message) bool {
	return !msg.Has("Error")
}

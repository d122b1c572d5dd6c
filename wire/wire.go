// Package wire defines the decoded WebSocket envelope shared by the
// dialect backends, the auth middleware and the token handler.
//
// Envelopes are JSON objects decoded into a generic mapping: field names
// differ per dialect, so no static struct can cover them all. Correlation
// identifiers are kept as `any` because JSON numbers decode as float64
// while other encoders may produce strings; they are only ever compared
// for equality and echoed back.
package wire

import "reflect"

// Message is a decoded WebSocket envelope.
type Message map[string]any

// WriteFunc sends a locally generated envelope directly to the client,
// bypassing the upstream server. It is supplied by the surrounding proxy.
type WriteFunc func(Message) error

// Has reports whether the key is present, regardless of its value.
func (m Message) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// String returns the value of key if it is present and a string.
func (m Message) String(key string) (string, bool) {
	v, ok := m[key].(string)
	return v, ok
}

// SameID reports whether two correlation ids are equal. A decoded id can
// hold a non-comparable value (a JSON array, say), which would make ==
// on interface values panic, so equality goes through reflect.DeepEqual.
func SameID(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// Map returns the value of key if it is present and an object. A missing
// or non-object key yields an empty Message, so lookups can be chained.
func (m Message) Map(key string) Message {
	switch v := m[key].(type) {
	case Message:
		return v
	case map[string]any:
		return Message(v)
	default:
		return Message{}
	}
}

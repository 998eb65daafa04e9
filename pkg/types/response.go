package types

// Payload is the body of a successful response before the success flag is
// stamped on; keys sit next to "success" on the wire, e.g.
// {"success":true,"user":{...}}.
type Payload map[string]any

// ErrorEnvelope is the wire shape of every failed response: a single
// human-readable message under "error".
type ErrorEnvelope struct {
	Error string `json:"error"`
}

package transport

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the JSON body into target. An empty body leaves target untouched.
func (r *Response) Decode(target any) error {
	if len(r.Body) == 0 || target == nil {
		return nil
	}
	return json.Unmarshal(r.Body, target)
}

// Message extracts a human-readable message from an error body.
// It looks for "message", then "error" (string or {"message": ...}).
// It returns "" when the body carries none.
func (r *Response) Message() string {
	return RemoteMessage(r.Body)
}

// RemoteMessage extracts the server message from a JSON error body.
func RemoteMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if msg := rawString(payload.Message); msg != "" {
		return msg
	}
	if msg := rawString(payload.Error); msg != "" {
		return msg
	}
	var nested struct {
		Message string `json:"message"`
	}
	if len(payload.Error) > 0 && json.Unmarshal(payload.Error, &nested) == nil {
		return strings.TrimSpace(nested.Message)
	}
	return ""
}

func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		// validation failures may arrive as a list of messages
		var list []string
		if json.Unmarshal(raw, &list) == nil {
			return strings.TrimSpace(strings.Join(list, "; "))
		}
		return ""
	}
	return strings.TrimSpace(s)
}

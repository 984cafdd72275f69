package apierr

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Record is the normalized description of one failed request. It is created
// once per failure, never mutated afterwards, and handed both to listeners
// and to the caller.
type Record struct {
	// Status is the HTTP status code, or 0 for pure transport failures.
	Status int
	Kind   Kind
	// Message is the recommended user-facing text.
	Message string
	RawBody []byte
	URL     string
	Method  string
	// RequestID is the X-Request-Id the call carried, for correlation.
	RequestID string
	Time      time.Time
}

// Error lets a Record travel through error-returning call chains unchanged.
func (r *Record) Error() string {
	if r.Status == 0 {
		return fmt.Sprintf("%s %s: %s", r.Method, r.URL, r.Kind)
	}
	return fmt.Sprintf("%s %s: %s (status %d)", r.Method, r.URL, r.Kind, r.Status)
}

// envelope mirrors the server's JSON error shape. FastAPI reports failures
// as {"detail": ...} where detail is a string or a list of objects carrying
// a "msg" field; some handlers use {"message": ...} instead.
type envelope struct {
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
}

// messageFromBody extracts the server-provided message from an error body.
// The second return value reports whether the body parsed as JSON at all;
// when it did but carried no recognizable message, ("", true) is returned.
func messageFromBody(body []byte) (string, bool) {
	if len(body) == 0 {
		return "", false
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", false
	}
	if env.Message != "" {
		return env.Message, true
	}
	if len(env.Detail) == 0 {
		return "", true
	}

	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		return s, true
	}

	// Array form: items are objects with "msg", or plain strings.
	var items []json.RawMessage
	if err := json.Unmarshal(env.Detail, &items); err != nil {
		return "", true
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		var obj struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(item, &obj); err == nil && obj.Msg != "" {
			parts = append(parts, obj.Msg)
			continue
		}
		var str string
		if err := json.Unmarshal(item, &str); err == nil && str != "" {
			parts = append(parts, str)
		}
	}
	return strings.Join(parts, ", "), true
}

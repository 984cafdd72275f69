package apierr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/riceguard/riceguard/internal/client/events"
	"github.com/riceguard/riceguard/internal/client/nav"
	"github.com/riceguard/riceguard/internal/client/session"
	"github.com/riceguard/riceguard/internal/logging"
)

// User-facing messages per taxonomy kind.
const (
	msgNetwork        = "Cannot reach the server. Please check your connection."
	msgTimeout        = "Request timed out. Please check your connection."
	msgSessionExpired = "Your session has expired. Please log in again."
	msgPleaseLogIn    = "Please log in to continue."
	msgForbidden      = "You do not have permission to perform this action."
	msgNotFound       = "The requested resource was not found."
	msgTooLarge       = "The file is too large."
	msgUnsupported    = "Unsupported file type."
	msgRateLimited    = "Too many requests. Please try again later."
	msgGenericClient  = "Request failed. Please try again."
	msgServer         = "Server error. Please try again later."
)

// Outcome describes one failed attempt as seen by the transport layer:
// either a completed response with a non-success status, or a transport
// failure that never produced a status.
type Outcome struct {
	URL       string
	Method    string
	RequestID string

	// Status is 0 for transport-level failures.
	Status int
	Body   []byte

	// Err is the transport error, when Status is 0.
	Err error
	// TimedOut marks a transport failure caused by the request deadline.
	TimedOut bool
	// ParseFailure marks a success-status response whose body could not be
	// decoded.
	ParseFailure bool
}

// Classifier maps failed attempts to Records and runs the user-facing
// consequences: exactly one message per failure, and on 401 exactly one
// session teardown, one resume-path capture, and one scheduled redirect.
// After the side effects, registered listeners are notified.
type Classifier struct {
	tokens       *session.Store
	bus          *events.Bus
	nav          *nav.Navigator
	show         func(message string)
	messageDelay time.Duration
	log          logging.Logger
	now          func() time.Time
}

// NewClassifier wires the classifier's collaborators. show is the message
// callback handed to the presentation layer; messageDelay is the display
// window before the post-401 redirect fires.
func NewClassifier(tokens *session.Store, bus *events.Bus, navigator *nav.Navigator,
	show func(string), messageDelay time.Duration, log logging.Logger) *Classifier {
	return &Classifier{
		tokens:       tokens,
		bus:          bus,
		nav:          navigator,
		show:         show,
		messageDelay: messageDelay,
		log:          log,
		now:          time.Now,
	}
}

// Classify builds the Record for a failed attempt and performs its side
// effects. The Record is returned for propagation to the caller; local
// handling and propagation are never mutually exclusive.
func (c *Classifier) Classify(ctx context.Context, out Outcome) *Record {
	rec := &Record{
		Status:    out.Status,
		URL:       out.URL,
		Method:    out.Method,
		RequestID: out.RequestID,
		RawBody:   out.Body,
		Time:      c.now(),
	}

	serverMsg, bodyIsJSON := messageFromBody(out.Body)

	switch {
	case out.Status == 0:
		rec.Kind = KindNetwork
		rec.Message = msgNetwork
		if out.TimedOut {
			rec.Message = msgTimeout
		}
	case out.ParseFailure:
		rec.Kind = KindParse
		rec.Message = httpFallback(out.Status)
	default:
		rec.Kind = KindForStatus(out.Status)
		rec.Message = c.selectMessage(rec.Kind, out.Status, serverMsg, bodyIsJSON, len(out.Body) > 0)
	}

	c.applySideEffects(ctx, rec)
	c.notifyListeners(ctx, rec, out)
	return rec
}

func (c *Classifier) selectMessage(kind Kind, status int, serverMsg string, bodyIsJSON, hasBody bool) string {
	switch kind {
	case KindUnauthorized:
		if strings.Contains(strings.ToLower(serverMsg), "token") {
			return msgSessionExpired
		}
		return msgPleaseLogIn
	case KindForbidden:
		return msgForbidden
	case KindNotFound:
		return msgNotFound
	case KindPayloadTooLarge:
		return msgTooLarge
	case KindUnsupportedMedia:
		return msgUnsupported
	case KindRateLimited:
		return msgRateLimited
	case KindServer:
		if hasBody && !bodyIsJSON {
			return httpFallback(status)
		}
		return msgServer
	default:
		if serverMsg != "" {
			return serverMsg
		}
		if hasBody && !bodyIsJSON {
			return httpFallback(status)
		}
		return msgGenericClient
	}
}

func httpFallback(status int) string {
	return fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))
}

// applySideEffects runs the local consequences of the failure. A classified
// 401 tears the session down, captures the resume path, emits its message,
// and schedules the delayed redirect; every other kind emits a message only.
func (c *Classifier) applySideEffects(ctx context.Context, rec *Record) {
	if rec.Kind == KindUnauthorized {
		if err := c.tokens.Clear(ctx); err != nil {
			c.warn(ctx, "session teardown failed", "error", err)
		}
		c.nav.CaptureResume()
		c.showMessage(rec.Message)
		c.nav.ScheduleLogin(c.messageDelay)
		return
	}
	c.showMessage(rec.Message)
}

func (c *Classifier) notifyListeners(ctx context.Context, rec *Record, out Outcome) {
	var parsed map[string]any
	if len(out.Body) > 0 {
		// Best effort; listeners get nil when the body is not a JSON object.
		_ = json.Unmarshal(out.Body, &parsed)
	}
	c.bus.Notify(ctx, rec, events.Context{
		URL:     out.URL,
		Status:  out.Status,
		RawBody: out.Body,
		Parsed:  parsed,
	})
}

func (c *Classifier) showMessage(msg string) {
	if c.show != nil {
		c.show(msg)
	}
}

func (c *Classifier) warn(ctx context.Context, msg string, args ...any) {
	if c.log != nil {
		c.log.Warn(ctx, msg, args...)
	}
}

// Package apierr normalizes failed API calls into a stable error taxonomy
// and carries out the user-facing consequences of each failure exactly once:
// message selection, session teardown on 401, redirect scheduling, and
// listener notification.
package apierr

import "net/http"

// Kind classifies a failed request. The value drives both the user message
// and retry eligibility.
type Kind string

const (
	KindNetwork         Kind = "network_error"
	KindParse           Kind = "parse_error"
	KindUnauthorized    Kind = "unauthorized"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindPayloadTooLarge Kind = "payload_too_large"
	KindUnsupportedMedia Kind = "unsupported_media_type"
	KindRateLimited     Kind = "rate_limited"
	KindClient          Kind = "client_error"
	KindServer          Kind = "server_error"
)

// KindForStatus maps an HTTP status to its taxonomy kind. Statuses below 400
// have no kind of their own and map to KindClient.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusRequestEntityTooLarge:
		return KindPayloadTooLarge
	case status == http.StatusUnsupportedMediaType:
		return KindUnsupportedMedia
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 500:
		return KindServer
	default:
		return KindClient
	}
}

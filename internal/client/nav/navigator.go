// Package nav abstracts the client's navigational state for the session
// layer: where the user currently is, how to send them back to the login
// route, and the short-lived "resume" slot restored after re-login.
package nav

import (
	"strings"
	"sync"
	"time"
)

// LoginRoute is the public landing/login location.
const LoginRoute = "/"

// defaultAllowedPrefixes lists the internal routes that may be captured for
// post-login resume. Anything else (external or unlisted) is never stored.
var defaultAllowedPrefixes = []string{"/scan", "/history", "/settings", "/dashboard"}

// Navigator holds the injected location accessor and redirect trigger.
// It never reads or writes any global state itself.
type Navigator struct {
	mu       sync.Mutex
	location func() string
	redirect func(route string)
	allowed  []string
	resume   string

	// after is a seam for tests; defaults to time.AfterFunc.
	after func(d time.Duration, f func()) *time.Timer
}

// New builds a Navigator around the given collaborators. location reports
// the current route; redirect switches to a route.
func New(location func() string, redirect func(route string)) *Navigator {
	return &Navigator{
		location: location,
		redirect: redirect,
		allowed:  defaultAllowedPrefixes,
		after:    time.AfterFunc,
	}
}

// CaptureResume stores the current route in the resume slot, but only when
// it is not the landing route and matches an allow-listed prefix. This keeps
// attacker-influenced or arbitrary external paths out of the post-login
// redirect.
func (n *Navigator) CaptureResume() {
	loc := n.location()
	if loc == "" || loc == LoginRoute {
		return
	}
	if !n.isAllowed(loc) {
		return
	}
	n.mu.Lock()
	n.resume = loc
	n.mu.Unlock()
}

func (n *Navigator) isAllowed(route string) bool {
	for _, prefix := range n.allowed {
		if strings.HasPrefix(route, prefix) {
			return true
		}
	}
	return false
}

// Resume returns the captured route and empties the slot. Returns "" when
// nothing was captured.
func (n *Navigator) Resume() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	r := n.resume
	n.resume = ""
	return r
}

// ScheduleLogin redirects to the login route after the given display window,
// so any message shown to the user stays visible before navigation.
func (n *Navigator) ScheduleLogin(d time.Duration) {
	n.after(d, func() {
		n.redirect(LoginRoute)
	})
}

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/multierr"

	"github.com/riceguard/riceguard/internal/common"
	"github.com/riceguard/riceguard/internal/logging"
)

// Profile holds the identity attributes persisted alongside the credential.
type Profile struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Store composes a cookie-backed storage (preferred for the credential) and
// a fallback key-value storage (credential copy plus profile). A session is
// either fully present or fully absent after Clear; the two backing storages
// are not updated atomically, but Clear always attempts both.
type Store struct {
	cookie   Storage
	fallback Storage
	log      logging.Logger
	now      func() time.Time
}

// NewStore wires the two backing storages. log may be nil.
func NewStore(cookie, fallback Storage, log logging.Logger) *Store {
	return &Store{cookie: cookie, fallback: fallback, log: log, now: time.Now}
}

// RawToken returns the first available credential, preferring the
// cookie-backed copy. No validation is performed; this is a cheap presence
// check. Returns "" when no credential exists.
func (s *Store) RawToken(ctx context.Context) string {
	if tok, err := s.cookie.Read(ctx, KeyAccessToken); err == nil && len(tok) > 0 {
		return string(tok)
	} else if err != nil {
		s.warn(ctx, "cookie token read failed", "error", err)
	}
	if tok, err := s.fallback.Read(ctx, KeyAccessToken); err == nil && len(tok) > 0 {
		return string(tok)
	} else if err != nil {
		s.warn(ctx, "fallback token read failed", "error", err)
	}
	return ""
}

// IsAuthenticated reports whether any credential is present, valid or not.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	return s.RawToken(ctx) != ""
}

// Validate reports whether the token is structurally a JWT (three segments,
// decodable JSON payload) and its exp claim, if present, has not passed.
// The comparison uses whole seconds with no clock-skew tolerance.
func (s *Store) Validate(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return false
	}
	if exp == nil {
		return true
	}
	return exp.Unix() >= s.now().Unix()
}

// ValidatedToken returns the current credential only if it passes Validate;
// otherwise the session is cleared and "" is returned. Every read is
// self-healing: a stale credential is never handed to a caller.
func (s *Store) ValidatedToken(ctx context.Context) string {
	raw := s.RawToken(ctx)
	if raw == "" {
		return ""
	}
	if !s.Validate(raw) {
		if err := s.Clear(ctx); err != nil {
			s.warn(ctx, "clearing stale session failed", "error", err)
		}
		return ""
	}
	return raw
}

// SetSession persists the profile first, then the credential. If the profile
// write fails the credential is not written; if the credential write fails
// the next ValidatedToken correctly reports absence rather than a
// half-session.
func (s *Store) SetSession(ctx context.Context, token string, profile Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := s.fallback.Write(ctx, KeyProfile, data); err != nil {
		return fmt.Errorf("persist profile: %w", err)
	}
	if err := s.fallback.Write(ctx, KeyAccessToken, []byte(token)); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}
	if err := s.cookie.Write(ctx, KeyAccessToken, []byte(token)); err != nil {
		return fmt.Errorf("persist credential cookie: %w", err)
	}
	return nil
}

// Profile returns the persisted user profile, or common.ErrNoSession when
// none is stored.
func (s *Store) Profile(ctx context.Context) (*Profile, error) {
	data, err := s.fallback.Read(ctx, KeyProfile)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, common.ErrNoSession
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &p, nil
}

// Clear removes the credential and profile from every backing storage.
// Removal is best-effort: individual failures do not stop the remaining
// removals, and the combined error is returned. Clear is idempotent.
func (s *Store) Clear(ctx context.Context) error {
	var errs error
	errs = multierr.Append(errs, s.cookie.Remove(ctx, KeyAccessToken))
	errs = multierr.Append(errs, s.fallback.Remove(ctx, KeyAccessToken))
	errs = multierr.Append(errs, s.fallback.Remove(ctx, KeyProfile))
	return errs
}

func (s *Store) warn(ctx context.Context, msg string, args ...any) {
	if s.log != nil {
		s.log.Warn(ctx, msg, args...)
	}
}

package services

import (
	"context"

	"github.com/riceguard/riceguard/internal/client/models"
	"github.com/riceguard/riceguard/internal/client/session"
	"github.com/riceguard/riceguard/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create an account on the server.
//   - Login: authenticate and persist the returned session locally.
//   - Logout: tell the server, then erase the local session regardless.
//   - Profile: return the persisted user profile.
//
// All methods honor context cancellation/timeouts.
type AuthService interface {
	Register(ctx context.Context, name, email string, password []byte) (*models.RegisterOut, error)
	Login(ctx context.Context, email string, password []byte) (*session.Profile, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*session.Profile, error)
}

type authService struct {
	api    API
	tokens *session.Store
	log    logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API facade
// and token store.
func NewAuthService(apiClient API, tokens *session.Store, log logging.Logger) AuthService {
	return &authService{api: apiClient, tokens: tokens, log: log}
}

func (a *authService) Register(ctx context.Context, name, email string, password []byte) (*models.RegisterOut, error) {
	var out models.RegisterOut
	in := models.RegisterIn{Name: name, Email: email, Password: string(password)}
	if err := a.api.Post(ctx, "/auth/register", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates against the server and persists the session: the
// profile first, then the credential, per the store's contract.
func (a *authService) Login(ctx context.Context, email string, password []byte) (*session.Profile, error) {
	var out models.LoginOut
	in := models.LoginIn{Email: email, Password: string(password)}
	if err := a.api.Post(ctx, "/auth/login", in, &out); err != nil {
		return nil, err
	}

	profile := session.Profile{
		ID:    out.User.ID,
		Name:  out.User.Name,
		Email: out.User.Email,
	}
	if err := a.tokens.SetSession(ctx, out.AccessToken, profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Logout is best-effort on the server side: the local session is erased
// even when the server call fails.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.api.Post(ctx, "/auth/logout", nil, nil); err != nil {
		a.log.Warn(ctx, "server logout failed, clearing local session anyway", "error", err)
	}
	return a.tokens.Clear(ctx)
}

func (a *authService) Profile(ctx context.Context) (*session.Profile, error) {
	return a.tokens.Profile(ctx)
}

package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riceguard/riceguard/internal/client/api"
	"github.com/riceguard/riceguard/internal/client/models"
	"github.com/riceguard/riceguard/internal/client/session"
	"github.com/riceguard/riceguard/internal/common"
	"github.com/riceguard/riceguard/internal/logging"
)

// ---- fakes ----

type apiCall struct {
	method string
	path   string
	in     any
}

type fakeAPI struct {
	mu    sync.Mutex
	calls []apiCall

	getFn    func(path string, query url.Values, out any) error
	postFn   func(path string, in, out any) error
	deleteFn func(path string, out any) error
	uploadFn func(path string, mp *api.Multipart, out any) error
}

func (f *fakeAPI) record(c apiCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeAPI) Get(_ context.Context, path string, query url.Values, out any) error {
	f.record(apiCall{method: "GET", path: path})
	if f.getFn != nil {
		return f.getFn(path, query, out)
	}
	return nil
}

func (f *fakeAPI) Post(_ context.Context, path string, in, out any) error {
	f.record(apiCall{method: "POST", path: path, in: in})
	if f.postFn != nil {
		return f.postFn(path, in, out)
	}
	return nil
}

func (f *fakeAPI) Delete(_ context.Context, path string, out any) error {
	f.record(apiCall{method: "DELETE", path: path})
	if f.deleteFn != nil {
		return f.deleteFn(path, out)
	}
	return nil
}

func (f *fakeAPI) Upload(_ context.Context, path string, mp *api.Multipart, out any) error {
	f.record(apiCall{method: "UPLOAD", path: path, in: mp})
	if f.uploadFn != nil {
		return f.uploadFn(path, mp, out)
	}
	return nil
}

type memStorage struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemStorage() *memStorage { return &memStorage{m: map[string][]byte{}} }

func (s *memStorage) Read(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[key], nil
}

func (s *memStorage) Write(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = append([]byte(nil), value...)
	return nil
}

func (s *memStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTokenStore() *session.Store {
	return session.NewStore(newMemStorage(), newMemStorage(), nil)
}

// ---- tests ----

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	fake := &fakeAPI{
		postFn: func(path string, in, out any) error {
			require.Equal(t, "/auth/register", path)
			body, ok := in.(models.RegisterIn)
			require.True(t, ok)
			require.Equal(t, "Mira", body.Name)
			require.Equal(t, "mira@example.com", body.Email)
			require.Equal(t, "s3cret", body.Password)
			*(out.(*models.RegisterOut)) = models.RegisterOut{ID: "u1", Email: body.Email}
			return nil
		},
	}
	svc := NewAuthService(fake, newTokenStore(), testLogger())

	got, err := svc.Register(ctx, "Mira", "mira@example.com", []byte("s3cret"))
	require.NoError(t, err)
	require.Equal(t, "u1", got.ID)
}

func TestAuthService_LoginPersistsSession(t *testing.T) {
	ctx := context.Background()
	tokens := newTokenStore()
	fake := &fakeAPI{
		postFn: func(path string, in, out any) error {
			require.Equal(t, "/auth/login", path)
			*(out.(*models.LoginOut)) = models.LoginOut{
				AccessToken: "tok-123",
				User:        models.LoginUser{ID: "u1", Name: "Mira", Email: "mira@example.com"},
			}
			return nil
		},
	}
	svc := NewAuthService(fake, tokens, testLogger())

	profile, err := svc.Login(ctx, "mira@example.com", []byte("s3cret"))
	require.NoError(t, err)
	require.Equal(t, "Mira", profile.Name)

	require.Equal(t, "tok-123", tokens.RawToken(ctx))
	stored, err := tokens.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, "u1", stored.ID)
}

func TestAuthService_LoginServerError(t *testing.T) {
	ctx := context.Background()
	tokens := newTokenStore()
	boom := errors.New("invalid credentials")
	fake := &fakeAPI{
		postFn: func(string, any, any) error { return boom },
	}
	svc := NewAuthService(fake, tokens, testLogger())

	_, err := svc.Login(ctx, "mira@example.com", []byte("wrong"))
	require.ErrorIs(t, err, boom)
	require.Empty(t, tokens.RawToken(ctx))
}

func TestAuthService_LogoutClearsEvenWhenServerFails(t *testing.T) {
	ctx := context.Background()
	tokens := newTokenStore()
	require.NoError(t, tokens.SetSession(ctx, "tok-123", session.Profile{ID: "u1"}))

	fake := &fakeAPI{
		postFn: func(path string, _, _ any) error {
			require.Equal(t, "/auth/logout", path)
			return errors.New("server unreachable")
		},
	}
	svc := NewAuthService(fake, tokens, testLogger())

	require.NoError(t, svc.Logout(ctx))
	require.Empty(t, tokens.RawToken(ctx))
	_, err := tokens.Profile(ctx)
	require.ErrorIs(t, err, common.ErrNoSession)
}

func TestAuthService_ProfileWithoutSession(t *testing.T) {
	svc := NewAuthService(&fakeAPI{}, newTokenStore(), testLogger())
	_, err := svc.Profile(context.Background())
	require.ErrorIs(t, err, common.ErrNoSession)
}

// Package services contains the application services of the RiceGuard
// client: authentication and scan management. Every remote call goes
// through the resilient API facade, so token injection, classification and
// retries apply uniformly.
package services

import (
	"context"
	"net/url"

	"github.com/riceguard/riceguard/internal/client/api"
)

// API is the surface of the request facade the services need. The real
// *api.Client satisfies it; tests can provide a lightweight stub.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string, out any) error
	Upload(ctx context.Context, path string, mp *api.Multipart, out any) error
}

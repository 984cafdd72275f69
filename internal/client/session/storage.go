// Package session owns the authentication credential and its lifecycle:
// persist, read, validate, clear. The credential is a JWT whose exp claim
// is checked on every read, so a stale token can never be handed to a caller.
package session

import "context"

// Storage keys used by the Store.
const (
	KeyAccessToken = "access_token"
	KeyProfile     = "profile"
)

// Storage is the minimal persistence capability the Store composes over.
// A missing key is reported as (nil, nil), not an error.
type Storage interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

package session

import (
	"context"
	"errors"
	"time"
)

// ErrNoToken is returned by Store.Get when the session holds no token.
var ErrNoToken = errors.New("no session token")

// Store persists one bearer token per session id. A zero ttl means the
// entry does not expire on its own.
type Store interface {
	Get(ctx context.Context, id string) (string, error)
	Set(ctx context.Context, id, token string, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

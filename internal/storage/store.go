// Package storage provides the local persistence adapter. All reads and
// writes of session state go through a Store so that backend unavailability
// degrades to an in-memory fallback instead of failing the page.
package storage

import (
	"context"
	"errors"
)

// Keys persisted by the client. Nothing else is stored locally.
const (
	KeyAuthToken      = "fanfeed:token"
	KeyProfile        = "fanfeed:profile"
	KeyCreatorProfile = "fanfeed:creator"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("key not found")

// Store is a small key-value surface over whatever persistence is
// available. Clear wipes everything wholesale (logout).
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

package core

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KVStore implementations on a missing key.
var ErrKeyNotFound = errors.New("key not found")

// KVStore is the persistent, origin-shared key-value store backing the
// freshness cache and the saved session state. All open clients of the same
// store observe each other's writes; no locking is applied across clients
// and last-write-wins is the accepted resolution policy.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

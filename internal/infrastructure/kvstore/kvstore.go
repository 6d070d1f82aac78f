package kvstore

import "context"

// Store is the persisted key-value medium backing all domain data. Values are
// opaque strings; serialization correctness is the caller's responsibility.
// A missing key is reported via ok=false, not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

package ports

import "context"

// SettingsStore is the durable key/value store behind the project registry.
// Values are opaque encoded records; a missing key is reported by Has, and Get
// on a missing key returns (nil, false, nil).
type SettingsStore interface {
	Has(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// BatchStore is implemented by stores that can write several keys atomically.
type BatchStore interface {
	SettingsStore
	SetAll(ctx context.Context, values map[string][]byte) error
}

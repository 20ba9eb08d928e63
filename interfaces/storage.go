package interfaces

import "context"

// ArchiveStorage persists raw source payloads for audit. Implementations may
// be disabled entirely through configuration.
type ArchiveStorage interface {
	Enabled() bool
	StoreRawPayload(ctx context.Context, key string, payload []byte) error
}

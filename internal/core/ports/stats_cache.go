package ports

import (
	"context"

	"parceltrack/internal/core/domain/model/kernel"
)

// StatsCache keeps computed rollups per owner and view.
// Implementations must treat a miss and a backend failure alike for readers.
//
// A reader that misses takes Generation before loading deliveries and passes it to Store.
// Invalidate advances the generation, so a rollup computed from data older than the
// last write is never stored.
type StatsCache interface {
	// Load decodes the cached value into dst. ok is false on a miss.
	Load(ctx context.Context, ownerID kernel.UUID, view string, dst any) (ok bool, err error)

	// Generation returns the owner's current cache generation.
	Generation(ctx context.Context, ownerID kernel.UUID) (int64, error)

	// Store caches v unless the owner was invalidated after generation was read.
	// A skipped store is not an error.
	Store(ctx context.Context, ownerID kernel.UUID, view string, generation int64, v any) error

	// Invalidate drops every cached view of the owner and advances its generation.
	Invalidate(ctx context.Context, ownerID kernel.UUID) error
}

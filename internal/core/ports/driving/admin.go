package driving

import (
	"context"
)

// AdminService exposes maintenance operations to the administrative tooling
type AdminService interface {
	// ResetCollection deletes every record in the index collection.
	// Idempotent: resetting an empty or absent collection is a no-op.
	ResetCollection(ctx context.Context) error
}

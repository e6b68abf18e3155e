// Package store resolves opaque graph refs to immutable snapshots. The
// engine never touches storage directly; it receives a fully built snapshot
// and the storage collaborator owns all writes.
package store

import (
	"context"

	"github.com/compass-ai/compass/pkg/graph"
)

// SnapshotSource loads the complete graph behind a ref. Implementations must
// return a typed not-found error for unknown refs and never partially built
// snapshots.
type SnapshotSource interface {
	LoadSnapshot(ctx context.Context, ref string) (*graph.Snapshot, error)
}

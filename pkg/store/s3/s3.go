// Package s3 loads graph snapshots from the storage collaborator's bulk
// export: one JSON document per graph under snapshots/<ref>.json.
package s3

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/compass-ai/compass/internal/storage"
	"github.com/compass-ai/compass/pkg/common"
	"github.com/compass-ai/compass/pkg/graph"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// export is the collaborator's snapshot document shape.
type export struct {
	Nodes []common.Node `json:"nodes"`
	Edges []common.Edge `json:"edges"`
}

// SnapshotStore reads exported snapshot documents from S3.
type SnapshotStore struct {
	client *awss3.Client
}

func NewSnapshotStore(client *awss3.Client) *SnapshotStore {
	return &SnapshotStore{client: client}
}

// LoadSnapshot fetches and decodes snapshots/<ref>.json. A missing object
// maps to the typed not-found error.
func (s *SnapshotStore) LoadSnapshot(ctx context.Context, ref string) (*graph.Snapshot, error) {
	data, err := storage.GetObject(ctx, s.client, objectKey(ref))
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, common.NewGraphNotFound(ref)
		}
		return nil, err
	}

	var doc export
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %q: %w", ref, err)
	}
	return graph.NewSnapshot(ref, doc.Nodes, doc.Edges), nil
}

func objectKey(ref string) string {
	return fmt.Sprintf("snapshots/%s.json", ref)
}

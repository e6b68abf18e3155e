// Package pgx loads graph snapshots from PostgreSQL. Nodes carry JSONB
// properties and optional pgvector embeddings; the schema is owned by the
// migrations directory at the repository root.
package pgx

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/compass-ai/compass/pkg/common"
	"github.com/compass-ai/compass/pkg/graph"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
}

// SnapshotStore implements store.SnapshotSource against PostgreSQL with
// pgvector registered on the connection.
type SnapshotStore struct {
	conn pgxIConn
}

func NewSnapshotStore(conn pgxIConn) *SnapshotStore {
	return &SnapshotStore{conn: conn}
}

// LoadSnapshot reads every node and edge of the graph behind ref and builds
// the immutable snapshot. Unknown refs yield the typed not-found error.
func (s *SnapshotStore) LoadSnapshot(ctx context.Context, ref string) (*graph.Snapshot, error) {
	var graphID int64
	err := s.conn.QueryRow(ctx,
		`SELECT id FROM graphs WHERE public_id = $1`,
		ref,
	).Scan(&graphID)
	if err != nil {
		if err == pgxv5.ErrNoRows {
			return nil, common.NewGraphNotFound(ref)
		}
		return nil, fmt.Errorf("failed to resolve graph %q: %w", ref, err)
	}

	nodes, err := s.loadNodes(ctx, graphID)
	if err != nil {
		return nil, err
	}
	edges, err := s.loadEdges(ctx, graphID)
	if err != nil {
		return nil, err
	}

	return graph.NewSnapshot(ref, nodes, edges), nil
}

func (s *SnapshotStore) loadNodes(ctx context.Context, graphID int64) ([]common.Node, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT public_id, node_type, name, properties, embedding
		 FROM nodes
		 WHERE graph_id = $1
		 ORDER BY id`,
		graphID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	var nodes []common.Node
	for rows.Next() {
		var (
			n         common.Node
			propsRaw  []byte
			embedding *pgvector.Vector
		)
		if err := rows.Scan(&n.ID, &n.Type, &n.Name, &propsRaw, &embedding); err != nil {
			return nil, fmt.Errorf("failed to scan node row: %w", err)
		}

		if len(propsRaw) > 0 {
			if err := json.Unmarshal(propsRaw, &n.Properties); err != nil {
				return nil, fmt.Errorf("failed to decode properties of node %q: %w", n.ID, err)
			}
		}
		if embedding != nil {
			n.Embedding = embedding.Slice()
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read node rows: %w", err)
	}
	return nodes, nil
}

func (s *SnapshotStore) loadEdges(ctx context.Context, graphID int64) ([]common.Edge, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT source_id, target_id, edge_type, weight
		 FROM edges
		 WHERE graph_id = $1
		 ORDER BY id`,
		graphID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	var edges []common.Edge
	for rows.Next() {
		var e common.Edge
		if err := rows.Scan(&e.SourceID, &e.TargetID, &e.EdgeType, &e.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan edge row: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read edge rows: %w", err)
	}
	return edges, nil
}

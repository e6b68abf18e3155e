package engine

import (
	"context"

	"github.com/compass-ai/compass/pkg/common"
)

type pathLink struct {
	prev     string
	edgeType string
}

// TracePath finds the shortest path between two nodes by bidirectional BFS,
// expanding the smaller frontier each round and treating edges as
// undirected. A missing path within maxDepth is a normal found=false result,
// not an error; unknown endpoints are.
func (e *Engine) TracePath(ctx context.Context, from, to string, maxDepth int) (*PathResult, error) {
	if _, err := e.snap.GetNode(from); err != nil {
		return nil, err
	}
	if _, err := e.snap.GetNode(to); err != nil {
		return nil, err
	}
	maxDepth = clampDepth(maxDepth)

	if from == to {
		return &PathResult{Found: true, Length: 0, Path: []PathHop{{NodeID: from}}}, nil
	}

	fromSide := map[string]pathLink{from: {}}
	toSide := map[string]pathLink{to: {}}
	fromFrontier := []string{from}
	toFrontier := []string{to}

	for depth := 0; depth < maxDepth; depth++ {
		if len(fromFrontier) == 0 && len(toFrontier) == 0 {
			break
		}

		expandFrom := len(fromFrontier) > 0 &&
			(len(toFrontier) == 0 || len(fromFrontier) <= len(toFrontier))

		var meet string
		var err error
		if expandFrom {
			fromFrontier, meet, err = e.expandFrontier(ctx, fromFrontier, fromSide, toSide)
		} else {
			toFrontier, meet, err = e.expandFrontier(ctx, toFrontier, toSide, fromSide)
		}
		if err != nil {
			return nil, err
		}
		if meet != "" {
			return e.assemblePath(meet, fromSide, toSide), nil
		}
	}

	return &PathResult{Found: false}, nil
}

// expandFrontier advances one BFS side by a level. It returns the next
// frontier and, when a frontier node already settled on the other side, the
// meeting node id.
func (e *Engine) expandFrontier(
	ctx context.Context,
	frontier []string,
	side, other map[string]pathLink,
) ([]string, string, error) {
	var next []string
	for _, id := range frontier {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		for _, edge := range e.snap.Neighbors(id, common.DirectionBoth) {
			neighbor := edge.TargetID
			if neighbor == id {
				neighbor = edge.SourceID
			}
			if _, seen := side[neighbor]; seen {
				continue
			}
			side[neighbor] = pathLink{prev: id, edgeType: edge.EdgeType}

			if _, met := other[neighbor]; met {
				return nil, neighbor, nil
			}
			next = append(next, neighbor)
		}
	}
	return next, "", nil
}

// assemblePath stitches the two BFS halves together at the meeting node.
// Each hop after the first carries the edge type that reached it from the
// previous hop.
func (e *Engine) assemblePath(meet string, fromSide, toSide map[string]pathLink) *PathResult {
	var reversed []PathHop
	for id := meet; ; {
		link := fromSide[id]
		reversed = append(reversed, PathHop{NodeID: id, EdgeType: link.edgeType})
		if link.prev == "" {
			break
		}
		id = link.prev
	}

	path := make([]PathHop, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		path = append(path, reversed[i])
	}

	for id := meet; ; {
		link := toSide[id]
		if link.prev == "" {
			break
		}
		path = append(path, PathHop{NodeID: link.prev, EdgeType: link.edgeType})
		id = link.prev
	}

	return &PathResult{Found: true, Length: len(path) - 1, Path: path}
}

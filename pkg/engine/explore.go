package engine

import (
	"context"
	"sort"

	"github.com/compass-ai/compass/pkg/common"
)

// hubFactor flags a node as a hub when its degree exceeds this multiple of
// its level's average degree.
const hubFactor = 2.0

// ExploreSmart walks outward from a start node by BFS and ranks each level
// by degree centrality, flagging hub nodes whose degree exceeds twice the
// level average. The tree orients a reader dropped into an unfamiliar graph:
// hubs are where to look first.
func (e *Engine) ExploreSmart(ctx context.Context, start string, depth int) (*ExplorationTree, error) {
	root, err := e.snap.GetNode(start)
	if err != nil {
		return nil, err
	}
	depth = clampDepth(depth)

	tree := &ExplorationTree{Root: root}

	visited := map[string]struct{}{start: {}}
	frontier := []string{start}

	for d := 1; d <= depth && len(frontier) > 0; d++ {
		var next []string
		var level []ExploredNode
		totalDegree := 0

		for _, id := range frontier {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			for _, edge := range e.snap.Neighbors(id, common.DirectionBoth) {
				other := edge.TargetID
				if other == id {
					other = edge.SourceID
				}
				if _, seen := visited[other]; seen {
					continue
				}
				visited[other] = struct{}{}

				node, err := e.snap.GetNode(other)
				if err != nil {
					continue
				}
				deg := e.snap.Degree(other)
				level = append(level, ExploredNode{Node: node, Degree: deg})
				totalDegree += deg
				next = append(next, other)
			}
		}
		if len(level) == 0 {
			break
		}

		avg := float64(totalDegree) / float64(len(level))
		for i := range level {
			level[i].IsHub = avg > 0 && float64(level[i].Degree) > hubFactor*avg
		}

		sort.Slice(level, func(i, j int) bool {
			if level[i].Degree == level[j].Degree {
				return level[i].Node.ID < level[j].Node.ID
			}
			return level[i].Degree > level[j].Degree
		})

		tree.Levels = append(tree.Levels, ExplorationLevel{
			Depth:         d,
			AverageDegree: avg,
			Nodes:         level,
		})
		frontier = next
	}
	return tree, nil
}

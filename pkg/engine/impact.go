package engine

import (
	"context"
	"sort"

	"github.com/compass-ai/compass/pkg/common"
)

// ImpactAnalysis propagates change risk outward from a node by breadth-first
// traversal. Risk at depth d is 1/d scaled by the traversed edge's weight and
// the reached node's degree centrality, so well-connected nodes close to the
// root dominate. Nodes settled at a shallower depth are never revisited. The
// critical path is the highest cumulative-risk chain from the root outward.
func (e *Engine) ImpactAnalysis(ctx context.Context, nodeID string, dir common.Direction, maxDepth int) (*ImpactResult, error) {
	if _, err := e.snap.GetNode(nodeID); err != nil {
		return nil, err
	}
	maxDepth = clampDepth(maxDepth)

	maxDegree := 0
	for n := range e.snap.All() {
		if d := e.snap.Degree(n.ID); d > maxDegree {
			maxDegree = d
		}
	}

	result := &ImpactResult{
		NodeID:      nodeID,
		Direction:   dir,
		MaxDepth:    maxDepth,
		RiskByDepth: make(map[int][]NodeRisk),
	}

	type visit struct {
		id   string
		risk float64
	}
	settled := map[string]struct{}{nodeID: {}}
	parent := make(map[string]string)
	risk := make(map[string]float64)
	frontier := []visit{{id: nodeID}}

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		var next []visit
		for _, v := range frontier {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			for _, edge := range e.snap.Neighbors(v.id, dir) {
				other := edge.TargetID
				if other == v.id {
					other = edge.SourceID
				}
				if _, done := settled[other]; done {
					continue
				}
				settled[other] = struct{}{}

				node, err := e.snap.GetNode(other)
				if err != nil {
					continue
				}

				centrality := 0.0
				if maxDegree > 0 {
					centrality = float64(e.snap.Degree(other)) / float64(maxDegree)
				}
				r := (1.0 / float64(depth)) * edge.Weight * centrality

				parent[other] = v.id
				risk[other] = r
				result.RiskByDepth[depth] = append(result.RiskByDepth[depth], NodeRisk{Node: node, Risk: r})
				next = append(next, visit{id: other, risk: r})
			}
		}

		sort.Slice(result.RiskByDepth[depth], func(i, j int) bool {
			a, b := result.RiskByDepth[depth][i], result.RiskByDepth[depth][j]
			if a.Risk == b.Risk {
				return a.Node.ID < b.Node.ID
			}
			return a.Risk > b.Risk
		})
		frontier = next
	}

	result.CriticalPath = e.criticalPath(nodeID, parent, risk)
	return result, nil
}

// criticalPath finds the leaf with the highest cumulative risk along its
// parent chain and returns the chain root-to-leaf.
func (e *Engine) criticalPath(root string, parent map[string]string, risk map[string]float64) []NodeRisk {
	cumulative := make(map[string]float64, len(risk))
	var chainRisk func(id string) float64
	chainRisk = func(id string) float64 {
		if id == root {
			return 0
		}
		if v, ok := cumulative[id]; ok {
			return v
		}
		v := risk[id] + chainRisk(parent[id])
		cumulative[id] = v
		return v
	}

	bestLeaf := ""
	bestRisk := 0.0
	children := make(map[string]int, len(parent))
	for _, p := range parent {
		children[p]++
	}
	for id := range risk {
		if children[id] > 0 {
			continue
		}
		total := chainRisk(id)
		if total > bestRisk || (total == bestRisk && (bestLeaf == "" || id < bestLeaf)) {
			bestLeaf, bestRisk = id, total
		}
	}
	if bestLeaf == "" {
		return nil
	}

	var reversed []NodeRisk
	for id := bestLeaf; id != root; id = parent[id] {
		node, err := e.snap.GetNode(id)
		if err != nil {
			break
		}
		reversed = append(reversed, NodeRisk{Node: node, Risk: risk[id]})
	}

	out := make([]NodeRisk, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		out = append(out, reversed[i])
	}
	return out
}

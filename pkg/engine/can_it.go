package engine

import (
	"context"
	"strings"

	"github.com/compass-ai/compass/pkg/common"
	"github.com/compass-ai/compass/pkg/retrieval"
)

// Edge types the capability assessment inspects.
const (
	edgeLimitedBy     = "limited_by"
	edgeHasLimitation = "has_limitation"
	edgeHasWorkaround = "has_workaround"
	edgeMitigatedBy   = "mitigated_by"
	edgeRequires      = "requires"
)

// canItMatchFloor is the minimum normalized text score for a node to count
// as the capability in question. Below it the graph simply does not know.
const canItMatchFloor = 0.25

// CanIt assesses whether the graph supports a described capability. The
// verdict follows the limitation edges of the best textual match: no match
// means unknown, a clean match means yes, limitations with workarounds mean
// yes with limitations, and any limitation without a workaround means no.
func (e *Engine) CanIt(ctx context.Context, capability string) (*CapabilityResult, error) {
	if strings.TrimSpace(capability) == "" {
		return nil, common.NewValidationError("capability", "must not be blank")
	}

	bm25, err := e.bm25.Score(ctx, capability, nil)
	if err != nil {
		return nil, err
	}
	token, err := retrieval.TokenMatch(ctx, e.snap, capability)
	if err != nil {
		return nil, err
	}
	text := mergeMax(bm25.Normalize(), token.Normalize())

	bestID := ""
	bestScore := 0.0
	for id, score := range text {
		if score > bestScore || (score == bestScore && (bestID == "" || id < bestID)) {
			bestID, bestScore = id, score
		}
	}
	if bestID == "" || bestScore < canItMatchFloor {
		return &CapabilityResult{Status: CapabilityUnknown}, nil
	}

	node, err := e.snap.GetNode(bestID)
	if err != nil {
		return nil, err
	}

	result := &CapabilityResult{Node: &node}

	for _, edge := range e.snap.Neighbors(bestID, common.DirectionOutgoing, edgeRequires) {
		if prereq, err := e.snap.GetNode(edge.TargetID); err == nil {
			result.Prerequisites = append(result.Prerequisites, prereq)
		}
	}

	limitations := e.snap.Neighbors(bestID, common.DirectionOutgoing, edgeLimitedBy, edgeHasLimitation)
	if len(limitations) == 0 {
		result.Status = CapabilityYes
		return result, nil
	}

	allMitigated := true
	for _, edge := range limitations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		limitation, err := e.snap.GetNode(edge.TargetID)
		if err != nil {
			continue
		}
		result.Limitations = append(result.Limitations, limitation)

		workarounds := e.snap.Neighbors(limitation.ID, common.DirectionOutgoing, edgeHasWorkaround, edgeMitigatedBy)
		if len(workarounds) == 0 {
			allMitigated = false
			continue
		}
		for _, w := range workarounds {
			if node, err := e.snap.GetNode(w.TargetID); err == nil {
				result.Workarounds = append(result.Workarounds, node)
			}
		}
	}

	if allMitigated {
		result.Status = CapabilityYesWithLimits
	} else {
		result.Status = CapabilityNo
	}
	return result, nil
}

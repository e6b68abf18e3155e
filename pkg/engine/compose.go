package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/compass-ai/compass/pkg/common"
)

// Edge types accepted as evidence that one plan step can feed the next.
var linkEdgeTypes = []string{"feeds_into", "requires"}

// ComposeFor assembles an ordered multi-step plan for a compound goal. The
// goal is decomposed into sub-goals, each sub-goal resolved to its best
// supporting node via WantTo, and consecutive nodes checked for a linking
// edge in either direction. Unvalidated links and unresolved sub-goals are
// warnings carried in the plan; only the plan's IsValid flag drops, the call
// itself still succeeds. A maxTools > 0 caps the number of steps.
//
// A goal that does not decompose yields a single-step plan equal to the best
// WantTo result for the whole goal.
func (e *Engine) ComposeFor(ctx context.Context, goal string, maxTools int) (*CompositionPlan, error) {
	if strings.TrimSpace(goal) == "" {
		return nil, common.NewValidationError("goal", "must not be blank")
	}
	if maxTools < 0 {
		return nil, common.NewValidationError("max_tools", "must be non-negative")
	}

	subGoals, err := e.decomposer.Decompose(ctx, goal)
	if err != nil {
		return nil, err
	}
	if len(subGoals) == 0 {
		subGoals = []string{strings.TrimSpace(goal)}
	}
	if maxTools > 0 && len(subGoals) > maxTools {
		subGoals = subGoals[:maxTools]
	}

	plan := &CompositionPlan{Goal: goal, IsValid: true}

	cfg := DefaultConfig()
	cfg.Limit = 1
	for i, sub := range subGoals {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		matches, err := e.WantTo(ctx, sub, cfg)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			plan.Warnings = append(plan.Warnings, fmt.Sprintf("no node supports sub-goal %q", sub))
			plan.IsValid = false
			continue
		}
		plan.Steps = append(plan.Steps, Step{
			Order:   i + 1,
			Node:    matches[0].Node,
			SubGoal: sub,
		})
	}

	for i := 1; i < len(plan.Steps); i++ {
		prev, curr := plan.Steps[i-1], plan.Steps[i]
		link := Link{FromStep: prev.Order, ToStep: curr.Order}

		if edgeType, ok := e.linkBetween(prev.Node.ID, curr.Node.ID); ok {
			link.EdgeType = edgeType
			link.Validated = true
		} else {
			plan.Warnings = append(plan.Warnings, fmt.Sprintf(
				"no %s edge between %q and %q", strings.Join(linkEdgeTypes, "/"), prev.Node.ID, curr.Node.ID))
			plan.IsValid = false
		}
		plan.Links = append(plan.Links, link)
	}
	return plan, nil
}

// linkBetween reports whether a linking edge connects the two nodes in
// either direction, returning its type.
func (e *Engine) linkBetween(a, b string) (string, bool) {
	for _, edge := range e.snap.Neighbors(a, common.DirectionBoth, linkEdgeTypes...) {
		if edge.TargetID == b || edge.SourceID == b {
			return edge.EdgeType, true
		}
	}
	return "", false
}

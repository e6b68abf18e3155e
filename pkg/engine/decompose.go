package engine

import (
	"context"
	"strings"
)

// DecompositionStrategy splits a compound goal into ordered sub-goals.
// Implementations may call out to a model; the engine only requires that the
// order of the returned sub-goals is the intended execution order.
type DecompositionStrategy interface {
	Decompose(ctx context.Context, goal string) ([]string, error)
}

// connectives that separate sequential sub-goals, checked in order. Longer
// connectives come first so " and then " is not split twice.
var connectives = []string{
	" and then ",
	" then ",
	" and ",
	" after that ",
	" followed by ",
	";",
}

// RuleBasedDecomposer splits goals on sequential connectives. It never
// errors; a goal with no connective yields a single sub-goal.
type RuleBasedDecomposer struct{}

func (RuleBasedDecomposer) Decompose(_ context.Context, goal string) ([]string, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, nil
	}

	parts := []string{goal}
	for _, sep := range connectives {
		var next []string
		for _, p := range parts {
			for _, piece := range strings.Split(p, sep) {
				piece = strings.TrimSpace(piece)
				if piece != "" {
					next = append(next, piece)
				}
			}
		}
		parts = next
	}
	return parts, nil
}

package engine

import (
	"github.com/compass-ai/compass/pkg/common"
	"github.com/compass-ai/compass/pkg/fuse"
	"github.com/compass-ai/compass/pkg/intent"
)

// EdgeAnnotation names one edge that caused a graph boost or a composition
// link, so a caller can explain why a node ranked where it did.
type EdgeAnnotation struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	EdgeType string `json:"edge_type"`
}

func annotate(e common.Edge) EdgeAnnotation {
	return EdgeAnnotation{Source: e.SourceID, Target: e.TargetID, EdgeType: e.EdgeType}
}

// RankedResult is one fused search hit with its component breakdown and the
// edges that contributed to its graph boost.
type RankedResult struct {
	Node       common.Node          `json:"node"`
	Score      float64              `json:"score"`
	Components fuse.ComponentScores `json:"components"`
	Edges      []EdgeAnnotation     `json:"edges,omitempty"`
}

// SearchResult is the master result envelope for IntentSearch and Search:
// ranked nodes, the classified intents, the expansion edges, an optional
// composition plan, and diagnostics metadata.
type SearchResult struct {
	TraceID           string           `json:"trace_id"`
	Intents           []intent.Intent  `json:"intents,omitempty"`
	Results           []RankedResult   `json:"results"`
	Edges             []EdgeAnnotation `json:"edges,omitempty"`
	CompositionPlan   *CompositionPlan `json:"composition_plan,omitempty"`
	IntegrityWarnings int              `json:"integrity_warnings,omitempty"`
}

// GoalResult is one WantTo hit: a node, its score, and the edges that
// connected it to the goal.
type GoalResult struct {
	Node  common.Node      `json:"node"`
	Score float64          `json:"score"`
	Path  []EdgeAnnotation `json:"path,omitempty"`
}

// CapabilityStatus is the four-valued answer of CanIt.
type CapabilityStatus string

const (
	CapabilityYes           CapabilityStatus = "yes"
	CapabilityYesWithLimits CapabilityStatus = "yes_with_limitations"
	CapabilityNo            CapabilityStatus = "no"
	CapabilityUnknown       CapabilityStatus = "unknown"
)

// CapabilityResult reports whether the graph supports a capability, with the
// limitations, workarounds, and prerequisites found along the relevant edges.
type CapabilityResult struct {
	Status        CapabilityStatus `json:"status"`
	Node          *common.Node     `json:"node,omitempty"`
	Limitations   []common.Node    `json:"limitations,omitempty"`
	Workarounds   []common.Node    `json:"workarounds,omitempty"`
	Prerequisites []common.Node    `json:"prerequisites,omitempty"`
}

// Step is one ordered entry of a composition plan.
type Step struct {
	Order   int         `json:"order"`
	Node    common.Node `json:"node"`
	SubGoal string      `json:"sub_goal"`
}

// Link connects two consecutive plan steps. Validated is true when the graph
// holds a supporting edge between the step nodes.
type Link struct {
	FromStep  int    `json:"from_step"`
	ToStep    int    `json:"to_step"`
	EdgeType  string `json:"edge_type,omitempty"`
	Validated bool   `json:"validated"`
}

// CompositionPlan is an ordered multi-step plan with edge-validated links.
// IsValid is false iff any sub-goal found no supporting node or any link is
// unvalidated; unvalidated adjacency is a warning, not a hard failure.
type CompositionPlan struct {
	Goal     string   `json:"goal"`
	Steps    []Step   `json:"steps"`
	Links    []Link   `json:"links"`
	Warnings []string `json:"warnings,omitempty"`
	IsValid  bool     `json:"is_valid"`
}

// SimilarResult is one structurally similar node with the score breakdown.
type SimilarResult struct {
	Node        common.Node `json:"node"`
	Score       float64     `json:"score"`
	Jaccard     float64     `json:"jaccard"`
	TypeMatch   float64     `json:"type_match"`
	NameOverlap float64     `json:"name_overlap"`
}

// NodeRisk is one impacted node with its depth-decayed risk score.
type NodeRisk struct {
	Node common.Node `json:"node"`
	Risk float64     `json:"risk"`
}

// ImpactResult maps traversal depth to the nodes reached at that depth with
// their risk scores, plus the single highest-cumulative-risk chain outward
// from the root.
type ImpactResult struct {
	NodeID       string             `json:"node_id"`
	Direction    common.Direction   `json:"direction"`
	MaxDepth     int                `json:"max_depth"`
	RiskByDepth  map[int][]NodeRisk `json:"risk_by_depth"`
	CriticalPath []NodeRisk         `json:"critical_path,omitempty"`
}

// PathHop is one traversal step of a traced path.
type PathHop struct {
	NodeID   string `json:"node_id"`
	EdgeType string `json:"edge_type,omitempty"`
}

// PathResult reports the shortest path between two nodes, or found=false
// when none exists within the depth bound.
type PathResult struct {
	Found  bool      `json:"found"`
	Length int       `json:"length"`
	Path   []PathHop `json:"path,omitempty"`
}

// ExploredNode is one node of an exploration level, flagged as a hub when
// its degree exceeds twice the level's average.
type ExploredNode struct {
	Node   common.Node `json:"node"`
	Degree int         `json:"degree"`
	IsHub  bool        `json:"is_hub"`
}

// ExplorationLevel groups the nodes discovered at one BFS depth.
type ExplorationLevel struct {
	Depth         int            `json:"depth"`
	AverageDegree float64        `json:"average_degree"`
	Nodes         []ExploredNode `json:"nodes"`
}

// ExplorationTree is the result of ExploreSmart: the root plus one ranked
// level per BFS depth.
type ExplorationTree struct {
	Root   common.Node        `json:"root"`
	Levels []ExplorationLevel `json:"levels"`
}

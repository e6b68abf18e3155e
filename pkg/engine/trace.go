package engine

import (
	"sort"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

type TraceEventKind string

const (
	TraceEventMechanism  TraceEventKind = "mechanism"
	TraceEventSeedIDs    TraceEventKind = "seed_ids"
	TraceEventBoostEdges TraceEventKind = "boost_edges"
	TraceEventDegraded   TraceEventKind = "degraded"
)

// TraceEvent is an extensible event envelope for query tracing.
// Additive changes to this struct are backward compatible for implementers.
type TraceEvent struct {
	Kind TraceEventKind

	Mechanism  string
	NodeIDs    []string
	EdgeCount  int
	DurationMs int64
	Reason     string
	Error      string
}

// Tracer is a sink for query tracing events.
//
// Implementers can forward events to logs, telemetry, or custom
// post-processing pipelines.
type Tracer interface {
	Record(event TraceEvent)
}

// MultiTracer fan-outs trace events to multiple tracers.
type MultiTracer []Tracer

func (m MultiTracer) Record(event TraceEvent) {
	for _, t := range m {
		if t == nil {
			continue
		}
		t.Record(event)
	}
}

func recordMechanism(t Tracer, name string, durationMs int64, err error) {
	if t == nil {
		return
	}
	event := TraceEvent{Kind: TraceEventMechanism, Mechanism: name, DurationMs: durationMs}
	if err != nil {
		event.Error = err.Error()
	}
	t.Record(event)
}

func recordSeedIDs(t Tracer, ids ...string) {
	if t == nil {
		return
	}
	t.Record(TraceEvent{Kind: TraceEventSeedIDs, NodeIDs: ids})
}

func recordBoostEdges(t Tracer, count int) {
	if t == nil {
		return
	}
	t.Record(TraceEvent{Kind: TraceEventBoostEdges, EdgeCount: count})
}

func recordDegraded(t Tracer, mechanism, reason string) {
	if t == nil {
		return
	}
	t.Record(TraceEvent{Kind: TraceEventDegraded, Mechanism: mechanism, Reason: reason})
}

// QueryTrace collects which mechanisms ran, which nodes seeded the graph
// boost, and which signals degraded during a query run.
//
// QueryTrace is safe for concurrent use.
type QueryTrace struct {
	id string

	mu sync.Mutex

	mechanisms []TraceEvent
	seedIDs    map[string]struct{}
	boostEdges int
	degraded   []TraceEvent
}

type QueryTraceSnapshot struct {
	ID         string
	Mechanisms []TraceEvent
	SeedIDs    []string
	BoostEdges int
	Degraded   []TraceEvent
}

func NewQueryTrace() *QueryTrace {
	id, err := gonanoid.New()
	if err != nil {
		id = "trace"
	}
	return &QueryTrace{
		id:      id,
		seedIDs: make(map[string]struct{}),
	}
}

// ID returns the unique identifier assigned to this trace.
func (t *QueryTrace) ID() string {
	if t == nil {
		return ""
	}
	return t.id
}

func (t *QueryTrace) Record(event TraceEvent) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	switch event.Kind {
	case TraceEventMechanism:
		t.mechanisms = append(t.mechanisms, event)
	case TraceEventSeedIDs:
		for _, id := range event.NodeIDs {
			if id == "" {
				continue
			}
			t.seedIDs[id] = struct{}{}
		}
	case TraceEventBoostEdges:
		t.boostEdges += event.EdgeCount
	case TraceEventDegraded:
		t.degraded = append(t.degraded, event)
	default:
		return
	}
}

func (t *QueryTrace) Snapshot() QueryTraceSnapshot {
	if t == nil {
		return QueryTraceSnapshot{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	s := QueryTraceSnapshot{
		ID:         t.id,
		Mechanisms: append([]TraceEvent(nil), t.mechanisms...),
		SeedIDs:    make([]string, 0, len(t.seedIDs)),
		BoostEdges: t.boostEdges,
		Degraded:   append([]TraceEvent(nil), t.degraded...),
	}
	for id := range t.seedIDs {
		s.SeedIDs = append(s.SeedIDs, id)
	}
	sort.Strings(s.SeedIDs)

	return s
}

package ai

import "context"

// EmbeddingClient generates vector embeddings for query text. The engine
// treats it as optional: when no client is configured, the vector mechanism
// contributes nothing and the score combiner renormalizes.
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error)
	Metrics() ModelMetrics
}

// ModelMetrics contains performance metrics from embedding operations,
// accumulated across the lifetime of a client.
type ModelMetrics struct {
	InputTokens int   `json:"input_tokens"`
	TotalTokens int   `json:"total_tokens"`
	Requests    int   `json:"requests"`
	DurationMs  int64 `json:"duration_ms"`
}

// Add merges another measurement into the accumulated metrics.
func (m *ModelMetrics) Add(other ModelMetrics) {
	m.InputTokens += other.InputTokens
	m.TotalTokens += other.TotalTokens
	m.Requests += other.Requests
	m.DurationMs += other.DurationMs
}

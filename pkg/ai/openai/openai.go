package openai

import (
	"sync"

	"github.com/compass-ai/compass/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"
)

// EmbedOpenAIClient implements ai.EmbeddingClient against any
// OpenAI-compatible embeddings endpoint.
type EmbedOpenAIClient struct {
	embeddingModel string
	timeoutMin     int

	embeddingLock *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	EmbeddingClient openai.Client
}

// NewEmbedOpenAIClientParams contains configuration options for creating a
// new EmbedOpenAIClient.
type NewEmbedOpenAIClientParams struct {
	EmbeddingModel string

	EmbeddingURL string
	EmbeddingKey string

	TimeoutMin            int
	MaxConcurrentRequests int64
}

// NewEmbedOpenAIClient creates a new OpenAI-backed embedding client. A custom
// EmbeddingURL points the client at compatible third-party endpoints.
func NewEmbedOpenAIClient(params NewEmbedOpenAIClientParams) *EmbedOpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(params.EmbeddingKey),
	}
	if params.EmbeddingURL != "" {
		opts = append(opts, option.WithBaseURL(params.EmbeddingURL))
	}

	maxConcurrent := params.MaxConcurrentRequests
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	timeoutMin := params.TimeoutMin
	if timeoutMin <= 0 {
		timeoutMin = 2
	}

	return &EmbedOpenAIClient{
		embeddingModel:  params.EmbeddingModel,
		timeoutMin:      timeoutMin,
		embeddingLock:   semaphore.NewWeighted(maxConcurrent),
		EmbeddingClient: openai.NewClient(opts...),
	}
}

// Metrics returns a copy of the accumulated embedding metrics.
func (c *EmbedOpenAIClient) Metrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}

func (c *EmbedOpenAIClient) modifyMetrics(m ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics.Add(m)
}

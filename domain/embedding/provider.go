// Package embedding defines the provider contract for turning text into
// fixed-dimension vectors, plus the persisted model configuration that
// selects and parameterizes a provider.
package embedding

import "context"

// Provider converts text into embedding vectors.
//
// Encode is all-or-nothing: it returns exactly one vector per input text,
// each of length Dimension(), or an error — callers must never assume
// partial success within a single call.
type Provider interface {
	// Encode converts a non-empty batch of texts into vectors.
	Encode(ctx context.Context, texts []string) ([][]float64, error)

	// EncodeOne converts a single text into a vector.
	EncodeOne(ctx context.Context, text string) ([]float64, error)

	// TestConnection performs a minimal round trip against the backing
	// model without touching stored data.
	TestConnection(ctx context.Context) error

	// Dimension returns the vector dimension this provider produces.
	Dimension() int

	// ModelInfo describes the configured model.
	ModelInfo() ModelInfo
}

// ModelInfo describes a provider's model for display and diagnostics.
type ModelInfo struct {
	name      string
	kind      Kind
	dimension int
	endpoint  string
}

// NewModelInfo creates a ModelInfo.
func NewModelInfo(name string, kind Kind, dimension int, endpoint string) ModelInfo {
	return ModelInfo{name: name, kind: kind, dimension: dimension, endpoint: endpoint}
}

// Name returns the model name.
func (m ModelInfo) Name() string { return m.name }

// Kind returns the provider kind.
func (m ModelInfo) Kind() Kind { return m.kind }

// Dimension returns the vector dimension.
func (m ModelInfo) Dimension() int { return m.dimension }

// Endpoint returns the base endpoint, empty for local models.
func (m ModelInfo) Endpoint() string { return m.endpoint }

// Kind identifies a provider implementation.
type Kind string

// Kind values. The OpenAI-compatible kinds share one client implementation
// and differ only in their default endpoint.
const (
	KindOpenAI           Kind = "openai"
	KindOpenAICompatible Kind = "openai-compatible"
	KindSiliconFlow      Kind = "siliconflow"
	KindZhipu            Kind = "zhipuai"
	KindQwen             Kind = "qwen"
	KindLocal            Kind = "local"
)

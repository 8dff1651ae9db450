// Package provider contains the embedding provider implementations behind
// the domain Provider interface: hosted OpenAI-compatible APIs and a local
// ONNX model.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/reqmatch/reqmatch/domain/embedding"
)

// errEmbeddingCountMismatch indicates the API returned fewer embedding vectors
// than requested. This is retryable because transient upstream issues (e.g.
// rate-limiting behind a 200 status) can produce partial responses.
var errEmbeddingCountMismatch = errors.New("embedding response count mismatch")

// errUpstreamFailure indicates the API returned HTTP 200 but the response
// body contained an error instead of embedding data. Routing gateways do
// this when every upstream is down, so retrying is futile.
var errUpstreamFailure = errors.New("upstream provider failure")

// ErrEndpointRequired is returned for openai-compatible configurations that
// omit a base URL.
var ErrEndpointRequired = errors.New("endpoint is required for openai-compatible providers")

// Default endpoints per hosted kind. Configurations may override them.
const (
	openAIEndpoint      = "https://api.openai.com/v1"
	siliconFlowEndpoint = "https://api.siliconflow.cn/v1"
	zhipuEndpoint       = "https://open.bigmodel.cn/api/paas/v4"
	qwenEndpoint        = "https://dashscope.aliyuncs.com/compatible-mode/v1"
)

// HostedProvider encodes text through an OpenAI-compatible embeddings API.
// All hosted kinds share this implementation and differ only in their
// default endpoint.
type HostedProvider struct {
	client        *openai.Client
	info          embedding.ModelInfo
	model         string
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
}

// HostedOption is a functional option for HostedProvider.
type HostedOption func(*HostedProvider)

// WithMaxRetries sets the maximum retry count.
func WithMaxRetries(n int) HostedOption {
	return func(p *HostedProvider) { p.maxRetries = n }
}

// WithInitialDelay sets the initial retry delay.
func WithInitialDelay(d time.Duration) HostedOption {
	return func(p *HostedProvider) { p.initialDelay = d }
}

// WithBackoffFactor sets the backoff multiplier.
func WithBackoffFactor(f float64) HostedOption {
	return func(p *HostedProvider) { p.backoffFactor = f }
}

// NewHostedProvider creates a provider for a hosted model configuration.
// apiKey must already be decrypted.
func NewHostedProvider(cfg embedding.ModelConfig, apiKey string, opts ...HostedOption) (*HostedProvider, error) {
	endpoint := cfg.Endpoint()
	if endpoint == "" {
		endpoint = defaultEndpoint(cfg.Kind())
	}
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}

	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = endpoint
	clientCfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}

	model := cfg.Name()
	if m, ok := cfg.Param("model"); ok && m != "" {
		model = m
	}

	p := &HostedProvider{
		client:        openai.NewClientWithConfig(clientCfg),
		info:          embedding.NewModelInfo(cfg.Name(), cfg.Kind(), cfg.Dimension(), endpoint),
		model:         model,
		maxRetries:    5,
		initialDelay:  2 * time.Second,
		backoffFactor: 2.0,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

func defaultEndpoint(kind embedding.Kind) string {
	switch kind {
	case embedding.KindOpenAI:
		return openAIEndpoint
	case embedding.KindSiliconFlow:
		return siliconFlowEndpoint
	case embedding.KindZhipu:
		return zhipuEndpoint
	case embedding.KindQwen:
		return qwenEndpoint
	default:
		return ""
	}
}

// Encode converts texts into vectors in a single API call.
func (p *HostedProvider) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	req := openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(p.model),
		Input: texts,
	}

	var resp openai.EmbeddingResponse
	var err error

	err = p.withRetry(ctx, func() error {
		resp, err = p.client.CreateEmbeddings(ctx, req)
		if err != nil {
			return err
		}
		// Routing gateways can return HTTP 200 with an error body that the
		// client library parses as an empty response. Zero data with zero
		// usage and no model means the upstream is down.
		if len(resp.Data) == 0 && string(resp.Model) == "" && resp.Usage.TotalTokens == 0 {
			return fmt.Errorf("%w: HTTP 200 with no embedding data, no model, and zero usage", errUpstreamFailure)
		}
		if len(resp.Data) != len(texts) {
			return fmt.Errorf("%w: got %d vectors for %d texts", errEmbeddingCountMismatch, len(resp.Data), len(texts))
		}
		if dim := p.info.Dimension(); dim > 0 {
			for _, data := range resp.Data {
				if len(data.Embedding) != dim {
					return fmt.Errorf("%w: got %d values, configured dimension is %d",
						embedding.ErrDimensionMismatch, len(data.Embedding), dim)
				}
			}
		}
		return nil
	})

	if err != nil {
		return nil, p.wrapError("encode", err)
	}

	vectors := make([][]float64, len(resp.Data))
	for i, data := range resp.Data {
		vectors[i] = make([]float64, len(data.Embedding))
		for j, v := range data.Embedding {
			vectors[i][j] = float64(v)
		}
	}
	return vectors, nil
}

// EncodeOne converts a single text into a vector.
func (p *HostedProvider) EncodeOne(ctx context.Context, text string) ([]float64, error) {
	vectors, err := p.Encode(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// TestConnection encodes a short probe text and discards the result.
func (p *HostedProvider) TestConnection(ctx context.Context) error {
	_, err := p.EncodeOne(ctx, "connection test")
	return err
}

// Dimension returns the configured vector dimension.
func (p *HostedProvider) Dimension() int {
	return p.info.Dimension()
}

// ModelInfo describes the configured model.
func (p *HostedProvider) ModelInfo() embedding.ModelInfo {
	return p.info
}

// withRetry executes the function with exponential backoff retry.
func (p *HostedProvider) withRetry(ctx context.Context, fn func() error) error {
	delay := p.initialDelay
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !p.isRetryable(lastErr) {
			return lastErr
		}

		if attempt < p.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * p.backoffFactor)
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// isRetryable determines if an error should be retried.
func (p *HostedProvider) isRetryable(err error) bool {
	// Partial embedding responses are retryable. Upstreams can return 200
	// with missing data under transient load.
	if errors.Is(err, errEmbeddingCountMismatch) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		// Network errors are retryable.
		return true
	}

	return false
}

// wrapError wraps an upstream error into a domain ProviderError. API key
// material never appears in the message.
func (p *HostedProvider) wrapError(op string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return embedding.NewProviderError(op, apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return embedding.NewProviderError(op, reqErr.HTTPStatusCode, reqErr.Error(), err)
	}

	return embedding.NewProviderError(op, 0, err.Error(), err)
}

var _ embedding.Provider = (*HostedProvider)(nil)

package provider

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/reqmatch/reqmatch/domain/embedding"
)

const localBatchMax = 10

// ortSingleton holds the process-wide ONNX Runtime session and pipeline.
// ORT only allows one active session per process, so all LocalProvider
// instances must share it. The mutex serializes both initialization and
// inference (ORT is not thread-safe).
var ortSingleton struct {
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
	mu       sync.Mutex
	ready    bool
}

// LocalProvider encodes text with a sentence-transformer model running in
// process via hugot.
//
// The model can come from two sources (checked in order):
//  1. Model files on disk — a subdirectory of cacheDir containing tokenizer.json.
//  2. Statically embedded in the binary (build tag embed_model), extracted to
//     cacheDir on first use.
type LocalProvider struct {
	cacheDir string
	info     embedding.ModelInfo
}

// NewLocalProvider creates a LocalProvider that looks for model files in
// cacheDir.
func NewLocalProvider(cfg embedding.ModelConfig, cacheDir string) *LocalProvider {
	return &LocalProvider{
		cacheDir: cacheDir,
		info:     embedding.NewModelInfo(cfg.Name(), embedding.KindLocal, cfg.Dimension(), ""),
	}
}

// Available reports whether a usable model exists — either compiled into
// the binary (embed_model build tag) or present on disk in cacheDir.
func (p *LocalProvider) Available() bool {
	if hasEmbeddedModel {
		return true
	}
	_, err := p.diskModelPath()
	return err == nil
}

// Encode converts texts into vectors with the local model, chunked to the
// pipeline's batch capacity.
func (p *LocalProvider) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	if err := p.initialize(); err != nil {
		return nil, embedding.NewProviderError("encode", 0, err.Error(), err)
	}

	vectors := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += localBatchMax {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + localBatchMax
		if end > len(texts) {
			end = len(texts)
		}
		chunk, err := p.encodeChunk(texts[start:end])
		if err != nil {
			return nil, embedding.NewProviderError("encode", 0, err.Error(), err)
		}
		vectors = append(vectors, chunk...)
	}
	return vectors, nil
}

// EncodeOne converts a single text into a vector.
func (p *LocalProvider) EncodeOne(ctx context.Context, text string) ([]float64, error) {
	vectors, err := p.Encode(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// TestConnection loads the model and runs a single inference.
func (p *LocalProvider) TestConnection(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.EncodeOne(ctx, "connection test")
	return err
}

// Dimension returns the configured vector dimension.
func (p *LocalProvider) Dimension() int {
	return p.info.Dimension()
}

// ModelInfo describes the configured model.
func (p *LocalProvider) ModelInfo() embedding.ModelInfo {
	return p.info
}

func (p *LocalProvider) encodeChunk(texts []string) ([][]float64, error) {
	// Hold the singleton mutex for inference — ORT is not thread-safe.
	ortSingleton.mu.Lock()
	defer ortSingleton.mu.Unlock()

	result, err := ortSingleton.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, fmt.Errorf("run embedding pipeline: %w", err)
	}

	vectors := make([][]float64, len(result.Embeddings))
	for i, vec32 := range result.Embeddings {
		vec64 := make([]float64, len(vec32))
		for j, v := range vec32 {
			vec64[j] = float64(v)
		}
		vectors[i] = vec64
	}
	return vectors, nil
}

func (p *LocalProvider) initialize() error {
	ortSingleton.mu.Lock()
	defer ortSingleton.mu.Unlock()

	if ortSingleton.ready {
		return nil
	}

	session, err := newHugotSession()
	if err != nil {
		return fmt.Errorf("create hugot session: %w", err)
	}

	modelPath, err := p.resolveModelPath()
	if err != nil {
		_ = session.Destroy()
		return err
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "local-embeddings",
		Options: []hugot.FeatureExtractionOption{
			pipelines.WithNormalization(),
		},
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		_ = session.Destroy()
		return fmt.Errorf("create feature extraction pipeline: %w", err)
	}

	ortSingleton.session = session
	ortSingleton.pipeline = pipeline
	ortSingleton.ready = true
	return nil
}

// resolveModelPath returns the path to a usable model directory.
// It first checks for model files already on disk in cacheDir, then
// falls back to extracting the statically embedded model (if compiled in).
func (p *LocalProvider) resolveModelPath() (string, error) {
	if diskPath, err := p.diskModelPath(); err == nil {
		return diskPath, nil
	}

	if !hasEmbeddedModel {
		return "", fmt.Errorf("no model found in %s and no embedded model compiled in (build with -tags embed_model)", p.cacheDir)
	}

	if err := os.MkdirAll(p.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create cache directory: %w", err)
	}

	return extractEmbeddedModel(embeddedModelFS, p.cacheDir)
}

// diskModelPath looks for a model subdirectory containing tokenizer.json
// inside cacheDir.
func (p *LocalProvider) diskModelPath() (string, error) {
	entries, err := os.ReadDir(p.cacheDir)
	if err != nil {
		return "", fmt.Errorf("read model directory %s: %w", p.cacheDir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		candidate := filepath.Join(p.cacheDir, entry.Name())
		if _, statErr := os.Stat(filepath.Join(candidate, "tokenizer.json")); statErr == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no model subdirectory with tokenizer.json found in %s", p.cacheDir)
}

// extractEmbeddedModel writes the statically embedded model files to targetDir
// and returns the path to the model subdirectory.
func extractEmbeddedModel(embedded fs.FS, targetDir string) (string, error) {
	modelsFS, err := fs.Sub(embedded, "models")
	if err != nil {
		return "", fmt.Errorf("access embedded models: %w", err)
	}

	entries, err := fs.ReadDir(modelsFS, ".")
	if err != nil {
		return "", fmt.Errorf("read embedded models: %w", err)
	}

	var modelSubdir string
	for _, entry := range entries {
		if entry.IsDir() {
			modelSubdir = entry.Name()
			break
		}
	}
	if modelSubdir == "" {
		return "", fmt.Errorf("no model directory found in embedded models")
	}

	modelPath := filepath.Join(targetDir, modelSubdir)

	// Skip extraction if already present
	if _, statErr := os.Stat(filepath.Join(modelPath, "tokenizer.json")); statErr == nil {
		return modelPath, nil
	}

	modelFS, err := fs.Sub(modelsFS, modelSubdir)
	if err != nil {
		return "", fmt.Errorf("access model subdirectory: %w", err)
	}

	err = fs.WalkDir(modelFS, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		target := filepath.Join(modelPath, path)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, readErr := fs.ReadFile(modelFS, path)
		if readErr != nil {
			return fmt.Errorf("read embedded file %s: %w", path, readErr)
		}
		if mkdirErr := os.MkdirAll(filepath.Dir(target), 0o755); mkdirErr != nil {
			return fmt.Errorf("create directory for %s: %w", path, mkdirErr)
		}
		return os.WriteFile(target, data, 0o644)
	})
	if err != nil {
		return "", fmt.Errorf("extract embedded model: %w", err)
	}

	return modelPath, nil
}

var _ embedding.Provider = (*LocalProvider)(nil)

package hub

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/gzip"

	"github.com/hupe1980/analogy/embedding"
)

// ErrUnknownModel indicates a model name missing from the registry.
type ErrUnknownModel struct {
	Name string
}

func (e *ErrUnknownModel) Error() string {
	return fmt.Sprintf("unknown model: %q", e.Name)
}

// Manager fetches, caches and loads pretrained models for a single
// process run.
//
// The on-disk cache keeps the fetched artifact and a binary snapshot of
// the parsed space; loaded spaces are additionally memoized in-process.
// The Manager is safe for concurrent use.
type Manager struct {
	cacheDir    string
	source      Source
	compression embedding.Compression
	logger      *slog.Logger

	mu     sync.Mutex
	loaded map[string]*embedding.KeyedVectors
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithSource overrides where artifacts are fetched from
// (default: HTTP from the gensim-data releases).
func WithSource(s Source) ManagerOption {
	return func(m *Manager) {
		m.source = s
	}
}

// WithSnapshotCompression sets the compression used for cached snapshots
// (default zstd).
func WithSnapshotCompression(c embedding.Compression) ManagerOption {
	return func(m *Manager) {
		m.compression = c
	}
}

// WithLogger sets the structured logger. Logging is disabled by default.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = l
	}
}

// NewManager creates a Manager caching under cacheDir.
func NewManager(cacheDir string, opts ...ManagerOption) *Manager {
	m := &Manager{
		cacheDir:    cacheDir,
		source:      NewHTTPSource(""),
		compression: embedding.CompressionZstd,
		logger:      slog.New(slog.DiscardHandler),
		loaded:      make(map[string]*embedding.KeyedVectors),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load resolves name against the registry and loads the model.
func (m *Manager) Load(ctx context.Context, name string) (*embedding.KeyedVectors, error) {
	model, ok := Lookup(name)
	if !ok {
		return nil, &ErrUnknownModel{Name: name}
	}
	return m.LoadModel(ctx, model)
}

// LoadModel loads a model from the in-process cache, the snapshot cache,
// or the source, in that order.
func (m *Manager) LoadModel(ctx context.Context, model Model) (*embedding.KeyedVectors, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if kv, ok := m.loaded[model.Name]; ok {
		return kv, nil
	}

	snapPath := filepath.Join(m.cacheDir, model.Name+".snap")
	if kv, err := embedding.ReadSnapshotFile(snapPath); err == nil {
		m.logger.Debug("loaded model from snapshot", "model", model.Name, "path", snapPath)
		m.loaded[model.Name] = kv
		return kv, nil
	} else if !os.IsNotExist(err) {
		m.logger.Warn("discarding unreadable snapshot", "model", model.Name, "error", err)
	}

	artifact, err := m.ensureArtifact(ctx, model)
	if err != nil {
		return nil, err
	}

	kv, err := m.parseArtifact(model, artifact)
	if err != nil {
		return nil, fmt.Errorf("parse model %s: %w", model.Name, err)
	}
	if model.Dimension > 0 && kv.Dimension() != model.Dimension {
		return nil, fmt.Errorf("model %s: artifact dimension %d does not match advertised %d",
			model.Name, kv.Dimension(), model.Dimension)
	}

	// Snapshot failures only cost reload time on the next run.
	if err := embedding.WriteSnapshotFile(snapPath, kv, m.compression); err != nil {
		m.logger.Warn("failed to write snapshot", "model", model.Name, "error", err)
	} else {
		m.logger.Debug("wrote snapshot", "model", model.Name, "path", snapPath)
	}

	m.loaded[model.Name] = kv
	return kv, nil
}

// ensureArtifact returns the local path of the fetched artifact,
// downloading it when absent.
func (m *Manager) ensureArtifact(ctx context.Context, model Model) (string, error) {
	dst := filepath.Join(m.cacheDir, path.Base(model.Key))
	if _, err := os.Stat(dst); err == nil {
		return dst, nil
	}

	if err := os.MkdirAll(m.cacheDir, 0o755); err != nil {
		return "", err
	}

	m.logger.Info("fetching model artifact", "model", model.Name, "key", model.Key)
	tmp, err := os.CreateTemp(m.cacheDir, path.Base(model.Key)+".tmp-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if err := m.source.Fetch(ctx, model.Key, tmp); err != nil {
		tmp.Close()
		return "", fmt.Errorf("fetch model %s: %w", model.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", err
	}
	return dst, nil
}

func (m *Manager) parseArtifact(model Model, artifact string) (*embedding.KeyedVectors, error) {
	f, err := os.Open(artifact)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if model.Compressed {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	}

	switch model.Format {
	case FormatWord2VecBinary:
		return embedding.LoadWord2VecBinary(r)
	case FormatWord2VecText, FormatGloVeText:
		return embedding.LoadText(r)
	default:
		return nil, fmt.Errorf("unsupported model format: %v", model.Format)
	}
}

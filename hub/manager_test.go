package hub

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGzipArtifact(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func tinyModel() Model {
	return Model{
		Name:       "tiny-glove",
		Key:        "tiny-glove.gz",
		Format:     FormatGloVeText,
		Compressed: true,
		Dimension:  2,
	}
}

func TestManagerLoadModelFromLocalSource(t *testing.T) {
	srcDir := t.TempDir()
	cacheDir := t.TempDir()
	writeGzipArtifact(t, filepath.Join(srcDir, "tiny-glove.gz"),
		"king 1 0\nqueen 0 1\n")

	m := NewManager(cacheDir, WithSource(NewLocalSource(srcDir)))

	kv, err := m.LoadModel(context.Background(), tinyModel())
	require.NoError(t, err)
	assert.Equal(t, []string{"king", "queen"}, kv.Vocabulary())
	assert.Equal(t, 2, kv.Dimension())

	// The artifact and a parsed snapshot land in the cache.
	assert.FileExists(t, filepath.Join(cacheDir, "tiny-glove.gz"))
	assert.FileExists(t, filepath.Join(cacheDir, "tiny-glove.snap"))

	// Second load memoizes: same instance, no refetch.
	again, err := m.LoadModel(context.Background(), tinyModel())
	require.NoError(t, err)
	assert.Same(t, kv, again)
}

func TestManagerLoadsFromSnapshotAcrossInstances(t *testing.T) {
	srcDir := t.TempDir()
	cacheDir := t.TempDir()
	writeGzipArtifact(t, filepath.Join(srcDir, "tiny-glove.gz"),
		"king 1 0\nqueen 0 1\n")

	first := NewManager(cacheDir, WithSource(NewLocalSource(srcDir)))
	_, err := first.LoadModel(context.Background(), tinyModel())
	require.NoError(t, err)

	// Remove the artifact; a fresh manager must come up from the snapshot
	// alone.
	require.NoError(t, os.Remove(filepath.Join(cacheDir, "tiny-glove.gz")))

	second := NewManager(cacheDir, WithSource(NewLocalSource(t.TempDir())))
	kv, err := second.LoadModel(context.Background(), tinyModel())
	require.NoError(t, err)
	assert.Equal(t, []string{"king", "queen"}, kv.Vocabulary())
}

func TestManagerDimensionMismatch(t *testing.T) {
	srcDir := t.TempDir()
	writeGzipArtifact(t, filepath.Join(srcDir, "tiny-glove.gz"),
		"king 1 0 0\nqueen 0 1 0\n")

	m := NewManager(t.TempDir(), WithSource(NewLocalSource(srcDir)))
	_, err := m.LoadModel(context.Background(), tinyModel())
	assert.ErrorContains(t, err, "does not match advertised")
}

func TestManagerUnknownModel(t *testing.T) {
	m := NewManager(t.TempDir())
	_, err := m.Load(context.Background(), "no-such-model")

	var unknown *ErrUnknownModel
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "no-such-model", unknown.Name)
}

func TestManagerMissingArtifact(t *testing.T) {
	m := NewManager(t.TempDir(), WithSource(NewLocalSource(t.TempDir())))
	_, err := m.LoadModel(context.Background(), tinyModel())
	assert.Error(t, err)
}

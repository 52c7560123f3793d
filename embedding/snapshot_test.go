package embedding

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpace(t *testing.T) *KeyedVectors {
	t.Helper()
	kv := NewKeyedVectors(3, 4)
	require.NoError(t, kv.Add("the", []float32{0.5, -1.25, 3}))
	require.NoError(t, kv.Add("cat", []float32{1, 0, 0}))
	require.NoError(t, kv.Add("dog", []float32{0, 1, 0}))
	require.NoError(t, kv.Add("fish", []float32{0, 0, 1}))
	return kv
}

func TestSnapshotRoundTrip(t *testing.T) {
	kv := testSpace(t)

	for _, c := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteSnapshot(&buf, kv, c))

			got, err := ReadSnapshot(&buf)
			require.NoError(t, err)

			assert.Equal(t, kv.Dimension(), got.Dimension())
			assert.Equal(t, kv.Vocabulary(), got.Vocabulary())
			for i := 0; i < kv.Len(); i++ {
				assert.Equal(t, kv.Row(i), got.Row(i))
			}
		})
	}
}

func TestSnapshotFileRoundTrip(t *testing.T) {
	kv := testSpace(t)
	path := filepath.Join(t.TempDir(), "space.snap")

	require.NoError(t, WriteSnapshotFile(path, kv, CompressionZstd))

	got, err := ReadSnapshotFile(path)
	require.NoError(t, err)
	assert.Equal(t, kv.Vocabulary(), got.Vocabulary())
}

func TestReadSnapshotRejectsGarbage(t *testing.T) {
	_, err := ReadSnapshot(bytes.NewReader([]byte("not a snapshot at all")))
	assert.Error(t, err)

	_, err = ReadSnapshot(bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestSnapshotUnsupportedCompression(t *testing.T) {
	kv := testSpace(t)
	var buf bytes.Buffer
	assert.Error(t, WriteSnapshot(&buf, kv, Compression(42)))
}

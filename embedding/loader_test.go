package embedding

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTextWord2VecHeader(t *testing.T) {
	input := "3 2\nthe 0.1 0.2\ncat 1.0 0.0\ndog 0.0 1.0\n"

	kv, err := LoadText(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 3, kv.Len())
	assert.Equal(t, 2, kv.Dimension())
	assert.Equal(t, []string{"the", "cat", "dog"}, kv.Vocabulary())

	vec, ok := kv.Vector("cat")
	require.True(t, ok)
	assert.Equal(t, []float32{1, 0}, vec)
}

func TestLoadTextGloVeHeaderless(t *testing.T) {
	input := "the 0.1 0.2 0.3\ncat 1.0 0.0 0.0\n"

	kv, err := LoadText(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, kv.Len())
	assert.Equal(t, 3, kv.Dimension())
	assert.Equal(t, "the", kv.Token(0))
}

func TestLoadTextErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"WidthMismatch", "2 2\na 1 2\nb 1 2 3\n"},
		{"BadComponent", "1 2\na 1 x\n"},
		{"Duplicate", "2 2\na 1 2\na 3 4\n"},
		{"Malformed", "2 2\njusttoken\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadText(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func word2vecBinary(t *testing.T, tokens []string, vecs [][]float32) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("3 2\n")
	for i, token := range tokens {
		buf.WriteString(token)
		buf.WriteByte(' ')
		for _, v := range vecs[i] {
			var raw [4]byte
			binary.LittleEndian.PutUint32(raw[:], math.Float32bits(v))
			buf.Write(raw[:])
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func TestLoadWord2VecBinary(t *testing.T) {
	data := word2vecBinary(t,
		[]string{"the", "cat", "dog"},
		[][]float32{{0.5, 0.25}, {1, 0}, {0, 1}},
	)

	kv, err := LoadWord2VecBinary(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 3, kv.Len())
	assert.Equal(t, 2, kv.Dimension())

	vec, ok := kv.Vector("the")
	require.True(t, ok)
	assert.Equal(t, []float32{0.5, 0.25}, vec)
}

func TestLoadWord2VecBinaryTruncated(t *testing.T) {
	data := word2vecBinary(t,
		[]string{"the", "cat", "dog"},
		[][]float32{{0.5, 0.25}, {1, 0}, {0, 1}},
	)

	_, err := LoadWord2VecBinary(bytes.NewReader(data[:len(data)-5]))
	assert.Error(t, err)
}

func TestLoadFileGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vectors.txt.gz")

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("2 2\nking 1 0\nqueen 0 1\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	kv, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"king", "queen"}, kv.Vocabulary())
}

func TestLoadFilePlain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vectors.txt")
	require.NoError(t, os.WriteFile(path, []byte("a 1 2\nb 3 4\n"), 0o644))

	kv, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, kv.Len())
}

func TestLoadFileBinary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vectors.bin")
	data := word2vecBinary(t,
		[]string{"a", "b", "c"},
		[][]float32{{1, 2}, {3, 4}, {5, 6}},
	)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	kv, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, kv.Len())

	vec, ok := kv.Vector("b")
	require.True(t, ok)
	assert.Equal(t, []float32{3, 4}, vec)
}

package hub

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	m, ok := Lookup("glove-wiki-gigaword-100")
	require.True(t, ok)
	assert.Equal(t, "glove-wiki-gigaword-100/glove-wiki-gigaword-100.gz", m.Key)
	assert.Equal(t, FormatGloVeText, m.Format)
	assert.True(t, m.Compressed)
	assert.Equal(t, 100, m.Dimension)

	m, ok = Lookup("word2vec-google-news-300")
	require.True(t, ok)
	assert.Equal(t, FormatWord2VecBinary, m.Format)
	assert.Equal(t, 300, m.Dimension)

	_, ok = Lookup("no-such-model")
	assert.False(t, ok)
}

func TestModelsSorted(t *testing.T) {
	models := Models()
	require.NotEmpty(t, models)
	assert.True(t, sort.SliceIsSorted(models, func(i, j int) bool {
		return models[i].Name < models[j].Name
	}))
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "Word2VecBinary", FormatWord2VecBinary.String())
	assert.Equal(t, "GloVeText", FormatGloVeText.String())
	assert.Equal(t, "Unknown(42)", Format(42).String())
}

package hub

import (
	"fmt"
	"sort"
)

// Format identifies the on-disk encoding of a model artifact after
// decompression.
type Format int

const (
	// FormatWord2VecBinary is the word2vec binary format (text header,
	// packed little-endian float32 vectors).
	FormatWord2VecBinary Format = iota
	// FormatWord2VecText is the word2vec text format with a
	// count/dimension header line.
	FormatWord2VecText
	// FormatGloVeText is the headerless GloVe text format.
	FormatGloVeText
)

func (f Format) String() string {
	switch f {
	case FormatWord2VecBinary:
		return "Word2VecBinary"
	case FormatWord2VecText:
		return "Word2VecText"
	case FormatGloVeText:
		return "GloVeText"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// Model describes a named pretrained embedding model.
type Model struct {
	// Name is the registry key, e.g. "glove-wiki-gigaword-100".
	Name string
	// Key is the artifact path passed to the Source.
	Key string
	// Format is the artifact encoding after decompression.
	Format Format
	// Compressed marks gzip-compressed artifacts.
	Compressed bool
	// Dimension is the advertised vector dimensionality.
	Dimension int
}

// The gensim-data releases host one gzip artifact per model, keyed
// "<name>/<name>.gz".
func gensimModel(name string, format Format, dim int) Model {
	return Model{
		Name:       name,
		Key:        fmt.Sprintf("%s/%s.gz", name, name),
		Format:     format,
		Compressed: true,
		Dimension:  dim,
	}
}

var registry = func() map[string]Model {
	models := []Model{
		gensimModel("word2vec-google-news-300", FormatWord2VecBinary, 300),
		gensimModel("glove-wiki-gigaword-25", FormatGloVeText, 25),
		gensimModel("glove-wiki-gigaword-50", FormatGloVeText, 50),
		gensimModel("glove-wiki-gigaword-100", FormatGloVeText, 100),
		gensimModel("glove-wiki-gigaword-200", FormatGloVeText, 200),
		gensimModel("glove-twitter-25", FormatGloVeText, 25),
		gensimModel("glove-twitter-50", FormatGloVeText, 50),
	}
	m := make(map[string]Model, len(models))
	for _, model := range models {
		m[model.Name] = model
	}
	return m
}()

// Lookup resolves a model name to its descriptor.
func Lookup(name string) (Model, bool) {
	m, ok := registry[name]
	return m, ok
}

// Models returns all registered models sorted by name.
func Models() []Model {
	models := make([]Model, 0, len(registry))
	for _, m := range registry {
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })
	return models
}

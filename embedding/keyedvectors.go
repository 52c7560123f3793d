package embedding

import (
	"fmt"

	"github.com/hupe1980/analogy/distance"
)

// Store is read access to a static word-embedding space.
type Store interface {
	// Vector returns the vector for token, or false if the token is not
	// in the vocabulary. The returned slice must not be modified.
	Vector(token string) ([]float32, bool)

	// Vocabulary returns the vocabulary ordered by descending corpus
	// frequency. The ordering is stable across calls. The returned slice
	// must not be modified.
	Vocabulary() []string

	// Dimension returns the shared vector dimensionality.
	Dimension() int
}

// Indexer is an optional fast path for resolving a token to its
// frequency-rank position without scanning the vocabulary.
type Indexer interface {
	Index(token string) (int, bool)
}

// RowReader is an optional fast path for positional access with
// precomputed norms, avoiding per-candidate norm recomputation during
// ranking.
type RowReader interface {
	// Row returns the vector at frequency-rank position i.
	// The returned slice must not be modified.
	Row(i int) []float32

	// Norm returns the L2 norm of the vector at position i.
	Norm(i int) float32
}

// ErrDimensionMismatch indicates a vector whose length does not match the
// store dimension.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrDuplicateToken indicates a token added twice to the same space.
type ErrDuplicateToken struct {
	Token string
}

func (e *ErrDuplicateToken) Error() string {
	return fmt.Sprintf("duplicate token: %q", e.Token)
}

// KeyedVectors is an in-memory, frequency-ordered embedding space.
//
// Vectors are stored in a single flat backing array with dimension stride.
// Tokens must be added in descending frequency order; once populated, a
// KeyedVectors is read-only and safe for concurrent use.
type KeyedVectors struct {
	dim    int
	tokens []string
	index  map[string]int
	data   []float32
	norms  []float32
}

// NewKeyedVectors creates an empty space with the given dimension.
// capacity is a hint for the expected vocabulary size.
func NewKeyedVectors(dim, capacity int) *KeyedVectors {
	if capacity < 0 {
		capacity = 0
	}
	return &KeyedVectors{
		dim:    dim,
		tokens: make([]string, 0, capacity),
		index:  make(map[string]int, capacity),
		data:   make([]float32, 0, capacity*dim),
		norms:  make([]float32, 0, capacity),
	}
}

// Add appends a token and its vector in frequency order.
// The vector is copied.
func (kv *KeyedVectors) Add(token string, vec []float32) error {
	if len(vec) != kv.dim {
		return &ErrDimensionMismatch{Expected: kv.dim, Actual: len(vec)}
	}
	if _, ok := kv.index[token]; ok {
		return &ErrDuplicateToken{Token: token}
	}
	kv.index[token] = len(kv.tokens)
	kv.tokens = append(kv.tokens, token)
	kv.data = append(kv.data, vec...)
	kv.norms = append(kv.norms, distance.Norm(vec))
	return nil
}

// Len returns the vocabulary size.
func (kv *KeyedVectors) Len() int { return len(kv.tokens) }

// Dimension returns the shared vector dimensionality.
func (kv *KeyedVectors) Dimension() int { return kv.dim }

// Vocabulary returns the vocabulary in descending frequency order.
// The returned slice is backing storage and must not be modified.
func (kv *KeyedVectors) Vocabulary() []string { return kv.tokens }

// Vector returns the vector for token, or false if absent.
// The returned slice is backing storage and must not be modified.
func (kv *KeyedVectors) Vector(token string) ([]float32, bool) {
	i, ok := kv.index[token]
	if !ok {
		return nil, false
	}
	return kv.Row(i), true
}

// Index returns the frequency-rank position of token, or false if absent.
func (kv *KeyedVectors) Index(token string) (int, bool) {
	i, ok := kv.index[token]
	return i, ok
}

// Token returns the token at frequency-rank position i.
func (kv *KeyedVectors) Token(i int) string { return kv.tokens[i] }

// Row returns the vector at frequency-rank position i.
// The returned slice is backing storage and must not be modified.
func (kv *KeyedVectors) Row(i int) []float32 {
	off := i * kv.dim
	return kv.data[off : off+kv.dim : off+kv.dim]
}

// Norm returns the precomputed L2 norm of the vector at position i.
func (kv *KeyedVectors) Norm(i int) float32 { return kv.norms[i] }

var (
	_ Store     = (*KeyedVectors)(nil)
	_ Indexer   = (*KeyedVectors)(nil)
	_ RowReader = (*KeyedVectors)(nil)
)

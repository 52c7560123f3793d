package analogy

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDegenerateQuery is returned when the target vector of a query has
	// zero magnitude (e.g. a == b with c cancelling out), making cosine
	// similarity undefined for every candidate.
	ErrDegenerateQuery = errors.New("degenerate query: target vector has zero magnitude")
)

// ErrOutOfVocabulary indicates that one or more query input tokens are
// absent from the embedding vocabulary. It aborts only the query that
// raised it, never the batch.
type ErrOutOfVocabulary struct {
	Tokens []string
}

func (e *ErrOutOfVocabulary) Error() string {
	return fmt.Sprintf("out of vocabulary: %s", strings.Join(e.Tokens, ", "))
}

// ErrInvalidParameter indicates a non-positive ranking parameter.
type ErrInvalidParameter struct {
	Name  string
	Value int
}

func (e *ErrInvalidParameter) Error() string {
	return fmt.Sprintf("invalid parameter %s: %d (must be positive)", e.Name, e.Value)
}

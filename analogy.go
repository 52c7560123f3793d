package analogy

import (
	"context"
	"fmt"
	"slices"

	"github.com/hupe1980/analogy/distance"
	"github.com/hupe1980/analogy/embedding"
)

// Query is a single analogy prompt: A is to B as C is to Expected.
// Expected may be empty when only exploring neighbors rather than scoring.
// Immutable once constructed.
type Query struct {
	A, B, C  string
	Expected string
}

func (q Query) String() string {
	return fmt.Sprintf("%s:%s::%s:?", q.A, q.B, q.C)
}

// Candidate is a vocabulary token scored against the target vector.
type Candidate struct {
	Token string
	Score float32
}

// RankStatus classifies the outcome of locating the expected answer.
type RankStatus int

const (
	// StatusNone means no expected answer was supplied.
	StatusNone RankStatus = iota
	// StatusFound means the expected answer appeared in the ranking.
	StatusFound
	// StatusNotFound means the expected answer is in the vocabulary but
	// outside the searched breadth.
	StatusNotFound
	// StatusInvalid means the expected answer is not in the vocabulary
	// at all.
	StatusInvalid
)

func (s RankStatus) String() string {
	switch s {
	case StatusNone:
		return "None"
	case StatusFound:
		return "Found"
	case StatusNotFound:
		return "NotFound"
	case StatusInvalid:
		return "Invalid"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// RankResult is the located position of an expected answer.
// Rank is 1-based and only meaningful when Status is StatusFound.
type RankResult struct {
	Status RankStatus
	Rank   int
}

// Ranking is the result of resolving one query: the TopN display
// candidates plus the full search-space-deep ordering retained for rank
// lookup.
type Ranking struct {
	// Query is the resolved query.
	Query Query
	// Candidates is the display list: the first TopN entries of the full
	// ranking.
	Candidates []Candidate

	ranked []Candidate
	store  embedding.Store
}

// Depth returns the length of the full retained ranking.
func (r *Ranking) Depth() int { return len(r.ranked) }

// At returns the candidate at 1-based rank position.
func (r *Ranking) At(rank int) Candidate { return r.ranked[rank-1] }

// Locate returns where expected falls in the full ranking.
//
// A token absent from the vocabulary yields StatusInvalid; a token present
// in the vocabulary but outside the searched breadth yields StatusNotFound.
// The lookup runs against the full retained ranking, never the TopN
// display slice.
func (r *Ranking) Locate(expected string) RankResult {
	if expected == "" {
		return RankResult{Status: StatusNone}
	}
	if !inVocabulary(r.store, expected) {
		return RankResult{Status: StatusInvalid}
	}
	for i, c := range r.ranked {
		if c.Token == expected {
			return RankResult{Status: StatusFound, Rank: i + 1}
		}
	}
	return RankResult{Status: StatusNotFound}
}

// Resolver ranks vocabulary candidates against offset-analogy target
// vectors. It is stateless between calls and safe for concurrent use over
// a shared read-only store.
type Resolver struct {
	opts options
}

// NewResolver creates a Resolver.
func NewResolver(opts ...Option) *Resolver {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Resolver{opts: o}
}

// Resolve computes the target vector vec(B) - vec(A) + vec(C), scores the
// SearchSpace most frequent vocabulary tokens by cosine similarity to it,
// and returns the deterministic ranking. A, B and C are never candidates.
//
// Ties are broken by ascending frequency rank so that rankings are
// reproducible across runs and store implementations.
func (r *Resolver) Resolve(ctx context.Context, store embedding.Store, q Query) (*Ranking, error) {
	rk, err := r.resolve(store, q)
	if r.opts.logger != nil {
		n := 0
		if rk != nil {
			n = rk.Depth()
		}
		r.opts.logger.LogResolve(ctx, q, n, err)
	}
	return rk, err
}

type scoredRow struct {
	row   int
	score float32
}

func (r *Resolver) resolve(store embedding.Store, q Query) (*Ranking, error) {
	if r.opts.topN <= 0 {
		return nil, &ErrInvalidParameter{Name: "top_n", Value: r.opts.topN}
	}
	if r.opts.searchSpace <= 0 {
		return nil, &ErrInvalidParameter{Name: "search_space", Value: r.opts.searchSpace}
	}

	va, okA := store.Vector(q.A)
	vb, okB := store.Vector(q.B)
	vc, okC := store.Vector(q.C)
	if !okA || !okB || !okC {
		oov := &ErrOutOfVocabulary{}
		for _, miss := range []struct {
			ok    bool
			token string
		}{{okA, q.A}, {okB, q.B}, {okC, q.C}} {
			if !miss.ok {
				oov.Tokens = append(oov.Tokens, miss.token)
			}
		}
		return nil, oov
	}

	target := make([]float32, len(vb))
	for i := range target {
		target[i] = vb[i] - va[i] + vc[i]
	}
	targetNorm := distance.Norm(target)
	if targetNorm == 0 {
		return nil, ErrDegenerateQuery
	}

	vocab := store.Vocabulary()
	limit := min(r.opts.searchSpace, len(vocab))
	rows, _ := store.(embedding.RowReader)

	scored := make([]scoredRow, 0, limit)
	for i := 0; i < limit; i++ {
		if r.opts.restrict != nil && !r.opts.restrict.Contains(uint32(i)) {
			continue
		}
		token := vocab[i]
		if token == q.A || token == q.B || token == q.C {
			continue
		}

		var vec []float32
		var norm float32
		if rows != nil {
			vec = rows.Row(i)
			norm = rows.Norm(i)
		} else {
			vec, _ = store.Vector(token)
			norm = distance.Norm(vec)
		}

		// Zero vectors have no direction and cannot be ranked.
		sim, ok := distance.CosineWithNorms(distance.Dot(target, vec), targetNorm, norm)
		if !ok {
			continue
		}
		scored = append(scored, scoredRow{row: i, score: sim})
	}

	slices.SortFunc(scored, func(a, b scoredRow) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return a.row - b.row
		}
	})

	ranked := make([]Candidate, len(scored))
	for i, s := range scored {
		ranked[i] = Candidate{Token: vocab[s.row], Score: s.score}
	}

	return &Ranking{
		Query:      q,
		Candidates: ranked[:min(r.opts.topN, len(ranked))],
		ranked:     ranked,
		store:      store,
	}, nil
}

func inVocabulary(store embedding.Store, token string) bool {
	if idx, ok := store.(embedding.Indexer); ok {
		_, found := idx.Index(token)
		return found
	}
	_, found := store.Vector(token)
	return found
}

package analogy

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/analogy/embedding"
)

// Outcome is the result of resolving and scoring one query.
// Created once per query by a Runner, immutable thereafter.
type Outcome struct {
	// Query is the input query, unchanged.
	Query Query
	// Candidates is the TopN display list. Empty when Err is set.
	Candidates []Candidate
	// Predicted is the top-ranked candidate's token, if any.
	Predicted string
	// Rank locates the expected answer within the full ranking.
	Rank RankResult
	// Err carries the failure that aborted this query, if any. A set Err
	// never aborts the batch.
	Err error
}

// Failed reports whether the query failed to resolve.
func (o Outcome) Failed() bool { return o.Err != nil }

// Runner drives a Resolver over an ordered sequence of queries with
// per-query failure isolation.
type Runner struct {
	resolver *Resolver
	opts     options
}

// NewRunner creates a Runner. Ranking options (TopN, SearchSpace,
// Restrict) are forwarded to the underlying Resolver; WithWorkers controls
// batch concurrency.
func NewRunner(opts ...Option) *Runner {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Runner{
		resolver: &Resolver{opts: o},
		opts:     o,
	}
}

// Run resolves every query and returns one Outcome per input query, in
// input order regardless of completion order. A failure in one query is
// recorded on its Outcome and never aborts the rest.
//
// Context cancellation marks the remaining queries as failed with the
// context error; outcomes already produced are kept.
func (r *Runner) Run(ctx context.Context, store embedding.Store, queries []Query) []Outcome {
	outcomes := make([]Outcome, len(queries))

	if r.opts.workers > 1 {
		g := new(errgroup.Group)
		g.SetLimit(r.opts.workers)
		for i, q := range queries {
			g.Go(func() error {
				outcomes[i] = r.evaluate(ctx, store, q)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, q := range queries {
			outcomes[i] = r.evaluate(ctx, store, q)
		}
	}

	if r.opts.logger != nil {
		failed := 0
		for _, o := range outcomes {
			if o.Failed() {
				failed++
			}
		}
		r.opts.logger.LogBatch(ctx, len(outcomes), failed)
	}
	return outcomes
}

func (r *Runner) evaluate(ctx context.Context, store embedding.Store, q Query) Outcome {
	if err := ctx.Err(); err != nil {
		return Outcome{Query: q, Err: err}
	}

	rk, err := r.resolver.Resolve(ctx, store, q)
	if err != nil {
		return Outcome{Query: q, Err: err}
	}

	out := Outcome{
		Query:      q,
		Candidates: rk.Candidates,
		Rank:       rk.Locate(q.Expected),
	}
	if len(rk.Candidates) > 0 {
		out.Predicted = rk.Candidates[0].Token
	}
	return out
}

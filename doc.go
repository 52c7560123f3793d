// Package analogy evaluates word-analogy queries ("A is to B as C is
// to ?") against a pretrained static word-embedding space.
//
// A Resolver computes the offset-analogy target vector
// vec(B) - vec(A) + vec(C) and ranks a bounded slice of the vocabulary by
// cosine similarity to it. The resulting Ranking exposes a display list of
// the top candidates and locates where an expected answer falls within the
// full searched breadth. A Runner applies this over an ordered batch of
// queries with per-query failure isolation, and Summarize reduces the
// outcomes into suite-level accuracy metrics.
//
//	store, _ := embedding.LoadFile("glove.6B.100d.txt")
//	runner := analogy.NewRunner(
//	    analogy.WithTopN(10),
//	    analogy.WithSearchSpace(30000),
//	)
//	outcomes := runner.Run(ctx, store, queries)
//	summary := analogy.Summarize(outcomes, 10)
//
// Embedding spaces are provided by the embedding package; pretrained
// models can be fetched and cached through the hub package.
package analogy

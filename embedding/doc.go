// Package embedding provides read access to static word-embedding spaces.
//
// # Store Contract
//
// A Store maps vocabulary tokens to fixed-dimension float32 vectors and
// exposes the vocabulary as a frequency-descending ordered sequence. The
// ordering is stable across calls; every token has exactly one vector of
// the store's dimension.
//
// # KeyedVectors
//
// KeyedVectors is the in-memory implementation: a flat float32 backing
// array with dimension stride, a token index, and precomputed L2 norms.
// It is immutable once populated and safe for concurrent reads.
//
// # Loading
//
// Loaders are provided for the word2vec text format (count/dimension
// header), the GloVe text format (headerless), and the word2vec binary
// format, each from plain or gzip-compressed input. Parsed spaces can be
// persisted as compact binary snapshots (optionally zstd- or
// lz4-compressed) for fast reload.
package embedding

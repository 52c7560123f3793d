// Package distance provides vector similarity math used for candidate
// ranking: dot product, L2 norm, and cosine similarity over float32 slices.
package distance

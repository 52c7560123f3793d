// Package hub downloads, caches and loads pretrained word-embedding
// models by name.
//
// A Model descriptor names the artifact, its format and where to fetch it;
// Lookup resolves the well-known gensim-hosted models once at startup. A
// Source abstracts where artifacts come from (local directory, HTTP(S),
// and — via the s3 and minio subpackages — object storage). The Manager
// owns the on-disk cache for a single process run: fetched artifacts are
// extracted, parsed, persisted as binary snapshots for fast reload, and
// memoized in-process.
package hub

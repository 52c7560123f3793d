// Package minio provides a hub.Source backed by MinIO or any
// S3-compatible object store.
package minio

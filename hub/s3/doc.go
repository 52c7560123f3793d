// Package s3 provides a hub.Source backed by Amazon S3, for model
// artifacts mirrored into private buckets.
package s3

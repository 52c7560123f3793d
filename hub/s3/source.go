package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hupe1980/analogy/hub"
)

// Source implements hub.Source for S3.
type Source struct {
	downloader *manager.Downloader
	bucket     string
	prefix     string
}

// NewSource creates an S3 model source.
// rootPrefix is prepended to all keys (e.g. "models/").
func NewSource(client *s3.Client, bucket, rootPrefix string) *Source {
	// Concurrency 1 keeps part writes sequential so downloads can stream
	// into a plain io.Writer.
	downloader := manager.NewDownloader(client, func(d *manager.Downloader) {
		d.Concurrency = 1
	})
	return &Source{
		downloader: downloader,
		bucket:     bucket,
		prefix:     rootPrefix,
	}
}

// NewSourceFromConfig creates an S3 model source using the default AWS
// configuration chain.
func NewSourceFromConfig(ctx context.Context, bucket, rootPrefix string) (*Source, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewSource(s3.NewFromConfig(cfg), bucket, rootPrefix), nil
}

// Fetch streams the artifact at key into dst.
func (s *Source) Fetch(ctx context.Context, key string, dst io.Writer) error {
	_, err := s.downloader.Download(ctx, &sequentialWriterAt{w: dst}, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path.Join(s.prefix, key)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return fmt.Errorf("%w: %s", hub.ErrNotFound, key)
		}
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return fmt.Errorf("%w: %s", hub.ErrNotFound, key)
		}
		return err
	}
	return nil
}

// sequentialWriterAt adapts an io.Writer to io.WriterAt for strictly
// in-order part writes.
type sequentialWriterAt struct {
	w       io.Writer
	written int64
}

func (s *sequentialWriterAt) WriteAt(p []byte, off int64) (int, error) {
	if off != s.written {
		return 0, fmt.Errorf("non-sequential write at offset %d (expected %d)", off, s.written)
	}
	n, err := s.w.Write(p)
	s.written += int64(n)
	return n, err
}

var _ hub.Source = (*Source)(nil)

package minio

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"

	"github.com/hupe1980/analogy/hub"
)

// Source implements hub.Source for MinIO and S3-compatible storage.
type Source struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewSource creates a MinIO model source.
// rootPrefix is prepended to all keys (e.g. "models/").
func NewSource(client *minio.Client, bucket, rootPrefix string) *Source {
	return &Source{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

// Fetch streams the artifact at key into dst.
func (s *Source) Fetch(ctx context.Context, key string, dst io.Writer) error {
	objKey := path.Join(s.prefix, key)

	obj, err := s.client.GetObject(ctx, s.bucket, objKey, minio.GetObjectOptions{})
	if err != nil {
		return err
	}
	defer obj.Close()

	if _, err := io.Copy(dst, obj); err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return fmt.Errorf("%w: %s", hub.ErrNotFound, objKey)
		}
		return err
	}
	return nil
}

var _ hub.Source = (*Source)(nil)

package s3blob

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// Writer implements domain.BlobWriter on an S3-compatible backend. Export
// snapshots are small, so uploads go through the upload manager with its
// default part size.
type Writer struct {
	client *Client
}

// NewWriter creates a Writer that uploads to the client's configured bucket.
func NewWriter(c *Client) *Writer {
	return &Writer{client: c}
}

// Put uploads data under the given object path.
func (w *Writer) Put(ctx context.Context, path string, data io.Reader, contentType string) error {
	uploader := manager.NewUploader(w.client.s3)
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(w.client.bucket),
		Key:         aws.String(path),
		Body:        data,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3blob: put object %s: %w", path, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.BlobWriter = (*Writer)(nil)

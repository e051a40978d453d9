package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Client wraps the GCS bucket holding video objects.
type Client struct {
	storageClient *storage.Client
	Bucket        string
}

// NewClient builds a bucket client. credentialsFile may be empty, in which
// case application default credentials apply.
func NewClient(ctx context.Context, bucket, credentialsFile string) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	storageClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}

	return &Client{storageClient: storageClient, Bucket: bucket}, nil
}

// ObjectPath builds the bucket key for a client's video:
// clients/{clientId}/{month}-{year}/{filename}.
func ObjectPath(clientID uuid.UUID, month, year int, filename string) string {
	return fmt.Sprintf("clients/%s/%d-%d/%s", clientID.String(), month, year, filename)
}

// Upload streams a video into the bucket and returns the byte count written.
func (c *Client) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (int64, error) {
	obj := c.storageClient.Bucket(c.Bucket).Object(objectPath)
	writer := obj.NewWriter(ctx)
	if contentType != "" {
		writer.ContentType = contentType
	}

	n, err := io.Copy(writer, r)
	if err != nil {
		writer.Close()
		return 0, fmt.Errorf("failed to copy upload to GCS object %s: %w", objectPath, err)
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("failed to close GCS writer for %s: %w", objectPath, err)
	}

	log.Infof("Uploaded %d bytes to gs://%s/%s", n, c.Bucket, objectPath)
	return n, nil
}

// SignedURL returns a time-limited V4 GET URL for an object.
func (c *Client) SignedURL(objectPath string, ttl time.Duration) (string, error) {
	url, err := c.storageClient.Bucket(c.Bucket).SignedURL(objectPath, &storage.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(ttl),
		Scheme:  storage.SigningSchemeV4,
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for %s: %w", objectPath, err)
	}
	return url, nil
}

// Delete removes an object from the bucket.
func (c *Client) Delete(ctx context.Context, objectPath string) error {
	if err := c.storageClient.Bucket(c.Bucket).Object(objectPath).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %s: %w", objectPath, err)
	}
	log.Infof("Deleted gs://%s/%s", c.Bucket, objectPath)
	return nil
}

// ObjectInfo describes one stored object for the storage sync endpoint.
type ObjectInfo struct {
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Updated     time.Time `json:"updated"`
}

// List returns the objects under a key prefix.
func (c *Client) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	it := c.storageClient.Bucket(c.Bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var objects []ObjectInfo
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list GCS objects under %s: %w", prefix, err)
		}
		objects = append(objects, ObjectInfo{
			Path:        attrs.Name,
			Size:        attrs.Size,
			ContentType: attrs.ContentType,
			Updated:     attrs.Updated,
		})
	}
	return objects, nil
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.storageClient.Close()
}

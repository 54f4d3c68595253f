package upload

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
)

// StorageClient is the part of the Supabase Storage API used for uploads
type StorageClient interface {
	// Upload stores data under name in bucket and returns the object path
	Upload(ctx context.Context, bucket, name string, data []byte, contentType string) (string, error)

	// PublicURL returns the public address of path in bucket
	PublicURL(bucket, path string) string
}

// StorageError is an error reported by the storage API itself
type StorageError struct {
	Message string
}

func (e *StorageError) Error() string {
	return e.Message
}

// StorageClientFactory creates a client scoped to one project URL and key
type StorageClientFactory func(projectURL, accessToken string) StorageClient

// SDKStorageClient uploads through the Supabase storage-go client.
// It holds a service credential only: no session is persisted or refreshed.
type SDKStorageClient struct {
	client *storage_go.Client
}

// NewSDKStorageClient creates a client for the project at projectURL
func NewSDKStorageClient(projectURL, accessToken string) *SDKStorageClient {
	base := strings.TrimRight(projectURL, "/") + "/storage/v1"
	return &SDKStorageClient{
		client: storage_go.NewClient(base, accessToken, map[string]string{"apikey": accessToken}),
	}
}

// Upload creates a new object; existing objects are never overwritten.
// The underlying client takes no context, so ctx is only checked before
// the request starts.
func (c *SDKStorageClient) Upload(ctx context.Context, bucket, name string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := strings.TrimLeft(name, "/")
	if contentType == "" {
		contentType = defaultContentType
	}
	upsert := false
	cacheControl := "3600"

	resp, err := c.client.UploadFile(bucket, path, bytes.NewReader(data), storage_go.FileOptions{
		ContentType:  &contentType,
		CacheControl: &cacheControl,
		Upsert:       &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", bucket, path, err)
	}
	if resp.Key == "" {
		msg := resp.Message
		if msg == "" {
			msg = "storage returned no object key"
		}
		return "", &StorageError{Message: msg}
	}

	return path, nil
}

// PublicURL returns the public object URL for path in bucket
func (c *SDKStorageClient) PublicURL(bucket, path string) string {
	return c.client.GetPublicUrl(bucket, path).SignedURL
}

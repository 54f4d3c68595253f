package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig describes the S3-compatible bucket behind /api/upload
type MinioConfig struct {
	Endpoint   string // host:port, or a URL whose scheme selects TLS
	AccessKey  string
	SecretKey  string
	Bucket     string
	Region     string // default: us-east-1
	Prefix     string // optional key prefix inside the bucket
	PublicBase string // default: <scheme>://<endpoint>/<bucket>
	Secure     bool
}

// Validate reports the first missing required field
func (c MinioConfig) Validate() error {
	switch {
	case c.Endpoint == "":
		return errors.New("minio: endpoint is required")
	case c.AccessKey == "":
		return errors.New("minio: access_key is required")
	case c.SecretKey == "":
		return errors.New("minio: secret_key is required")
	case c.Bucket == "":
		return errors.New("minio: bucket is required")
	}
	return nil
}

// endpoint strips an http:// or https:// scheme, which minio.New rejects,
// and lets it override Secure.
func (c MinioConfig) endpoint() (host string, secure bool, err error) {
	if !strings.Contains(c.Endpoint, "://") {
		return c.Endpoint, c.Secure, nil
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return "", false, fmt.Errorf("minio: invalid endpoint %q: %w", c.Endpoint, err)
	}
	switch u.Scheme {
	case "http":
		return u.Host, false, nil
	case "https":
		return u.Host, true, nil
	default:
		return "", false, fmt.Errorf("minio: unsupported endpoint scheme %q", u.Scheme)
	}
}

func (c MinioConfig) publicBase(host string, secure bool) string {
	if c.PublicBase != "" {
		return strings.TrimRight(c.PublicBase, "/")
	}
	scheme := "http"
	if secure {
		scheme = "https"
	}
	return scheme + "://" + host + "/" + c.Bucket
}

// MinioStore implements BlobStore on MinIO or any S3-compatible service
type MinioStore struct {
	client     *minio.Client
	bucket     string
	prefix     string
	publicBase string
}

// NewMinioStore creates the client and checks that the bucket exists
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	host, secure, err := cfg.endpoint()
	if err != nil {
		return nil, err
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: failed to create client: %w", err)
	}

	s := &MinioStore{
		client:     client,
		bucket:     cfg.Bucket,
		prefix:     strings.Trim(cfg.Prefix, "/"),
		publicBase: cfg.publicBase(host, secure),
	}
	if err := s.Ping(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MinioStore) objectName(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

// Put uploads r under key
func (s *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	name := s.objectName(key)
	_, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("minio: failed to upload to %s: %w", name, err)
	}
	return nil
}

// PublicURL returns publicBase + "/" + object name, each path segment
// escaped so names carrying '#', '?' or spaces stay in the path.
func (s *MinioStore) PublicURL(key string) string {
	segments := strings.Split(s.objectName(key), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.publicBase + "/" + strings.Join(segments, "/")
}

// Ping checks that the bucket exists
func (s *MinioStore) Ping(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("minio: failed to check bucket existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("minio: bucket %s does not exist", s.bucket)
	}
	return nil
}

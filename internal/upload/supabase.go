package upload

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/zinc-sig/imagedrop/internal/uploadconfig"
)

// SupabaseAdapter uploads to a Supabase Storage bucket
type SupabaseAdapter struct {
	newClient StorageClientFactory
	newName   func(original string) string
}

// NewSupabaseAdapter creates an adapter using the storage-go client
func NewSupabaseAdapter() *SupabaseAdapter {
	return NewSupabaseAdapterWithClient(func(projectURL, token string) StorageClient {
		return NewSDKStorageClient(projectURL, token)
	})
}

// NewSupabaseAdapterWithClient creates an adapter using a custom storage client
func NewSupabaseAdapterWithClient(factory StorageClientFactory) *SupabaseAdapter {
	return &SupabaseAdapter{
		newClient: factory,
		newName:   RandomObjectName,
	}
}

// Name returns the provider name
func (s *SupabaseAdapter) Name() string {
	return string(uploadconfig.ProviderSupabase)
}

// Upload stores file under a random name and returns its public URL
func (s *SupabaseAdapter) Upload(ctx context.Context, file *File, cfg uploadconfig.Config) (string, error) {
	if cfg.SupabaseURL == nil || strings.TrimSpace(*cfg.SupabaseURL) == "" {
		return "", fmt.Errorf("%w: supabaseUrl is required for the supabase provider", ErrConfigurationIncomplete)
	}

	client := s.newClient(*cfg.SupabaseURL, cfg.AccessToken)
	name := s.newName(file.Name)

	path, err := client.Upload(ctx, cfg.BucketName, name, file.Data, file.ContentType)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSupabaseUploadFailed, err)
	}

	return client.PublicURL(cfg.BucketName, path), nil
}

// RandomObjectName returns a collision free name that keeps the extension
// of original. The extension is whatever follows the last dot; a name
// without a dot is used whole as the extension.
func RandomObjectName(original string) string {
	ext := original
	if i := strings.LastIndex(original, "."); i >= 0 {
		ext = original[i+1:]
	}
	return uuid.NewString() + "." + ext
}

package upload

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zinc-sig/imagedrop/internal/uploadconfig"
)

// MockAdapter implements Adapter for testing
type MockAdapter struct {
	name      string
	url       string
	uploadErr error
	uploads   []mockUpload
}

type mockUpload struct {
	name   string
	bucket string
}

func (m *MockAdapter) Name() string {
	return m.name
}

func (m *MockAdapter) Upload(ctx context.Context, file *File, cfg uploadconfig.Config) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	m.uploads = append(m.uploads, mockUpload{name: file.Name, bucket: cfg.BucketName})
	return m.url, nil
}

func TestAdaptersFor(t *testing.T) {
	adapters := Adapters{
		Vercel:     &MockAdapter{name: "vercel"},
		Supabase:   &MockAdapter{name: "supabase"},
		Cloudinary: &MockAdapter{name: "cloudinary"},
	}

	for _, p := range uploadconfig.Providers() {
		t.Run(string(p), func(t *testing.T) {
			adapter, err := adapters.For(p)
			if err != nil {
				t.Fatalf("Failed to resolve adapter: %v", err)
			}
			if adapter.Name() != string(p) {
				t.Errorf("Expected adapter %s, got %s", p, adapter.Name())
			}
		})
	}
}

func TestAdaptersForUnknownProvider(t *testing.T) {
	adapters := DefaultAdapters(nil, "http://localhost:8080")

	_, err := adapters.For(uploadconfig.Provider("dropbox"))
	if !errors.Is(err, ErrUnsupportedProvider) {
		t.Fatalf("Expected ErrUnsupportedProvider, got %v", err)
	}
	if !strings.Contains(err.Error(), "vercel, supabase, cloudinary") {
		t.Errorf("Expected supported providers in message, got %q", err.Error())
	}
}

func TestAdaptersForMissingAdapter(t *testing.T) {
	adapters := Adapters{Vercel: &MockAdapter{name: "vercel"}}

	if _, err := adapters.For(uploadconfig.ProviderCloudinary); !errors.Is(err, ErrUnsupportedProvider) {
		t.Errorf("Expected ErrUnsupportedProvider for unset adapter, got %v", err)
	}
}

func TestDefaultAdapterNames(t *testing.T) {
	adapters := DefaultAdapters(nil, "http://localhost:8080")

	for _, p := range uploadconfig.Providers() {
		adapter, err := adapters.For(p)
		if err != nil {
			t.Fatalf("Unexpected error for %s: %v", p, err)
		}
		if adapter.Name() != string(p) {
			t.Errorf("Expected adapter name %s, got %s", p, adapter.Name())
		}
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(pngPath, []byte("not really a png"), 0644); err != nil {
		t.Fatal(err)
	}

	file, err := ReadFile(pngPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if file.Name != "photo.png" {
		t.Errorf("Expected name photo.png, got %s", file.Name)
	}
	if file.ContentType != "image/png" {
		t.Errorf("Expected image/png, got %s", file.ContentType)
	}
	if file.Size != int64(len("not really a png")) {
		t.Errorf("Unexpected size %d", file.Size)
	}

	// no extension: sniffed from content
	gifPath := filepath.Join(dir, "anim")
	if err := os.WriteFile(gifPath, []byte("GIF89a\x01\x00\x01\x00"), 0644); err != nil {
		t.Fatal(err)
	}
	gif, err := ReadFile(gifPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if gif.ContentType != "image/gif" {
		t.Errorf("Expected sniffed image/gif, got %s", gif.ContentType)
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestIsKnown(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), ErrFileTooLarge)
	if !IsKnown(wrapped) {
		t.Error("Expected wrapped ErrFileTooLarge to be known")
	}
	if IsKnown(errors.New("boom")) {
		t.Error("Expected arbitrary error to be unknown")
	}
}

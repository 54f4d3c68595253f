package upload

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/zinc-sig/imagedrop/internal/uploadconfig"
)

// File is a single image to upload: its bytes plus the declared metadata
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// NewFile wraps data with the given name and media type
func NewFile(name, contentType string, data []byte) *File {
	return &File{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}
}

// ReadFile loads a file from disk. The media type comes from the extension,
// falling back to content sniffing.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	name := filepath.Base(path)
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return NewFile(name, contentType, data), nil
}

// Adapter uploads a file to one storage provider and returns its public URL
type Adapter interface {
	// Upload sends file using the credentials in cfg
	Upload(ctx context.Context, file *File, cfg uploadconfig.Config) (string, error)

	// Name returns the provider name
	Name() string
}

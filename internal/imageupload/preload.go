package imageupload

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"

	// Formats a browser would render
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/zinc-sig/imagedrop/internal/upload"
)

// Preloader waits until the image at url is loadable
type Preloader interface {
	Preload(ctx context.Context, url string) error
}

// PreloaderFunc adapts a function to Preloader
type PreloaderFunc func(ctx context.Context, url string) error

// Preload calls f(ctx, url)
func (f PreloaderFunc) Preload(ctx context.Context, url string) error {
	return f(ctx, url)
}

// HTTPPreloader fetches the image and decodes its header
type HTTPPreloader struct {
	client *http.Client
}

// NewHTTPPreloader creates a preloader. A nil client means http.DefaultClient.
func NewHTTPPreloader(client *http.Client) *HTTPPreloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPPreloader{client: client}
}

// Preload succeeds once url answers 2xx with a decodable image. Formats
// without a registered decoder, such as SVG, pass when the server labels
// them image/*.
func (p *HTTPPreloader) Preload(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", upload.ErrPreloadFailed, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", upload.ErrPreloadFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned %s", upload.ErrPreloadFailed, url, resp.Status)
	}

	_, _, err = image.DecodeConfig(resp.Body)
	if err == nil {
		return nil
	}
	if errors.Is(err, image.ErrFormat) && strings.HasPrefix(resp.Header.Get("Content-Type"), "image/") {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return fmt.Errorf("%w: decode %s: %w", upload.ErrPreloadFailed, url, err)
}

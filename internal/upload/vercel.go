package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/zinc-sig/imagedrop/internal/uploadconfig"
)

const (
	// VercelUploadPath is the route that accepts raw image uploads
	VercelUploadPath = "/api/upload"

	// VercelFilenameHeader carries the original file name
	VercelFilenameHeader = "x-vercel-filename"

	// DefaultVercelBaseURL is where `imagedrop serve` listens by default
	DefaultVercelBaseURL = "http://localhost:8080"

	defaultContentType = "application/octet-stream"
	defaultFilename    = "image.png"
)

// VercelAdapter posts the raw file to the application's /api/upload route
type VercelAdapter struct {
	client  *http.Client
	baseURL string
}

// NewVercelAdapter creates a VercelAdapter targeting baseURL + /api/upload
func NewVercelAdapter(client *http.Client, baseURL string) *VercelAdapter {
	if client == nil {
		client = http.DefaultClient
	}
	return &VercelAdapter{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Name returns the provider name
func (v *VercelAdapter) Name() string {
	return string(uploadconfig.ProviderVercel)
}

// Upload sends file and returns the url field of the JSON response
func (v *VercelAdapter) Upload(ctx context.Context, file *File, cfg uploadconfig.Config) (string, error) {
	if v.baseURL == "" {
		return "", fmt.Errorf("%w: vercel upload base URL is not set", ErrConfigurationIncomplete)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+VercelUploadPath, bytes.NewReader(file.Data))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrVercelUploadFailed, err)
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	filename := file.Name
	if filename == "" {
		filename = defaultFilename
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set(VercelFilenameHeader, filename)
	req.Header.Set("Authorization", "Bearer "+cfg.AccessToken)

	resp, err := v.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrVercelUploadFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		drain(resp)
		return "", fmt.Errorf("%w: %s", ErrVercelUploadFailed, statusText(resp))
	}

	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: invalid response body: %w", ErrVercelUploadFailed, err)
	}
	if body.URL == "" {
		return "", fmt.Errorf("%w: response did not include a url", ErrVercelUploadFailed)
	}

	return body.URL, nil
}

package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/zinc-sig/imagedrop/internal/uploadconfig"
)

// CloudinaryAPIBase is the public Cloudinary upload API origin
const CloudinaryAPIBase = "https://api.cloudinary.com"

// CloudinaryAdapter uploads through an unsigned upload preset. The
// configured bucket name is used as the preset name.
type CloudinaryAdapter struct {
	client  *http.Client
	apiBase string
}

// NewCloudinaryAdapter creates an adapter for the public Cloudinary API
func NewCloudinaryAdapter(client *http.Client) *CloudinaryAdapter {
	return NewCloudinaryAdapterWithBase(client, CloudinaryAPIBase)
}

// NewCloudinaryAdapterWithBase creates an adapter for a custom API origin
func NewCloudinaryAdapterWithBase(client *http.Client, apiBase string) *CloudinaryAdapter {
	if client == nil {
		client = http.DefaultClient
	}
	return &CloudinaryAdapter{
		client:  client,
		apiBase: strings.TrimRight(apiBase, "/"),
	}
}

// Name returns the provider name
func (c *CloudinaryAdapter) Name() string {
	return string(uploadconfig.ProviderCloudinary)
}

// Upload posts file as multipart form data and returns secure_url
func (c *CloudinaryAdapter) Upload(ctx context.Context, file *File, cfg uploadconfig.Config) (string, error) {
	if cfg.CloudinaryCloudName == nil || strings.TrimSpace(*cfg.CloudinaryCloudName) == "" {
		return "", fmt.Errorf("%w: cloudinaryCloudName is required for the cloudinary provider", ErrConfigurationIncomplete)
	}

	body, contentType, err := cloudinaryForm(file, cfg.BucketName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCloudinaryUploadFailed, err)
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", c.apiBase, url.PathEscape(*cfg.CloudinaryCloudName))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCloudinaryUploadFailed, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+cfg.AccessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCloudinaryUploadFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		drain(resp)
		return "", fmt.Errorf("%w: %s", ErrCloudinaryUploadFailed, statusText(resp))
	}

	var result struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: invalid response body: %w", ErrCloudinaryUploadFailed, err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("%w: response did not include a secure_url", ErrCloudinaryUploadFailed)
	}

	return result.SecureURL, nil
}

func cloudinaryForm(file *File, preset string) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	filename := file.Name
	if filename == "" {
		filename = defaultFilename
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}

	if err := w.WriteField("upload_preset", preset); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

package uploadconfig

import (
	"errors"
	"fmt"
	"strings"
)

// EnvPrefix is the prefix shared by every bootstrap environment variable
const EnvPrefix = "IMAGEDROP"

const (
	EnvProvider            = EnvPrefix + "_UPLOAD_PROVIDER"
	EnvBucketName          = EnvPrefix + "_UPLOAD_BUCKET_NAME"
	EnvSupabaseURL         = EnvPrefix + "_SUPABASE_URL"
	EnvCloudinaryCloudName = EnvPrefix + "_CLOUDINARY_CLOUD_NAME"
)

// ErrEnvMissing is returned when a required bootstrap variable is unset
var ErrEnvMissing = errors.New("required environment variable is not set")

// LookupFunc matches os.LookupEnv
type LookupFunc func(key string) (string, bool)

// AccessTokenEnv returns the provider specific access token variable,
// e.g. IMAGEDROP_VERCEL_ACCESS_TOKEN.
func AccessTokenEnv(p Provider) string {
	return fmt.Sprintf("%s_%s_ACCESS_TOKEN", EnvPrefix, strings.ToUpper(string(p)))
}

// FromEnv builds a complete configuration from environment variables.
// Provider, bucket name and the provider's access token are required;
// the Supabase URL and Cloudinary cloud name are picked up when present.
func FromEnv(lookup LookupFunc) (Config, error) {
	raw := envValue(lookup, EnvProvider)
	if raw == "" {
		return Config{}, fmt.Errorf("%w: %s (supported values: %s)", ErrEnvMissing, EnvProvider, ProviderNames())
	}
	provider, err := ParseProvider(raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", EnvProvider, err)
	}

	bucket := envValue(lookup, EnvBucketName)
	if bucket == "" {
		return Config{}, fmt.Errorf("%w: %s", ErrEnvMissing, EnvBucketName)
	}

	tokenKey := AccessTokenEnv(provider)
	token := envValue(lookup, tokenKey)
	if token == "" {
		return Config{}, fmt.Errorf("%w: %s", ErrEnvMissing, tokenKey)
	}

	cfg := Config{
		Provider:    provider,
		BucketName:  bucket,
		AccessToken: token,
	}
	if v := envValue(lookup, EnvSupabaseURL); v != "" {
		cfg.SupabaseURL = String(v)
	}
	if v := envValue(lookup, EnvCloudinaryCloudName); v != "" {
		cfg.CloudinaryCloudName = String(v)
	}
	return cfg, nil
}

func envValue(lookup LookupFunc, key string) string {
	v, ok := lookup(key)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

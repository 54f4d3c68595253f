// Package configsrc reads upload configuration fragments from the
// environment, JSON files, JSON strings and key=value pairs, and turns them
// into uploadconfig.Partial values that can be layered onto a store.
package configsrc

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/zinc-sig/imagedrop/internal/uploadconfig"
)

// DefaultEnvPrefix is the prefix for layered upload configuration variables
const DefaultEnvPrefix = "IMAGEDROP_UPLOAD_CONFIG"

// Source is a single flat configuration layer keyed by normalized field name
type Source map[string]string

// ParseKV splits a key=value pair. The key is normalized, the value is kept
// verbatim apart from surrounding whitespace.
func ParseKV(pair string) (string, string, error) {
	key, value, ok := strings.Cut(pair, "=")
	if !ok {
		return "", "", fmt.Errorf("invalid format, expected key=value: %s", pair)
	}

	key = NormalizeKey(key)
	if key == "" {
		return "", "", fmt.Errorf("empty key in key=value pair")
	}

	return key, strings.TrimSpace(value), nil
}

// ParseJSON parses a JSON object into a Source
func ParseJSON(data []byte) (Source, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	src := make(Source, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			src[NormalizeKey(k)] = val
		case float64, bool:
			src[NormalizeKey(k)] = fmt.Sprint(val)
		default:
			return nil, fmt.Errorf("config field %q must be a scalar value", k)
		}
	}
	return src, nil
}

// ParseFile reads a JSON object from path
func ParseFile(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	src, err := ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON in file %s: %w", path, err)
	}
	return src, nil
}

// ParseEnv collects PREFIX (a JSON object) and PREFIX_* variables from
// environ, which has the os.Environ format. Returns nil when nothing is set.
func ParseEnv(prefix string, environ []string) (Source, error) {
	src := make(Source)
	envPrefix := prefix + "_"

	for _, entry := range environ {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || value == "" {
			continue
		}

		switch {
		case name == prefix:
			parsed, err := ParseJSON([]byte(value))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", prefix, err)
			}
			// individual variables take precedence over the JSON blob
			for k, v := range parsed {
				if _, exists := src[k]; !exists {
					src[k] = v
				}
			}
		case strings.HasPrefix(name, envPrefix):
			src[NormalizeKey(strings.TrimPrefix(name, envPrefix))] = strings.TrimSpace(value)
		}
	}

	if len(src) == 0 {
		return nil, nil
	}
	return src, nil
}

// Merge flattens sources into one, later sources overriding earlier ones
func Merge(sources ...Source) Source {
	result := make(Source)
	for _, src := range sources {
		maps.Copy(result, src)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// NormalizeKey maps bucketName, bucket_name, BUCKET-NAME and friends to the
// same lookup key.
func NormalizeKey(key string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(key) {
		switch {
		case r == '_' || r == '-' || r == '.':
			continue
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r - 'A' + 'a')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ToPartial converts a Source into a configuration fragment. Unknown keys
// are rejected so typos do not silently drop credentials.
func (s Source) ToPartial() (uploadconfig.Partial, error) {
	var p uploadconfig.Partial
	for key, value := range s {
		switch key {
		case "provider":
			provider, err := uploadconfig.ParseProvider(value)
			if err != nil {
				return uploadconfig.Partial{}, err
			}
			p.Provider = uploadconfig.ProviderPtr(provider)
		case "bucketname", "bucket":
			p.BucketName = uploadconfig.String(value)
		case "accesstoken", "token":
			p.AccessToken = uploadconfig.String(value)
		case "supabaseurl":
			p.SupabaseURL = uploadconfig.String(value)
		case "cloudinarycloudname", "cloudname":
			p.CloudinaryCloudName = uploadconfig.String(value)
		default:
			return uploadconfig.Partial{}, fmt.Errorf("unknown upload config key %q", key)
		}
	}
	return p, nil
}

package uploadconfig

import (
	"fmt"
	"strings"
)

// Provider identifies one of the supported image storage services
type Provider string

const (
	ProviderVercel     Provider = "vercel"
	ProviderSupabase   Provider = "supabase"
	ProviderCloudinary Provider = "cloudinary"
)

// Providers returns every supported provider in declaration order
func Providers() []Provider {
	return []Provider{ProviderVercel, ProviderSupabase, ProviderCloudinary}
}

// ProviderNames returns the supported provider names joined for messages
func ProviderNames() string {
	names := make([]string, 0, 3)
	for _, p := range Providers() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

// Valid reports whether p is one of the supported providers
func (p Provider) Valid() bool {
	switch p {
	case ProviderVercel, ProviderSupabase, ProviderCloudinary:
		return true
	}
	return false
}

// ParseProvider converts a user supplied name into a Provider
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unsupported provider %q: supported values are %s", s, ProviderNames())
	}
	return p, nil
}

// Config is the active provider selection plus its credentials.
// SupabaseURL and CloudinaryCloudName are only required by their own
// provider and are checked by the adapter at upload time.
type Config struct {
	Provider            Provider `json:"provider"`
	BucketName          string   `json:"bucketName"`
	AccessToken         string   `json:"accessToken"`
	SupabaseURL         *string  `json:"supabaseUrl,omitempty"`
	CloudinaryCloudName *string  `json:"cloudinaryCloudName,omitempty"`
}

// Clone returns a deep copy of c
func (c Config) Clone() Config {
	out := c
	out.SupabaseURL = cloneString(c.SupabaseURL)
	out.CloudinaryCloudName = cloneString(c.CloudinaryCloudName)
	return out
}

// Masked returns a copy safe to print, with the access token redacted
func (c Config) Masked() Config {
	out := c.Clone()
	if len(out.AccessToken) > 4 {
		out.AccessToken = strings.Repeat("*", len(out.AccessToken)-4) + out.AccessToken[len(out.AccessToken)-4:]
	} else if out.AccessToken != "" {
		out.AccessToken = "****"
	}
	return out
}

// Partial is a configuration fragment where every field is optional.
// Nil fields are left untouched when merged.
type Partial struct {
	Provider            *Provider `json:"provider,omitempty"`
	BucketName          *string   `json:"bucketName,omitempty"`
	AccessToken         *string   `json:"accessToken,omitempty"`
	SupabaseURL         *string   `json:"supabaseUrl,omitempty"`
	CloudinaryCloudName *string   `json:"cloudinaryCloudName,omitempty"`
}

// Empty reports whether p sets no field at all
func (p Partial) Empty() bool {
	return p.Provider == nil && p.BucketName == nil && p.AccessToken == nil &&
		p.SupabaseURL == nil && p.CloudinaryCloudName == nil
}

// ApplyTo shallow-merges the fields set in p over base
func (p Partial) ApplyTo(base Config) Config {
	out := base.Clone()
	if p.Provider != nil {
		out.Provider = *p.Provider
	}
	if p.BucketName != nil {
		out.BucketName = *p.BucketName
	}
	if p.AccessToken != nil {
		out.AccessToken = *p.AccessToken
	}
	if p.SupabaseURL != nil {
		out.SupabaseURL = cloneString(p.SupabaseURL)
	}
	if p.CloudinaryCloudName != nil {
		out.CloudinaryCloudName = cloneString(p.CloudinaryCloudName)
	}
	return out
}

// String returns a pointer to s, for building Partial and optional fields
func String(s string) *string {
	return &s
}

// ProviderPtr returns a pointer to p
func ProviderPtr(p Provider) *Provider {
	return &p
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

package upload

import (
	"fmt"
	"net/http"

	"github.com/zinc-sig/imagedrop/internal/uploadconfig"
)

// Adapters holds one adapter per supported provider
type Adapters struct {
	Vercel     Adapter
	Supabase   Adapter
	Cloudinary Adapter
}

// DefaultAdapters builds the built-in adapters sharing one HTTP client.
// vercelBaseURL is the origin serving /api/upload.
func DefaultAdapters(client *http.Client, vercelBaseURL string) Adapters {
	return Adapters{
		Vercel:     NewVercelAdapter(client, vercelBaseURL),
		Supabase:   NewSupabaseAdapter(),
		Cloudinary: NewCloudinaryAdapter(client),
	}
}

// For returns the adapter registered for p
func (a Adapters) For(p uploadconfig.Provider) (Adapter, error) {
	var adapter Adapter
	switch p {
	case uploadconfig.ProviderVercel:
		adapter = a.Vercel
	case uploadconfig.ProviderSupabase:
		adapter = a.Supabase
	case uploadconfig.ProviderCloudinary:
		adapter = a.Cloudinary
	default:
		return nil, fmt.Errorf("%w: %q. Supported providers are: %s",
			ErrUnsupportedProvider, p, uploadconfig.ProviderNames())
	}

	if adapter == nil {
		return nil, fmt.Errorf("%w: no adapter configured for %s", ErrUnsupportedProvider, p)
	}
	return adapter, nil
}

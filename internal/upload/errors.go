package upload

import "errors"

var (
	ErrConfigurationMissing    = errors.New("upload configuration is missing")
	ErrConfigurationIncomplete = errors.New("upload configuration is incomplete")
	ErrUnsupportedFileType     = errors.New("file type not supported")
	ErrFileTooLarge            = errors.New("file size too big (max 20MB)")
	ErrUnsupportedProvider     = errors.New("unsupported provider")
	ErrVercelUploadFailed      = errors.New("vercel upload failed")
	ErrSupabaseUploadFailed    = errors.New("supabase upload failed")
	ErrCloudinaryUploadFailed  = errors.New("cloudinary upload failed")

	// ErrUploadFailed wraps adapter errors outside the categories above
	ErrUploadFailed = errors.New("upload failed")

	ErrPreloadFailed  = errors.New("image preload failed")
	ErrPreloadTimeout = errors.New("image preload timed out")
)

var known = []error{
	ErrConfigurationMissing,
	ErrConfigurationIncomplete,
	ErrUnsupportedFileType,
	ErrFileTooLarge,
	ErrUnsupportedProvider,
	ErrVercelUploadFailed,
	ErrSupabaseUploadFailed,
	ErrCloudinaryUploadFailed,
	ErrUploadFailed,
	ErrPreloadFailed,
	ErrPreloadTimeout,
}

// IsKnown reports whether err belongs to one of the upload error categories
func IsKnown(err error) bool {
	for _, target := range known {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Package imageupload runs one image upload end to end: it validates the
// file, picks the adapter for the configured provider, reports progress
// through a notification sink, and waits for the uploaded image to be
// reachable before handing back its URL.
package imageupload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/zinc-sig/imagedrop/internal/notify"
	"github.com/zinc-sig/imagedrop/internal/upload"
	"github.com/zinc-sig/imagedrop/internal/uploadconfig"
)

// MaxFileSizeMB is the largest accepted file, in MiB
const MaxFileSizeMB = 20

// MaxFileSize is MaxFileSizeMB in bytes
const MaxFileSize = MaxFileSizeMB * 1024 * 1024

// Notification texts shown to the user
const (
	// TextLoading is sent once validation has passed
	TextLoading = "Uploading image..."
	// TextSuccess is sent when the provider has stored the file
	TextSuccess = "Image uploaded successfully"
	// TextFallback replaces an error without a message
	TextFallback = "Error uploading image"
)

var (
	bytesPerMiB = decimal.NewFromInt(1024 * 1024)
	maxMiB      = decimal.NewFromInt(MaxFileSizeMB)
)

// Uploader coordinates a single upload attempt per UploadImage call.
// Calls are independent and may run concurrently.
type Uploader struct {
	store          *uploadconfig.Store
	adapters       upload.Adapters
	sink           notify.Sink
	preloader      Preloader
	preloadTimeout time.Duration
	log            zerolog.Logger
}

// Option configures an Uploader
type Option func(*Uploader)

// WithAdapters replaces the provider adapters
func WithAdapters(a upload.Adapters) Option {
	return func(u *Uploader) { u.adapters = a }
}

// WithSink sets where notifications go
func WithSink(s notify.Sink) Option {
	return func(u *Uploader) { u.sink = s }
}

// WithPreloader replaces the preload step
func WithPreloader(p Preloader) Option {
	return func(u *Uploader) { u.preloader = p }
}

// WithPreloadTimeout bounds the preload wait. Zero means wait until the
// context is done.
func WithPreloadTimeout(d time.Duration) Option {
	return func(u *Uploader) { u.preloadTimeout = d }
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(u *Uploader) { u.log = l }
}

// New creates an Uploader reading its configuration from store
func New(store *uploadconfig.Store, opts ...Option) *Uploader {
	u := &Uploader{
		store:     store,
		adapters:  upload.DefaultAdapters(nil, upload.DefaultVercelBaseURL),
		sink:      notify.Discard,
		preloader: NewHTTPPreloader(nil),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// UploadImage uploads file with the configured provider and returns its
// public URL once the image has been fetched back successfully.
//
// Every failure produces exactly one error notification before it is
// returned. A successful upload produces a loading and a success
// notification, in that order. When the provider stored the file but the
// preload fails, the error notification follows the success one and the
// URL is returned together with the error.
func (u *Uploader) UploadImage(ctx context.Context, file *upload.File) (string, error) {
	cfg := u.store.Snapshot()

	adapter, err := u.validate(cfg, file)
	if err != nil {
		u.fail(err)
		return "", err
	}

	log := u.log.With().
		Str("provider", string(cfg.Provider)).
		Str("file", file.Name).
		Int64("size", file.Size).
		Logger()

	u.sink.Notify(notify.Notification{Text: TextLoading, Type: notify.KindLoading})
	log.Debug().Msg("uploading image")

	start := time.Now()
	url, err := adapter.Upload(ctx, file, *cfg)
	if err != nil {
		if !upload.IsKnown(err) {
			err = fmt.Errorf("%w: %w", upload.ErrUploadFailed, err)
		}
		log.Error().Err(err).Msg("upload failed")
		u.fail(err)
		return "", err
	}

	u.sink.Notify(notify.Notification{Text: TextSuccess, Type: notify.KindSuccess})
	log.Info().Str("url", url).Dur("elapsed", time.Since(start)).Msg("image uploaded")

	if err := u.preload(ctx, url); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("preload failed")
		u.fail(err)
		return url, err
	}

	return url, nil
}

func (u *Uploader) validate(cfg *uploadconfig.Config, file *upload.File) (upload.Adapter, error) {
	if cfg == nil {
		return nil, upload.ErrConfigurationMissing
	}
	if file == nil || !strings.HasPrefix(file.ContentType, "image/") {
		return nil, upload.ErrUnsupportedFileType
	}
	if TooLarge(file.Size) {
		return nil, upload.ErrFileTooLarge
	}
	return u.adapters.For(cfg.Provider)
}

// TooLarge reports whether size bytes exceeds MaxFileSizeMB mebibytes
func TooLarge(size int64) bool {
	return decimal.NewFromInt(size).Div(bytesPerMiB).GreaterThan(maxMiB)
}

// SizeMB converts a byte count to mebibytes rounded to two places
func SizeMB(size int64) decimal.Decimal {
	return decimal.NewFromInt(size).Div(bytesPerMiB).Round(2)
}

func (u *Uploader) preload(ctx context.Context, url string) error {
	if u.preloader == nil {
		return nil
	}

	if u.preloadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.preloadTimeout)
		defer cancel()
	}

	err := u.preloader.Preload(ctx, url)
	if err == nil {
		return nil
	}
	if u.preloadTimeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %s", upload.ErrPreloadTimeout, u.preloadTimeout, url)
	}
	if errors.Is(err, upload.ErrPreloadFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", upload.ErrPreloadFailed, err)
}

func (u *Uploader) fail(err error) {
	text := err.Error()
	if text == "" {
		text = TextFallback
	}
	u.sink.Notify(notify.Notification{Text: text, Type: notify.KindError})
}

// Package server hosts the /api/upload endpoint that the vercel provider
// posts to, backed by an S3-compatible bucket.
package server

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zinc-sig/imagedrop/internal/editor"
	"github.com/zinc-sig/imagedrop/internal/imageupload"
	"github.com/zinc-sig/imagedrop/internal/upload"
)

// Config controls the HTTP surface
type Config struct {
	// Token is the expected bearer token. Empty disables the check.
	Token          string
	AllowedOrigins []string
	// RatePerSecond and Burst limit uploads per client IP. Zero disables.
	RatePerSecond float64
	Burst         int
	PingTimeout   time.Duration
}

type handler struct {
	store BlobStore
	cfg   Config
	log   zerolog.Logger
	newID func() string
}

// New returns the router serving /api/upload, /api/editor-props and /healthz
func New(store BlobStore, cfg Config, log zerolog.Logger) http.Handler {
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if cfg.PingTimeout == 0 {
		cfg.PingTimeout = 5 * time.Second
	}

	h := &handler{
		store: store,
		cfg:   cfg,
		log:   log.With().Str("component", "server").Logger(),
		newID: func() string { return uuid.NewString() },
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(recoverer(h.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", upload.VercelFilenameHeader, "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/editor-props", h.editorProps)
		r.Group(func(r chi.Router) {
			if cfg.RatePerSecond > 0 {
				burst := cfg.Burst
				if burst <= 0 {
					burst = 1
				}
				r.Use(newIPLimiter(cfg.RatePerSecond, burst).middleware)
			}
			r.Post("/upload", h.upload)
		})
	})

	return r
}

func (h *handler) upload(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeError(w, http.StatusUnauthorized, "invalid or missing bearer token")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusUnsupportedMediaType, upload.ErrUnsupportedFileType.Error())
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, imageupload.MaxFileSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, upload.ErrFileTooLarge.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "empty request body")
		return
	}

	key := h.newID() + "/" + objectFilename(r.Header.Get(upload.VercelFilenameHeader))
	if err := h.store.Put(r.Context(), key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("store upload failed")
		writeError(w, http.StatusBadGateway, "failed to store image")
		return
	}

	url := h.store.PublicURL(key)
	h.log.Info().Str("key", key).Int("size", len(data)).Str("url", url).Msg("image stored")
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *handler) authorized(r *http.Request) bool {
	if h.cfg.Token == "" {
		return true
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.cfg.Token)) == 1
}

// objectFilename keeps only the last path element of the client's name
func objectFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "image.png"
	}
	return name
}

func (h *handler) editorProps(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, editor.DefaultProps())
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.PingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn().Err(err).Msg("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

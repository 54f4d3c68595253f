package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zinc-sig/imagedrop/cmd/helpers"
	"github.com/zinc-sig/imagedrop/internal/server"
)

var serveConfigFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host the /api/upload endpoint backed by an S3-compatible bucket",
	Long: `Serve POST /api/upload for the vercel provider, GET /api/editor-props and
GET /healthz. Objects are written to a MinIO or S3 bucket.

Every flag can also be set in a config file (--serve-config) or through an
IMAGEDROP_ environment variable, e.g. IMAGEDROP_MINIO_ENDPOINT for --minio-endpoint.`,
	Example: `  imagedrop serve --minio-endpoint localhost:9000 --minio-access-key minio \
    --minio-secret-key minio123 --minio-bucket images --token secret
  IMAGEDROP_MINIO_ENDPOINT=https://s3.example.com imagedrop serve --serve-config serve.yaml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// ServeSettings is the resolved serve configuration
type ServeSettings struct {
	Addr            string
	ShutdownTimeout time.Duration
	Server          server.Config
	Minio           server.MinioConfig
}

func newServeViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("IMAGEDROP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if serveConfigFile != "" {
		v.SetConfigFile(serveConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read serve config: %w", err)
		}
	}
	return v, nil
}

func loadServeSettings(v *viper.Viper) (ServeSettings, error) {
	s := ServeSettings{
		Addr:            v.GetString("addr"),
		ShutdownTimeout: v.GetDuration("shutdown-timeout"),
		Server: server.Config{
			Token:          v.GetString("token"),
			AllowedOrigins: v.GetStringSlice("allowed-origins"),
			RatePerSecond:  v.GetFloat64("rate"),
			Burst:          v.GetInt("burst"),
		},
		Minio: server.MinioConfig{
			Endpoint:   v.GetString("minio-endpoint"),
			AccessKey:  v.GetString("minio-access-key"),
			SecretKey:  v.GetString("minio-secret-key"),
			Bucket:     v.GetString("minio-bucket"),
			Region:     v.GetString("minio-region"),
			Prefix:     v.GetString("minio-prefix"),
			PublicBase: v.GetString("public-base"),
			Secure:     v.GetBool("minio-secure"),
		},
	}
	if s.Addr == "" {
		return s, errors.New("addr must not be empty")
	}
	if err := s.Minio.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	if err := helpers.LoadEnvFile(""); err != nil {
		return err
	}

	v, err := newServeViper(cmd)
	if err != nil {
		return err
	}
	settings, err := loadServeSettings(v)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := server.NewMinioStore(ctx, settings.Minio)
	if err != nil {
		return err
	}
	if settings.Server.Token == "" {
		log.Warn().Msg("no --token set, /api/upload accepts anonymous uploads")
	}

	srv := &http.Server{
		Addr:              settings.Addr,
		Handler:           server.New(store, settings.Server, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", settings.Addr).Str("bucket", settings.Minio.Bucket).Msg("serving /api/upload")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), settings.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveConfigFile, "serve-config", "", "Config file (yaml, json or toml) with serve settings")
	f.String("addr", ":8080", "Listen address")
	f.Duration("shutdown-timeout", 10*time.Second, "Grace period for in-flight requests on shutdown")
	f.String("token", "", "Bearer token required on /api/upload (empty disables the check)")
	f.StringSlice("allowed-origins", []string{"*"}, "CORS allowed origins")
	f.Float64("rate", 2, "Uploads per second allowed per client IP (0 disables)")
	f.Int("burst", 5, "Upload burst allowed per client IP")
	f.String("minio-endpoint", "", "MinIO/S3 endpoint, host:port or URL")
	f.String("minio-access-key", "", "MinIO/S3 access key")
	f.String("minio-secret-key", "", "MinIO/S3 secret key")
	f.String("minio-bucket", "", "Bucket receiving uploads")
	f.String("minio-region", "us-east-1", "Bucket region")
	f.String("minio-prefix", "", "Key prefix inside the bucket")
	f.Bool("minio-secure", true, "Use TLS when the endpoint has no scheme")
	f.String("public-base", "", "Public base URL for stored objects (default: endpoint/bucket)")
}

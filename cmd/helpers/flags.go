package helpers

import (
	"github.com/spf13/cobra"

	"github.com/zinc-sig/imagedrop/cmd/config"
	"github.com/zinc-sig/imagedrop/internal/upload"
)

// DefaultAPIBase is the default --api-base
const DefaultAPIBase = upload.DefaultVercelBaseURL

// SetupUploadConfigFlags adds the upload configuration source flags
func SetupUploadConfigFlags(cmd *cobra.Command, cfg *config.UploadConfig) {
	cmd.Flags().StringVar(&cfg.JSON, "config", "", "Upload configuration as JSON string")
	cmd.Flags().StringArrayVar(&cfg.KV, "config-kv", nil, "Upload config key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.File, "config-file", "", "Path to JSON file containing upload configuration")
	cmd.Flags().BoolVar(&cfg.FromEnv, "from-env", false, "Require provider, bucket and token from IMAGEDROP_* environment variables")
	cmd.Flags().StringVar(&cfg.EnvFile, "env-file", "", "Load environment variables from this file (default: .env if present)")
}

// SetupUploadRunFlags adds flags controlling a single upload
func SetupUploadRunFlags(cmd *cobra.Command, cfg *config.UploadRun) {
	cmd.Flags().StringVar(&cfg.APIBase, "api-base", DefaultAPIBase, "Origin serving /api/upload for the vercel provider")
	cmd.Flags().StringVar(&cfg.HTTPTimeout, "http-timeout", "", "Timeout for provider requests (default: none)")
	cmd.Flags().StringVar(&cfg.PreloadTimeout, "preload-timeout", "", "Give up waiting for the uploaded image after this long (default: wait forever)")
	cmd.Flags().BoolVar(&cfg.NoPreload, "no-preload", false, "Return as soon as the provider answers")
}

// SetupLogFlags adds logging flags to a command tree
func SetupLogFlags(cmd *cobra.Command, cfg *config.LogConfig) {
	cmd.PersistentFlags().StringVar(&cfg.Level, "log-level", "info", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&cfg.Format, "log-format", "console", "Log format: console or json")
}

// SetupWebhookFlags adds notification webhook flags to a command
func SetupWebhookFlags(cmd *cobra.Command, cfg *config.WebhookConfig) {
	cmd.Flags().StringVar(&cfg.URL, "webhook-url", "", "Webhook URL receiving upload notifications")
	cmd.Flags().StringVar(&cfg.Method, "webhook-method", "POST", "HTTP method to use: POST, PUT, PATCH")
	cmd.Flags().StringVar(&cfg.AuthType, "webhook-auth-type", "none", "Authentication type: none, bearer, api-key")
	cmd.Flags().StringVar(&cfg.AuthToken, "webhook-auth-token", "", "Authentication token (use with --webhook-auth-type)")
	cmd.Flags().IntVar(&cfg.Retries, "webhook-retries", 3, "Maximum webhook retry attempts (0 = no retries)")
	cmd.Flags().StringVar(&cfg.RetryDelay, "webhook-retry-delay", "1s", "Initial delay between webhook retries")
	cmd.Flags().StringVar(&cfg.Timeout, "webhook-timeout", "30s", "Total timeout for webhook including retries")
}

package config

// UploadConfig holds flags that assemble the upload configuration
type UploadConfig struct {
	JSON    string   // --config, JSON object
	KV      []string // --config-kv key=value pairs
	File    string   // --config-file, path to a JSON file
	FromEnv bool     // strict bootstrap from IMAGEDROP_* variables
	EnvFile string   // .env file loaded before anything else
}

// UploadRun holds flags specific to one upload invocation
type UploadRun struct {
	APIBase        string // origin serving /api/upload for the vercel provider
	HTTPTimeout    string
	PreloadTimeout string
	NoPreload      bool
}

// LogConfig holds logging flags
type LogConfig struct {
	Level  string
	Format string
}

// WebhookConfig holds webhook-related flags
type WebhookConfig struct {
	URL        string
	Method     string // HTTP method (POST, PUT, PATCH)
	AuthType   string
	AuthToken  string
	Timeout    string
	Retries    int
	RetryDelay string
}

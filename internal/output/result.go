package output

import "github.com/shopspring/decimal"

// Result is what the upload command prints
type Result struct {
	Status      string          `json:"status"`
	URL         string          `json:"url,omitempty"`
	Provider    string          `json:"provider,omitempty"`
	File        string          `json:"file"`
	ContentType string          `json:"content_type"`
	SizeBytes   int64           `json:"size_bytes"`
	SizeMB      decimal.Decimal `json:"size_mb"`
	ElapsedMS   int64           `json:"elapsed_ms"`
	Error       string          `json:"error,omitempty"`

	// Notifications emitted during the attempt, in order
	Notifications []Notification `json:"notifications,omitempty"`
}

// Notification mirrors a notification delivered during the attempt
type Notification struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

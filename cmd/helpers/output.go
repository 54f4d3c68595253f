package helpers

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/zinc-sig/imagedrop/internal/imageupload"
	"github.com/zinc-sig/imagedrop/internal/notify"
	"github.com/zinc-sig/imagedrop/internal/output"
	"github.com/zinc-sig/imagedrop/internal/upload"
	"github.com/zinc-sig/imagedrop/internal/uploadconfig"
)

// CreateResult describes the outcome of one upload attempt
func CreateResult(file *upload.File, cfg *uploadconfig.Config, url string, err error, elapsed time.Duration, notes []notify.Notification) *output.Result {
	result := &output.Result{
		Status:    "success",
		URL:       url,
		File:      file.Name,
		ElapsedMS: elapsed.Milliseconds(),
	}
	result.ContentType = file.ContentType
	result.SizeBytes = file.Size
	result.SizeMB = imageupload.SizeMB(file.Size)

	if cfg != nil {
		result.Provider = string(cfg.Provider)
	}
	if err != nil {
		result.Status = "error"
		result.Error = err.Error()
	}

	for _, n := range notes {
		result.Notifications = append(result.Notifications, output.Notification{Text: n.Text, Type: string(n.Type)})
	}

	return result
}

// OutputJSON writes v as a single JSON line
func OutputJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

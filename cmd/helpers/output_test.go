package helpers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/zinc-sig/imagedrop/internal/notify"
	"github.com/zinc-sig/imagedrop/internal/upload"
	"github.com/zinc-sig/imagedrop/internal/uploadconfig"
)

func TestCreateResult(t *testing.T) {
	file := upload.NewFile("cat.png", "image/png", make([]byte, 3*1024*1024/2))
	cfg := &uploadconfig.Config{Provider: uploadconfig.ProviderVercel}
	notes := []notify.Notification{
		{Text: "Uploading image...", Type: notify.KindLoading},
		{Text: "Image uploaded successfully", Type: notify.KindSuccess},
	}

	result := CreateResult(file, cfg, "https://x/y.png", nil, 1500*time.Millisecond, notes)

	if result.Status != "success" || result.URL != "https://x/y.png" || result.Provider != "vercel" {
		t.Errorf("Unexpected result %+v", result)
	}
	if result.SizeMB.String() != "1.5" {
		t.Errorf("Expected 1.5 MB, got %s", result.SizeMB)
	}
	if result.ElapsedMS != 1500 {
		t.Errorf("Expected 1500ms, got %d", result.ElapsedMS)
	}
	if len(result.Notifications) != 2 || result.Notifications[1].Type != "success" {
		t.Errorf("Unexpected notifications %+v", result.Notifications)
	}
}

func TestCreateResult_Error(t *testing.T) {
	file := upload.NewFile("doc.pdf", "application/pdf", []byte("x"))
	result := CreateResult(file, nil, "", upload.ErrUnsupportedFileType, 0, nil)

	if result.Status != "error" || result.URL != "" || result.Error != "file type not supported" {
		t.Errorf("Unexpected result %+v", result)
	}
	if result.Provider != "" {
		t.Errorf("Expected no provider, got %s", result.Provider)
	}
}

func TestCreateResult_StoredButNotLoadable(t *testing.T) {
	file := upload.NewFile("cat.png", "image/png", []byte("x"))
	cfg := &uploadconfig.Config{Provider: uploadconfig.ProviderVercel}

	result := CreateResult(file, cfg, "https://x/y.png", upload.ErrPreloadFailed, 0, nil)

	if result.Status != "error" || result.URL != "https://x/y.png" {
		t.Errorf("Expected error status with the stored URL kept, got %+v", result)
	}
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := OutputJSON(&buf, map[string]string{"url": "https://x/y.png"}); err != nil {
		t.Fatalf("OutputJSON: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `{"url":"https://x/y.png"}` {
		t.Errorf("Unexpected output %s", got)
	}

	if err := OutputJSON(&buf, func() {}); err == nil {
		t.Error("Expected marshal error")
	}
}

package cmd

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zinc-sig/imagedrop/cmd/config"
	"github.com/zinc-sig/imagedrop/cmd/helpers"
	"github.com/zinc-sig/imagedrop/internal/imageupload"
	"github.com/zinc-sig/imagedrop/internal/notify"
	"github.com/zinc-sig/imagedrop/internal/upload"
)

var (
	uploadConfigFlags config.UploadConfig
	uploadRunFlags    config.UploadRun
	uploadWebhook     config.WebhookConfig
)

var uploadCmd = &cobra.Command{
	Use:   "upload [flags] <file>",
	Short: "Upload an image and print its public URL",
	Long: `Upload an image with the configured provider. The result, including the
notifications emitted along the way, is printed as JSON.

Configuration is merged from IMAGEDROP_UPLOAD_CONFIG* variables, --config-file,
--config and --config-kv, in increasing priority. --from-env requires a complete
configuration from IMAGEDROP_UPLOAD_PROVIDER, IMAGEDROP_UPLOAD_BUCKET_NAME and
IMAGEDROP_<PROVIDER>_ACCESS_TOKEN.`,
	Example: `  imagedrop upload --from-env cat.png
  imagedrop upload --config-kv provider=cloudinary --config-kv bucket=preset --config-kv token=abc \
    --config-kv cloud_name=demo cat.png
  imagedrop upload --config-file upload.json --webhook-url https://hooks.example.com/upload cat.png`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func runUpload(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}

	store, err := helpers.BuildStoreFromProcess(&uploadConfigFlags)
	if err != nil {
		return err
	}

	httpTimeout, err := helpers.ParseOptionalDuration("http-timeout", uploadRunFlags.HTTPTimeout)
	if err != nil {
		return err
	}
	preloadTimeout, err := helpers.ParseOptionalDuration("preload-timeout", uploadRunFlags.PreloadTimeout)
	if err != nil {
		return err
	}

	webhookSink, err := helpers.BuildWebhookSink(&uploadWebhook, log)
	if err != nil {
		return err
	}

	recorder := &notify.Recorder{}
	sinks := notify.Multi{recorder, notify.NewLogSink(log)}
	if webhookSink != nil {
		sinks = append(sinks, webhookSink)
	}

	client := &http.Client{Timeout: httpTimeout}
	opts := []imageupload.Option{
		imageupload.WithAdapters(upload.DefaultAdapters(client, uploadRunFlags.APIBase)),
		imageupload.WithSink(sinks),
		imageupload.WithPreloadTimeout(preloadTimeout),
		imageupload.WithLogger(log),
	}
	if uploadRunFlags.NoPreload {
		opts = append(opts, imageupload.WithPreloader(nil))
	} else {
		opts = append(opts, imageupload.WithPreloader(imageupload.NewHTTPPreloader(client)))
	}
	uploader := imageupload.New(store, opts...)

	file, err := upload.ReadFile(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	url, uploadErr := uploader.UploadImage(ctx, file)
	elapsed := time.Since(start)

	if webhookSink != nil {
		webhookSink.Flush()
	}

	result := helpers.CreateResult(file, store.Snapshot(), url, uploadErr, elapsed, recorder.Notifications())
	if err := helpers.OutputJSON(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	return uploadErr
}

func init() {
	helpers.SetupUploadConfigFlags(uploadCmd, &uploadConfigFlags)
	helpers.SetupUploadRunFlags(uploadCmd, &uploadRunFlags)
	helpers.SetupWebhookFlags(uploadCmd, &uploadWebhook)
}

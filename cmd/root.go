package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zinc-sig/imagedrop/cmd/config"
	"github.com/zinc-sig/imagedrop/cmd/helpers"
	"github.com/zinc-sig/imagedrop/internal/logging"
)

var logFlags config.LogConfig

var rootCmd = &cobra.Command{
	Use:   "imagedrop",
	Short: "Upload images to Vercel Blob, Supabase Storage or Cloudinary",
	Long: `imagedrop validates an image, uploads it to the configured storage provider
and prints the public URL once the image can be fetched back.

It can also host the /api/upload endpoint used by the vercel provider.`,
	SilenceUsage: true,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	helpers.SetupLogFlags(rootCmd, &logFlags)

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

func newLogger() (zerolog.Logger, error) {
	return logging.New(logFlags.Level, logFlags.Format, os.Stderr)
}

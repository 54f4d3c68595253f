package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zinc-sig/imagedrop/cmd/config"
	"github.com/zinc-sig/imagedrop/cmd/helpers"
	"github.com/zinc-sig/imagedrop/internal/upload"
)

var showConfigFlags config.UploadConfig

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the upload configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved upload configuration with the token masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := helpers.BuildStoreFromProcess(&showConfigFlags)
		if err != nil {
			return err
		}

		cfg := store.Snapshot()
		if cfg == nil {
			return upload.ErrConfigurationMissing
		}
		return helpers.OutputJSON(cmd.OutOrStdout(), cfg.Masked())
	},
}

func init() {
	helpers.SetupUploadConfigFlags(configShowCmd, &showConfigFlags)
	configCmd.AddCommand(configShowCmd)
}

package helpers

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/zinc-sig/imagedrop/cmd/config"
	"github.com/zinc-sig/imagedrop/internal/configsrc"
	"github.com/zinc-sig/imagedrop/internal/uploadconfig"
)

// LoadEnvFile loads path into the process environment. An empty path
// loads ./.env when it exists. Variables already set are kept.
func LoadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// BuildStore assembles the upload configuration from every source.
// --from-env seeds a complete configuration first; the layered sources
// (env < file < JSON < key=value) are merged on top.
func BuildStore(cfg *config.UploadConfig, environ []string, lookup uploadconfig.LookupFunc) (*uploadconfig.Store, error) {
	store := uploadconfig.NewStore()

	if cfg.FromEnv {
		base, err := uploadconfig.FromEnv(lookup)
		if err != nil {
			return nil, err
		}
		store.Set(base)
	}

	layers := configsrc.Layers{
		EnvPrefix: configsrc.DefaultEnvPrefix,
		Environ:   environ,
		File:      cfg.File,
		JSON:      cfg.JSON,
		KV:        cfg.KV,
	}
	if err := layers.Apply(store); err != nil {
		return nil, fmt.Errorf("failed to build upload config: %w", err)
	}

	return store, nil
}

// BuildStoreFromProcess is BuildStore over the real process environment
func BuildStoreFromProcess(cfg *config.UploadConfig) (*uploadconfig.Store, error) {
	if err := LoadEnvFile(cfg.EnvFile); err != nil {
		return nil, err
	}
	return BuildStore(cfg, os.Environ(), os.LookupEnv)
}

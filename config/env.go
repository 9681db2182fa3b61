// Package config loads process environment for the storefront binaries.
package config

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
)

// LoadEnv reads KEY=VALUE pairs from the given files (".env" when none are
// named) into the process environment. Variables already set win over the
// files. A missing file is not an error; env vars can be set by other means.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		err := godotenv.Load(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		slog.Debug("environment loaded", "file", f)
	}
	return nil
}

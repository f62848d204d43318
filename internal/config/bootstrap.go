package config

import (
	"errors"
	"os"
	"path/filepath"
)

// EnsureUserConfig makes sure path exists, writing the defaults there the
// first time.
func EnsureUserConfig(path string) (string, error) {
	_, err := os.Stat(path)
	if err == nil {
		return path, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := SaveAtomic(path, Default()); err != nil {
		return "", err
	}
	return path, nil
}

// internal/config/overlay.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DatasetFile is the shape of an external fallback dataset.
type DatasetFile struct {
	Companies []FallbackCompany `yaml:"companies"`
}

// OverlayDataset replaces the built-in fallback companies with the ones in
// path when that file has any.
func OverlayDataset(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		// Missing dataset file should not kill startup
		return nil
	}

	var df DatasetFile
	if err := yaml.Unmarshal(b, &df); err != nil {
		return fmt.Errorf("parse dataset %s: %w", path, err)
	}

	if len(df.Companies) > 0 {
		cfg.Fallback.Companies = df.Companies
	}
	return nil
}

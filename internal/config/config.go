// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"

	"portfolio-engine/internal/domain"

	"gopkg.in/yaml.v3"
)

// Source is one VC portfolio origin. URLs are tried first, then LocalHTML,
// then the fallback dataset rows tagged with Name.
type Source struct {
	Name      string   `yaml:"name"`
	URLs      []string `yaml:"urls"`
	LocalHTML string   `yaml:"local_html"`
	Layout    string   `yaml:"layout"`     // eip | setventures | generic | "" (by url)
	OwnDomain string   `yaml:"own_domain"` // links back to this host are not company sites
}

type FallbackCompany struct {
	Name        string       `yaml:"name"`
	Website     string       `yaml:"website"`
	Description string       `yaml:"description"`
	Round       domain.Round `yaml:"round"`
	Source      string       `yaml:"source"`
}

type Config struct {
	HTTP struct {
		TimeoutSeconds int               `yaml:"timeout_seconds"`
		Headers        map[string]string `yaml:"headers"`
	} `yaml:"http"`

	Sources []Source `yaml:"sources"`

	Filter struct {
		Keywords []string `yaml:"keywords"`
		Offline  bool     `yaml:"offline"`
	} `yaml:"filter"`

	LLM struct {
		Model          string `yaml:"model"`
		APIKeyEnv      string `yaml:"api_key_env"`
		KeyringAccount string `yaml:"keyring_account"`
		HTMLCharLimit  int    `yaml:"html_char_limit"`
		CompactHTML    bool   `yaml:"compact_html"`
		NameExtraction bool   `yaml:"name_extraction"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"llm"`

	Enrich struct {
		Workers int `yaml:"workers"`
	} `yaml:"enrich"`

	Fallback struct {
		DatasetPath string                  `yaml:"dataset_path"`
		Companies   []FallbackCompany       `yaml:"companies"`
		Rounds      map[string]domain.Round `yaml:"rounds"`
	} `yaml:"fallback"`

	Report struct {
		OutputPath string `yaml:"output_path"`
		SQLitePath string `yaml:"sqlite_path"`
		// RetentionDays prunes stored runs older than this; 0 keeps all.
		RetentionDays int `yaml:"retention_days"`
	} `yaml:"report"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load reads path on top of Default. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Fallback.DatasetPath != "" {
		if err := OverlayDataset(&cfg, cfg.Fallback.DatasetPath); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// FallbackFor returns the fallback dataset rows of one source as companies.
func (c Config) FallbackFor(source string) []domain.Company {
	var out []domain.Company
	for _, fc := range c.Fallback.Companies {
		if fc.Source != source {
			continue
		}
		out = append(out, fc.Company())
	}
	return out
}

func (fc FallbackCompany) Company() domain.Company {
	return domain.Company{
		Name:        fc.Name,
		Website:     fc.Website,
		Description: fc.Description,
		Round:       fc.Round,
		Source:      fc.Source,
	}
}

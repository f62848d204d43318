package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"portfolio-engine/internal/domain"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(cfg.Sources))
	}
	if cfg.HTTP.TimeoutSeconds != 15 {
		t.Errorf("timeout = %d, want 15", cfg.HTTP.TimeoutSeconds)
	}
	if len(cfg.FallbackFor("EIP")) != 3 || len(cfg.FallbackFor("SET")) != 3 {
		t.Errorf("fallback dataset should hold 3 rows per source")
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	body := `
http:
  timeout_seconds: 5
filter:
  keywords: ["hydrogen"]
fallback:
  rounds:
    newco: Series B
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.TimeoutSeconds != 5 {
		t.Errorf("timeout = %d, want 5", cfg.HTTP.TimeoutSeconds)
	}
	if len(cfg.Filter.Keywords) != 1 || cfg.Filter.Keywords[0] != "hydrogen" {
		t.Errorf("keywords = %v", cfg.Filter.Keywords)
	}
	if cfg.Fallback.Rounds["newco"] != domain.RoundSeriesB {
		t.Errorf("newco round = %v", cfg.Fallback.Rounds["newco"])
	}
	// maps merge with the defaults
	if cfg.Fallback.Rounds["gridpulse"] != domain.RoundSeriesA {
		t.Errorf("gridpulse round = %v", cfg.Fallback.Rounds["gridpulse"])
	}
	if cfg.HTTP.Headers["User-Agent"] == "" {
		t.Error("default headers lost")
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("fallback:\n  rounds:\n    x: Series Q\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown round")
	}
}

func TestOverlayDataset(t *testing.T) {
	dir := t.TempDir()
	ds := filepath.Join(dir, "dataset.yml")
	body := `
companies:
  - name: OnlyCo
    website: https://onlyco.example.com
    description: Grid batteries.
    round: Seed
    source: EIP
`
	if err := os.WriteFile(ds, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := OverlayDataset(&cfg, ds); err != nil {
		t.Fatalf("OverlayDataset: %v", err)
	}
	if len(cfg.Fallback.Companies) != 1 || cfg.Fallback.Companies[0].Name != "OnlyCo" {
		t.Fatalf("companies = %+v", cfg.Fallback.Companies)
	}
	if got := cfg.FallbackFor("EIP"); len(got) != 1 || got[0].Round != domain.RoundSeed {
		t.Fatalf("FallbackFor = %+v", got)
	}

	// missing file is ignored
	if err := OverlayDataset(&cfg, filepath.Join(dir, "missing.yml")); err != nil {
		t.Fatalf("missing dataset: %v", err)
	}
}

func TestNormalizeAndValidate(t *testing.T) {
	cfg := Default()
	cfg.Filter.Keywords = []string{" Energy ", "energy", "", "grid"}
	cfg.Sources[0].Layout = " EIP "
	cfg.Fallback.Rounds = map[string]domain.Round{"MixedCase": domain.RoundSeed}

	out, res := NormalizeAndValidate(cfg)
	if !res.OK() {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(out.Filter.Keywords) != 2 || out.Filter.Keywords[0] != "Energy" {
		t.Errorf("keywords = %v", out.Filter.Keywords)
	}
	if out.Sources[0].Layout != "eip" {
		t.Errorf("layout = %q", out.Sources[0].Layout)
	}
	if _, ok := out.Fallback.Rounds["mixedcase"]; !ok {
		t.Errorf("round keys not lowercased: %v", out.Fallback.Rounds)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no sources", func(c *Config) { c.Sources = nil }, "at least one source"},
		{"bad timeout", func(c *Config) { c.HTTP.TimeoutSeconds = 0 }, "http.timeout_seconds"},
		{"no keywords", func(c *Config) { c.Filter.Keywords = []string{" "} }, "filter.keywords"},
		{"bad layout", func(c *Config) { c.Sources[1].Layout = "wix" }, "layout"},
		{"dup source", func(c *Config) { c.Sources[1].Name = "EIP" }, "duplicated"},
		{"no workers", func(c *Config) { c.Enrich.Workers = 0 }, "enrich.workers"},
		{"no output", func(c *Config) { c.Report.OutputPath = "" }, "report.output_path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestEnsureUserConfigWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	got, err := EnsureUserConfig(path)
	if err != nil {
		t.Fatalf("EnsureUserConfig: %v", err)
	}
	if got != path {
		t.Errorf("path = %q", got)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Fallback.Companies) != 6 {
		t.Errorf("companies = %d, want 6", len(cfg.Fallback.Companies))
	}
	if cfg.Fallback.Companies[4].Round != domain.RoundSeriesB {
		t.Errorf("AeroGrid round = %v", cfg.Fallback.Companies[4].Round)
	}

	// second call keeps the existing file
	if err := os.WriteFile(path, []byte("http:\n  timeout_seconds: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := EnsureUserConfig(path); err != nil {
		t.Fatal(err)
	}
	cfg, _ = Load(path)
	if cfg.HTTP.TimeoutSeconds != 3 {
		t.Errorf("existing config overwritten")
	}
}

func TestShippedConfigIsValid(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "config.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	out, res := NormalizeAndValidate(cfg)
	if !res.OK() {
		t.Fatalf("errors: %v", res.Errors)
	}

	def := Default()
	if len(out.Sources) != len(def.Sources) || out.Sources[1].Layout != "setventures" {
		t.Errorf("sources = %+v", out.Sources)
	}
	if len(out.Fallback.Companies) != 6 || out.Fallback.Companies[3].Round != domain.RoundSeed {
		t.Errorf("companies = %+v", out.Fallback.Companies)
	}
	if out.Report.OutputPath != def.Report.OutputPath || out.Report.RetentionDays != 90 {
		t.Errorf("report = %+v", out.Report)
	}
}

package config

import (
	"fmt"
	"strings"

	"portfolio-engine/internal/domain"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

var knownLayouts = map[string]bool{
	"":            true,
	"eip":         true,
	"setventures": true,
	"generic":     true,
}

// NormalizeAndValidate returns a normalized copy together with the problems
// found in it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Filter.Keywords = trimList(out.Filter.Keywords)

	sources := make([]Source, 0, len(out.Sources))
	seenSource := map[string]bool{}
	for i, s := range out.Sources {
		s.Name = strings.TrimSpace(s.Name)
		s.URLs = trimList(s.URLs)
		s.LocalHTML = strings.TrimSpace(s.LocalHTML)
		s.Layout = strings.ToLower(strings.TrimSpace(s.Layout))
		s.OwnDomain = strings.ToLower(strings.TrimSpace(s.OwnDomain))

		if s.Name == "" {
			res.addErr("sources[%d].name is required", i)
		} else if seenSource[s.Name] {
			res.addErr("sources[%d].name %q is duplicated", i, s.Name)
		}
		seenSource[s.Name] = true

		if !knownLayouts[s.Layout] {
			res.addErr("sources[%d].layout %q must be one of eip, setventures, generic", i, s.Layout)
		}
		if len(s.URLs) == 0 && s.LocalHTML == "" {
			res.addWarn("source %q has no urls and no local_html; only fallback data will be used.", s.Name)
		}
		sources = append(sources, s)
	}
	out.Sources = sources

	// ---- Validation rules ----

	if len(out.Sources) == 0 {
		res.addErr("at least one source is required")
	}

	if out.HTTP.TimeoutSeconds <= 0 {
		res.addErr("http.timeout_seconds must be > 0")
	} else if out.HTTP.TimeoutSeconds > 120 {
		res.addWarn("http.timeout_seconds is very high (%d); a dead host will stall the run.", out.HTTP.TimeoutSeconds)
	}

	if len(out.Filter.Keywords) == 0 {
		res.addErr("filter.keywords must have at least 1 term")
	}

	if out.Enrich.Workers < 1 {
		res.addErr("enrich.workers must be >= 1")
	}

	if out.LLM.HTMLCharLimit <= 0 {
		res.addErr("llm.html_char_limit must be > 0")
	}
	if out.LLM.TimeoutSeconds <= 0 {
		res.addErr("llm.timeout_seconds must be > 0")
	}
	if strings.TrimSpace(out.LLM.Model) == "" && !out.Filter.Offline {
		res.addErr("llm.model is required unless filter.offline=true")
	}

	if strings.TrimSpace(out.Report.OutputPath) == "" {
		res.addErr("report.output_path is required")
	}
	if out.Report.RetentionDays < 0 {
		res.addErr("report.retention_days must be >= 0")
	}

	// fallback rows should point at a configured source
	for i, fc := range out.Fallback.Companies {
		if strings.TrimSpace(fc.Name) == "" {
			res.addErr("fallback.companies[%d].name is required", i)
		}
		if !seenSource[fc.Source] {
			res.addWarn("fallback company %q has unknown source %q", fc.Name, fc.Source)
		}
	}

	rounds := make(map[string]domain.Round, len(out.Fallback.Rounds))
	for name, r := range out.Fallback.Rounds {
		rounds[strings.ToLower(strings.TrimSpace(name))] = r
	}
	out.Fallback.Rounds = rounds

	return out, res
}

package config

import "portfolio-engine/internal/domain"

const (
	EnvLogLevel     = "HITACHI_LOG_LEVEL"
	DefaultLogLevel = "INFO"
)

// Default is the built-in configuration. The fallback dataset doubles as the
// --use-mock demo data.
func Default() Config {
	var cfg Config

	cfg.HTTP.TimeoutSeconds = 15
	cfg.HTTP.Headers = map[string]string{
		"User-Agent":      "Mozilla/5.0 (compatible; HitachiPortfolioBot/1.0; +https://example.com/bot)",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.8",
	}

	cfg.Sources = []Source{
		{
			Name:      "EIP",
			URLs:      []string{"https://www.energyimpactpartners.com/_portfolio/"},
			LocalHTML: "data/energyimpacters.html",
			Layout:    "eip",
			OwnDomain: "energyimpactpartners.com",
		},
		{
			Name:      "SET",
			URLs:      []string{"https://www.setventures.com/portfolio/"},
			LocalHTML: "data/setventures.html",
			Layout:    "setventures",
			OwnDomain: "setventures.com",
		},
	}

	cfg.Filter.Keywords = []string{
		"smart grid",
		"energy",
		"energy storage",
		"industrial efficiency",
	}

	cfg.LLM.Model = "gemini-3-flash-preview"
	cfg.LLM.APIKeyEnv = "GEMINI_API_KEY"
	cfg.LLM.KeyringAccount = "gemini"
	cfg.LLM.HTMLCharLimit = 120000
	cfg.LLM.TimeoutSeconds = 60

	cfg.Enrich.Workers = 4

	cfg.Fallback.Companies = []FallbackCompany{
		{Name: "GridPulse", Website: "https://gridpulse.example.com", Description: "Smart grid analytics for utility operators.", Round: domain.RoundSeriesA, Source: "EIP"},
		{Name: "ThermaLoop", Website: "https://thermaloop.example.com", Description: "Industrial efficiency platform reducing heat loss.", Round: domain.RoundSeriesC, Source: "EIP"},
		{Name: "VoltStor", Website: "https://voltstor.example.com", Description: "Long-duration energy storage systems for renewables.", Round: domain.RoundSeriesD, Source: "EIP"},
		{Name: "FluxCharge", Website: "https://fluxcharge.example.com", Description: "Energy management software for commercial buildings.", Round: domain.RoundSeed, Source: "SET"},
		{Name: "AeroGrid", Website: "https://aerogrid.example.com", Description: "Smart grid optimization for distributed resources.", Round: domain.RoundSeriesB, Source: "SET"},
		{Name: "SunPeak", Website: "https://sunpeak.example.com", Description: "Residential solar financing platform.", Round: domain.RoundSeriesE, Source: "SET"},
	}
	cfg.Fallback.Rounds = map[string]domain.Round{
		"gridpulse":  domain.RoundSeriesA,
		"thermaloop": domain.RoundSeriesC,
		"voltstor":   domain.RoundSeriesD,
		"fluxcharge": domain.RoundSeed,
		"aerogrid":   domain.RoundSeriesB,
		"sunpeak":    domain.RoundSeriesE,
	}

	cfg.Report.OutputPath = "hitachi_relevant_companies.csv"
	cfg.Report.RetentionDays = 90

	cfg.Log.Level = DefaultLogLevel
	cfg.Log.Format = "text"

	return cfg
}

// Package pipeline runs one report: scrape every source, enrich, filter,
// write the CSV and optionally record the run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"portfolio-engine/internal/config"
	"portfolio-engine/internal/domain"
	"portfolio-engine/internal/enrich"
	"portfolio-engine/internal/fetch"
	"portfolio-engine/internal/filter"
	"portfolio-engine/internal/llm"
	"portfolio-engine/internal/logging"
	"portfolio-engine/internal/report"
	"portfolio-engine/internal/scrape"
	"portfolio-engine/internal/store"

	"golang.org/x/sync/errgroup"
)

// Fetcher is the document source shared by scraping and enrichment.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (string, bool)
}

type Options struct {
	UseMock    bool
	NoFilter   bool
	Offline    bool
	OutputPath string // overrides report.output_path

	// Fetcher and Classifier are built from the config when nil.
	Fetcher    Fetcher
	Classifier filter.Classifier

	// Names is the optional generic-page name extractor; nil falls back to
	// the model client when llm.name_extraction is on.
	Names scrape.NameExtractor
}

type Result struct {
	RunID      string
	Scraped    int
	Relevant   int
	OutputPath string
	BySource   map[string]int
}

// LLMOptions maps the llm section of cfg to client options.
func LLMOptions(cfg config.Config) llm.Options {
	return llm.Options{
		Model:          cfg.LLM.Model,
		APIKeyEnv:      cfg.LLM.APIKeyEnv,
		KeyringAccount: cfg.LLM.KeyringAccount,
		HTMLCharLimit:  cfg.LLM.HTMLCharLimit,
		CompactHTML:    cfg.LLM.CompactHTML,
		Timeout:        time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	}
}

// Run executes the whole report. Only output failures are returned; every
// scraping, enrichment or classification failure degrades in place.
func Run(ctx context.Context, cfg config.Config, opts Options) (Result, error) {
	log := logging.For("pipeline")
	started := time.Now()

	offline := opts.Offline || cfg.Filter.Offline
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = fetch.New(time.Duration(cfg.HTTP.TimeoutSeconds)*time.Second, cfg.HTTP.Headers)
	}

	var client *llm.Client
	needLLM := !offline && ((!opts.NoFilter && opts.Classifier == nil) ||
		(!opts.UseMock && cfg.LLM.NameExtraction && opts.Names == nil))
	if needLLM {
		client = llm.Default(ctx, LLMOptions(cfg))
	}

	names := opts.Names
	if names == nil && cfg.LLM.NameExtraction && client.Available() {
		names = client
	}

	// ---- scrape ----

	groups := make([][]domain.Company, len(cfg.Sources))
	if opts.UseMock {
		for i, src := range cfg.Sources {
			groups[i] = cfg.FallbackFor(src.Name)
		}
		log.Info("[pipeline] using mock data", "sources", len(cfg.Sources))
	} else {
		s := scrape.New(fetcher, names)
		g, gctx := errgroup.WithContext(ctx)
		for i, src := range cfg.Sources {
			g.Go(func() error {
				groups[i] = scrapeSource(gctx, s, src, cfg.FallbackFor(src.Name))
				return nil
			})
		}
		_ = g.Wait()
	}

	res := Result{BySource: map[string]int{}}
	for i, src := range cfg.Sources {
		res.BySource[src.Name] = len(groups[i])
	}
	all := report.Merge(groups...)
	res.Scraped = len(all)
	log.Info("[pipeline] scraped", "companies", res.Scraped)

	// ---- enrich ----

	ownDomains := make(map[string]string, len(cfg.Sources))
	var dataset []domain.Company
	for _, src := range cfg.Sources {
		ownDomains[src.Name] = src.OwnDomain
	}
	for _, fc := range cfg.Fallback.Companies {
		dataset = append(dataset, fc.Company())
	}
	en := enrich.New(fetcher, enrich.Config{
		Dataset:    dataset,
		Rounds:     cfg.Fallback.Rounds,
		OwnDomains: ownDomains,
		Workers:    cfg.Enrich.Workers,
	})
	enriched := en.EnrichAll(ctx, all)

	// ---- filter ----

	relevant := enriched
	if !opts.NoFilter {
		classifier := opts.Classifier
		switch {
		case classifier != nil:
		case offline:
			classifier = filter.KeywordClassifier{}
		default:
			if !client.Available() {
				log.Warn("[pipeline] classifier unavailable, nothing will pass the filter")
			}
			classifier = client
		}
		relevant = filter.New(classifier, cfg.Filter.Keywords).FilterRelevant(ctx, enriched)
	}
	res.Relevant = len(relevant)

	// ---- report ----

	res.OutputPath = opts.OutputPath
	if res.OutputPath == "" {
		res.OutputPath = cfg.Report.OutputPath
	}
	if err := report.WriteCSV(ctx, res.OutputPath, relevant); err != nil {
		return res, fmt.Errorf("write report: %w", err)
	}
	log.Info("[pipeline] report written", "path", res.OutputPath, "rows", res.Relevant)

	if cfg.Report.SQLitePath != "" {
		id, err := recordRun(ctx, cfg, store.Run{
			StartedAt:  started,
			FinishedAt: time.Now(),
			Scraped:    res.Scraped,
			Relevant:   res.Relevant,
			UseMock:    opts.UseMock,
			NoFilter:   opts.NoFilter,
			OutputPath: res.OutputPath,
		}, relevant, log)
		if err != nil {
			log.Warn("[pipeline] run history not saved", "path", cfg.Report.SQLitePath, "err", err)
		}
		res.RunID = id
	}

	return res, nil
}

// scrapeSource tries the remote URLs, then the local copy, then fallback.
func scrapeSource(ctx context.Context, s *scrape.Scraper, src config.Source, fallback []domain.Company) []domain.Company {
	layout := scrape.ParseLayout(src.Layout)

	companies := s.ScrapePortfolios(ctx, src.URLs, src.Name, layout, nil)
	if len(companies) > 0 {
		return companies
	}
	if src.LocalHTML != "" {
		return s.ScrapePortfolios(ctx, []string{src.LocalHTML}, src.Name, layout, fallback)
	}
	return fallback
}

func recordRun(ctx context.Context, cfg config.Config, run store.Run, rows []domain.Company, log *slog.Logger) (string, error) {
	db, err := store.Open(ctx, cfg.Report.SQLitePath)
	if err != nil {
		return "", err
	}
	defer db.Close()

	id, err := db.SaveRun(ctx, run, rows)
	if err != nil {
		return "", err
	}
	if cfg.Report.RetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -cfg.Report.RetentionDays)
		if n, err := db.CleanupOldRuns(ctx, cutoff); err != nil {
			log.Warn("[pipeline] run cleanup failed", "err", err)
		} else if n > 0 {
			log.Info("[pipeline] pruned old runs", "deleted", n)
		}
	}
	return id, nil
}

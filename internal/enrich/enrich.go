// Package enrich fills missing description, website and round on scraped
// companies. Every step is best-effort and skips itself when its input is
// missing.
package enrich

import (
	"context"
	"log/slog"
	"strings"

	"portfolio-engine/internal/domain"
	"portfolio-engine/internal/logging"
	"portfolio-engine/internal/scrape/util"

	"golang.org/x/sync/errgroup"
)

type DocumentFetcher interface {
	Fetch(ctx context.Context, ref string) (string, bool)
}

type Config struct {
	// Dataset is the static reference data keyed by name.
	Dataset []domain.Company
	// Rounds is the round-only reference map, lower-cased names.
	Rounds map[string]domain.Round
	// OwnDomains maps a source label to the VC's own host.
	OwnDomains map[string]string
	Workers    int
}

type Enricher struct {
	fetcher    DocumentFetcher
	dataset    map[string]domain.Company
	rounds     map[string]domain.Round
	ownDomains map[string]string
	workers    int
	log        *slog.Logger
}

func New(fetcher DocumentFetcher, cfg Config) *Enricher {
	dataset := make(map[string]domain.Company, len(cfg.Dataset))
	for _, c := range cfg.Dataset {
		key := strings.ToLower(c.Name)
		if _, dup := dataset[key]; dup {
			continue
		}
		dataset[key] = c
	}
	rounds := make(map[string]domain.Round, len(cfg.Rounds))
	for k, v := range cfg.Rounds {
		rounds[strings.ToLower(k)] = v
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Enricher{
		fetcher:    fetcher,
		dataset:    dataset,
		rounds:     rounds,
		ownDomains: cfg.OwnDomains,
		workers:    workers,
		log:        logging.For("enrich"),
	}
}

// Enrich runs profile fetch, dataset fill and round assignment in that order.
func (e *Enricher) Enrich(ctx context.Context, c domain.Company) domain.Company {
	c = e.FromProfile(ctx, c)
	c = e.FillMissing(c)
	c = e.AssignRound(c)
	return c
}

// EnrichAll enriches records concurrently and returns them in input order.
func (e *Enricher) EnrichAll(ctx context.Context, companies []domain.Company) []domain.Company {
	out := make([]domain.Company, len(companies))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i := range companies {
		g.Go(func() error {
			out[i] = e.Enrich(ctx, companies[i])
			return nil
		})
	}
	_ = g.Wait()

	e.log.Info("[enrich] done", "companies", len(out))
	return out
}

// FromProfile only runs for companies with no description and a remote
// http(s) profile page. A failed fetch leaves c unchanged.
func (e *Enricher) FromProfile(ctx context.Context, c domain.Company) domain.Company {
	if c.Description != "" || c.ProfileURL == "" {
		return c
	}
	if !util.IsAbsHTTP(c.ProfileURL) {
		e.log.Warn("[enrich] skipping non-http profile", "url", c.ProfileURL, "company", c.Name)
		return c
	}
	doc, ok := e.fetcher.Fetch(ctx, c.ProfileURL)
	if !ok {
		e.log.Warn("[enrich] VC page fetch failed", "url", c.ProfileURL, "company", c.Name)
		return c
	}

	desc, site := ParseProfile(doc, e.ownDomains[c.Source])
	if desc != "" {
		c.Description = desc
	}
	if c.Website == "" && site != "" {
		c.Website = site
	}
	e.log.Debug("[enrich] profile", "company", c.Name, "description", desc != "", "website", c.Website)
	return c
}

// FillMissing copies website and round from the reference dataset without
// overwriting known values.
func (e *Enricher) FillMissing(c domain.Company) domain.Company {
	ref, ok := e.dataset[strings.ToLower(c.Name)]
	if !ok {
		return c
	}
	if c.Website == "" {
		c.Website = ref.Website
	}
	if c.Round == domain.RoundUnknown {
		c.Round = ref.Round
	}
	return c
}

// AssignRound settles a still-unknown round from the round map, else from
// the name hash. A known round is never touched.
func (e *Enricher) AssignRound(c domain.Company) domain.Company {
	if c.Round != domain.RoundUnknown {
		return c
	}
	if r, ok := e.rounds[strings.ToLower(c.Name)]; ok && r != domain.RoundUnknown {
		c.Round = r
		return c
	}
	c.Round = FallbackRound(c.Name)
	return c
}

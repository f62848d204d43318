package scrape

import (
	"context"
	"log/slog"
	"strings"

	"portfolio-engine/internal/domain"
	"portfolio-engine/internal/logging"
	"portfolio-engine/internal/scrape/eip"
	"portfolio-engine/internal/scrape/generic"
	"portfolio-engine/internal/scrape/infer"
	"portfolio-engine/internal/scrape/setventures"
	"portfolio-engine/internal/scrape/types"
	"portfolio-engine/internal/scrape/util"
)

// DocumentFetcher resolves a reference to document text; false means no
// document.
type DocumentFetcher interface {
	Fetch(ctx context.Context, ref string) (string, bool)
}

// NameExtractor is the optional last resort for pages where no anchor
// yields a name.
type NameExtractor interface {
	ExtractNames(ctx context.Context, html string) []string
}

type Scraper struct {
	fetcher DocumentFetcher
	names   NameExtractor
	log     *slog.Logger
}

// New builds a Scraper. names may be nil.
func New(fetcher DocumentFetcher, names NameExtractor) *Scraper {
	return &Scraper{
		fetcher: fetcher,
		names:   names,
		log:     logging.For("scrape"),
	}
}

// ScrapePortfolio fetches ref and extracts its companies with the layout
// (empty layout: chosen from ref). No document, or no entries, yields
// fallback: extracting nothing is not the same as a source with no companies.
func (s *Scraper) ScrapePortfolio(ctx context.Context, ref, source string, layout Layout, fallback []domain.Company) []domain.Company {
	doc, ok := s.fetcher.Fetch(ctx, ref)
	if !ok || doc == "" {
		s.log.Warn("[scrape] no document, using fallback", "ref", ref, "source", source, "fallback", len(fallback))
		return fallback
	}

	if layout == "" {
		layout = LayoutFor(ref)
	}
	ex := ExtractorFor(layout)
	entries := ex.Extract(doc)

	if len(entries) == 0 && layout == LayoutGeneric && s.names != nil {
		for _, n := range util.CleanNames(s.names.ExtractNames(ctx, doc)) {
			entries = append(entries, types.Entry{Name: n})
		}
	}

	s.log.Info("[scrape:"+ex.Name()+"] extracted", "ref", ref, "source", source, "entries", len(entries))
	if len(entries) == 0 {
		return fallback
	}
	return companiesFromEntries(entries, ref, source)
}

// ScrapePortfolios concatenates the companies of every ref, falling back only
// when all of them together yield nothing.
func (s *Scraper) ScrapePortfolios(ctx context.Context, refs []string, source string, layout Layout, fallback []domain.Company) []domain.Company {
	var out []domain.Company
	for _, ref := range refs {
		out = append(out, s.ScrapePortfolio(ctx, ref, source, layout, nil)...)
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// companiesFromEntries keeps a profile link only when it resolves against ref
// to a remote http(s) page.
func companiesFromEntries(entries []types.Entry, ref, source string) []domain.Company {
	out := make([]domain.Company, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			name = infer.CompanyName(e.Description, e.Website)
		}
		profile := util.ResolveHTTP(ref, e.ProfileURL)
		out = append(out, domain.NewCompany(name, source, e.Website, e.Description, profile))
	}
	return out
}

// Layout names one of the known page structures.
type Layout string

const (
	LayoutEIP         Layout = "eip"
	LayoutSETVentures Layout = "setventures"
	LayoutGeneric     Layout = "generic"
)

// registry maps a host fragment of the source reference to its layout.
var registry = []struct {
	match  string
	layout Layout
}{
	{"energyimpactpartners.com", LayoutEIP},
	{"setventures.com", LayoutSETVentures},
}

// LayoutFor picks the layout of ref, defaulting to generic.
func LayoutFor(ref string) Layout {
	key := strings.ToLower(strings.TrimSpace(ref))
	for _, r := range registry {
		if strings.Contains(key, r.match) {
			return r.layout
		}
	}
	return LayoutGeneric
}

// ParseLayout accepts a configured layout name; "" and unknown names mean
// "choose by reference".
func ParseLayout(s string) Layout {
	switch l := Layout(strings.ToLower(strings.TrimSpace(s))); l {
	case LayoutEIP, LayoutSETVentures, LayoutGeneric:
		return l
	default:
		return ""
	}
}

func ExtractorFor(l Layout) types.Extractor {
	switch l {
	case LayoutEIP:
		return eip.New()
	case LayoutSETVentures:
		return setventures.New()
	default:
		return generic.New()
	}
}

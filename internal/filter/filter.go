// Package filter keeps early-stage companies whose description the
// classifier marks as energy-relevant.
package filter

import (
	"context"
	"log/slog"
	"strings"

	"portfolio-engine/internal/domain"
	"portfolio-engine/internal/logging"
)

// Classifier decides energy relevance. *llm.Client satisfies it.
type Classifier interface {
	MatchesEnergy(ctx context.Context, description string, keywords []string) bool
	FilterEnergyBulk(ctx context.Context, descriptions []string, keywords []string) []bool
}

// IsRoundEligible accepts Seed through Series C. Unknown and every later
// stage are rejected.
func IsRoundEligible(r domain.Round) bool {
	switch r {
	case domain.RoundUnknown:
		return false
	case domain.RoundSeriesD, domain.RoundSeriesE, domain.RoundSeriesF, domain.RoundSeriesG,
		domain.RoundIPO, domain.RoundPublic:
		return false
	case domain.RoundSeed, domain.RoundSeriesA, domain.RoundSeriesB, domain.RoundSeriesC:
		return true
	default:
		return false
	}
}

// MatchesKeywords reports whether any keyword occurs in text, case-insensitively.
func MatchesKeywords(text string, keywords []string) bool {
	lowered := strings.ToLower(text)
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" && strings.Contains(lowered, k) {
			return true
		}
	}
	return false
}

type Filter struct {
	classifier Classifier
	keywords   []string
	log        *slog.Logger
}

func New(classifier Classifier, keywords []string) *Filter {
	return &Filter{
		classifier: classifier,
		keywords:   keywords,
		log:        logging.For("filter"),
	}
}

func eligible(c domain.Company) bool {
	return IsRoundEligible(c.Round) && c.Description != ""
}

// IsRelevant classifies a single company.
func (f *Filter) IsRelevant(ctx context.Context, c domain.Company) bool {
	if !eligible(c) {
		return false
	}
	return f.classifier.MatchesEnergy(ctx, c.Description, f.keywords)
}

// FilterRelevant sends every eligible description in one batch and keeps
// the companies answered true, in input order. A classifier answer of the
// wrong length drops everything.
func (f *Filter) FilterRelevant(ctx context.Context, companies []domain.Company) []domain.Company {
	var (
		idx   []int
		descs []string
	)
	for i, c := range companies {
		if !eligible(c) {
			continue
		}
		idx = append(idx, i)
		descs = append(descs, c.Description)
	}
	if len(descs) == 0 {
		f.log.Info("[filter] no eligible companies", "input", len(companies))
		return nil
	}

	matches := f.classifier.FilterEnergyBulk(ctx, descs, f.keywords)
	if len(matches) != len(descs) {
		f.log.Warn("[filter] classifier answer length mismatch", "got", len(matches), "want", len(descs))
		return nil
	}

	var out []domain.Company
	for j, ok := range matches {
		if ok {
			out = append(out, companies[idx[j]])
		}
	}
	f.log.Info("[filter] done", "input", len(companies), "eligible", len(descs), "relevant", len(out))
	return out
}

// KeywordClassifier answers locally by keyword substring match.
type KeywordClassifier struct{}

func (KeywordClassifier) MatchesEnergy(_ context.Context, description string, keywords []string) bool {
	return MatchesKeywords(description, keywords)
}

func (KeywordClassifier) FilterEnergyBulk(_ context.Context, descriptions []string, keywords []string) []bool {
	out := make([]bool, len(descriptions))
	for i, d := range descriptions {
		out[i] = MatchesKeywords(d, keywords)
	}
	return out
}

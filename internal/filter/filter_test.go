package filter

import (
	"context"
	"strings"
	"testing"

	"portfolio-engine/internal/domain"
)

// substringClassifier marks descriptions containing any of its words.
type substringClassifier struct {
	words []string
	calls int
	short bool
	seen  []string
}

func (s *substringClassifier) match(d string) bool {
	d = strings.ToLower(d)
	for _, w := range s.words {
		if strings.Contains(d, w) {
			return true
		}
	}
	return false
}

func (s *substringClassifier) MatchesEnergy(_ context.Context, d string, _ []string) bool {
	s.calls++
	return s.match(d)
}

func (s *substringClassifier) FilterEnergyBulk(_ context.Context, ds []string, _ []string) []bool {
	s.calls++
	s.seen = append(s.seen, ds...)
	if s.short {
		return make([]bool, len(ds)-1)
	}
	out := make([]bool, len(ds))
	for i, d := range ds {
		out[i] = s.match(d)
	}
	return out
}

func company(name, desc string, r domain.Round) domain.Company {
	c := domain.NewCompany(name, "EIP", "", desc, "")
	c.Round = r
	return c
}

func TestIsRoundEligible(t *testing.T) {
	tests := []struct {
		r    domain.Round
		want bool
	}{
		{domain.RoundUnknown, false},
		{domain.RoundSeed, true},
		{domain.RoundSeriesA, true},
		{domain.RoundSeriesB, true},
		{domain.RoundSeriesC, true},
		{domain.RoundSeriesD, false},
		{domain.RoundSeriesE, false},
		{domain.RoundSeriesF, false},
		{domain.RoundSeriesG, false},
		{domain.RoundIPO, false},
		{domain.RoundPublic, false},
	}
	for _, tt := range tests {
		if got := IsRoundEligible(tt.r); got != tt.want {
			t.Errorf("IsRoundEligible(%v) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestMatchesKeywords(t *testing.T) {
	kw := []string{"grid", "Battery", " "}
	if !MatchesKeywords("Smart GRID analytics", kw) {
		t.Error("case-insensitive match failed")
	}
	if !MatchesKeywords("battery recycling", kw) {
		t.Error("keyword case not ignored")
	}
	if MatchesKeywords("Fintech payments", kw) {
		t.Error("unexpected match")
	}
	if MatchesKeywords("anything", nil) {
		t.Error("no keywords must not match")
	}
}

func TestIsRelevant(t *testing.T) {
	cl := &substringClassifier{words: []string{"grid"}}
	f := New(cl, []string{"grid"})
	ctx := context.Background()

	if !f.IsRelevant(ctx, company("GridPulse", "Smart grid analytics.", domain.RoundSeriesA)) {
		t.Error("GridPulse should be relevant")
	}
	if f.IsRelevant(ctx, company("Late", "grid", domain.RoundSeriesE)) {
		t.Error("late stage accepted")
	}
	if f.IsRelevant(ctx, company("Blank", "", domain.RoundSeed)) {
		t.Error("empty description accepted")
	}
	if cl.calls != 1 {
		t.Errorf("classifier calls = %d, want 1", cl.calls)
	}
}

func TestFilterRelevant(t *testing.T) {
	in := []domain.Company{
		company("GridPulse", "Smart grid analytics.", domain.RoundSeriesA),
		company("VoltStor", "Grid-scale storage.", domain.RoundSeriesD),
		company("HeliOS", "Home energy storage software.", domain.RoundSeed),
		company("FinCo", "Payments for SMEs.", domain.RoundSeriesB),
		company("SunPeak", "Utility-scale solar and storage.", domain.RoundSeriesE),
		company("NoDesc", "", domain.RoundSeriesB),
	}
	cl := &substringClassifier{words: []string{"grid", "storage"}}
	got := New(cl, nil).FilterRelevant(context.Background(), in)

	var names []string
	for _, c := range got {
		names = append(names, c.Name)
	}
	if strings.Join(names, ",") != "GridPulse,HeliOS" {
		t.Errorf("relevant = %v", names)
	}
	if cl.calls != 1 {
		t.Errorf("classifier calls = %d, want one batch", cl.calls)
	}
	if len(cl.seen) != 3 {
		t.Errorf("sent %d descriptions, want 3 eligible", len(cl.seen))
	}
}

func TestFilterRelevantFailsClosed(t *testing.T) {
	in := []domain.Company{
		company("GridPulse", "Smart grid analytics.", domain.RoundSeriesA),
		company("HeliOS", "Home energy storage software.", domain.RoundSeed),
	}
	cl := &substringClassifier{words: []string{"grid", "storage"}, short: true}
	if got := New(cl, nil).FilterRelevant(context.Background(), in); len(got) != 0 {
		t.Errorf("length mismatch kept %d companies", len(got))
	}
}

func TestFilterRelevantNothingEligible(t *testing.T) {
	cl := &substringClassifier{}
	in := []domain.Company{company("Late", "grid", domain.RoundIPO), company("Unknown", "grid", domain.RoundUnknown)}
	if got := New(cl, nil).FilterRelevant(context.Background(), in); len(got) != 0 {
		t.Errorf("got %v", got)
	}
	if cl.calls != 0 {
		t.Error("classifier called with nothing eligible")
	}
}

func TestKeywordClassifier(t *testing.T) {
	var kc KeywordClassifier
	got := kc.FilterEnergyBulk(context.Background(), []string{"solar farm", "crypto"}, []string{"solar"})
	if len(got) != 2 || !got[0] || got[1] {
		t.Errorf("got %v", got)
	}
	if !kc.MatchesEnergy(context.Background(), "EV charging", []string{"ev charging"}) {
		t.Error("single match failed")
	}
}

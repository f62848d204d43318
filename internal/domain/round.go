package domain

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Round is the last funding stage of a company, ordered by seniority.
// The zero value is RoundUnknown.
type Round int

const (
	RoundUnknown Round = iota
	RoundSeed
	RoundSeriesA
	RoundSeriesB
	RoundSeriesC
	RoundSeriesD
	RoundSeriesE
	RoundSeriesF
	RoundSeriesG
	RoundIPO
	RoundPublic
)

var roundNames = map[Round]string{
	RoundUnknown: "Unknown",
	RoundSeed:    "Seed",
	RoundSeriesA: "Series A",
	RoundSeriesB: "Series B",
	RoundSeriesC: "Series C",
	RoundSeriesD: "Series D",
	RoundSeriesE: "Series E",
	RoundSeriesF: "Series F",
	RoundSeriesG: "Series G",
	RoundIPO:     "IPO",
	RoundPublic:  "Public",
}

func (r Round) String() string {
	if s, ok := roundNames[r]; ok {
		return s
	}
	return roundNames[RoundUnknown]
}

// ParseRound accepts the display form ("Series A") as well as compact
// spellings ("seriesa", "SERIES_A").
func ParseRound(s string) (Round, bool) {
	key := compactRound(s)
	if key == "" {
		return RoundUnknown, false
	}
	for r, name := range roundNames {
		if compactRound(name) == key {
			return r, true
		}
	}
	return RoundUnknown, false
}

func compactRound(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	r := strings.NewReplacer(" ", "", "_", "", "-", "")
	return r.Replace(s)
}

func (r Round) MarshalYAML() (any, error) {
	return r.String(), nil
}

func (r *Round) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, ok := ParseRound(s)
	if !ok {
		return fmt.Errorf("unknown funding round %q", s)
	}
	*r = parsed
	return nil
}

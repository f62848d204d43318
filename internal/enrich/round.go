package enrich

import (
	"crypto/sha256"
	"math/big"
	"strings"

	"portfolio-engine/internal/domain"
)

// earlyRounds is the range of FallbackRound.
var earlyRounds = []domain.Round{
	domain.RoundSeed,
	domain.RoundSeriesA,
	domain.RoundSeriesB,
	domain.RoundSeriesC,
	domain.RoundSeriesD,
}

// FallbackRound maps a name to an early round: SHA-256 of the lower-cased
// name, read as a big-endian integer, modulo len(earlyRounds). Same name,
// same round; "" is Seed.
func FallbackRound(name string) domain.Round {
	if name == "" {
		return domain.RoundSeed
	}
	sum := sha256.Sum256([]byte(strings.ToLower(name)))
	n := new(big.Int).SetBytes(sum[:])
	idx := new(big.Int).Mod(n, big.NewInt(int64(len(earlyRounds))))
	return earlyRounds[idx.Int64()]
}

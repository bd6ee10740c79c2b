package random

import (
	crypto_rand "crypto/rand"
	"math"
	"math/big"
	"time"

	"github.com/rs/zerolog/log"
)

var randomLogger = log.With().Str("logger_name", "util::random").Logger()

// NewSeed draws a non-negative seed from crypto/rand. If the system source
// fails it falls back to the wall clock.
func NewSeed() int64 {
	nBig, err := crypto_rand.Int(crypto_rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		randomLogger.Error().Err(err).Msg("crypto/rand unavailable, seeding from clock")
		seed := time.Now().UnixNano()
		if seed < 0 {
			seed = -seed
		}
		return seed
	}
	return nBig.Int64()
}

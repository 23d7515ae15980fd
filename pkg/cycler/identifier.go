package cycler

import (
	"fmt"
	"math/big"
	"math/rand"
	"strings"
	"time"
)

const (
	// identifierRandomDigits is how many random decimal digits lead the identifier.
	identifierRandomDigits = 18

	// identifierTimestampDigits is how many trailing digits come from the clock.
	identifierTimestampDigits = 5
)

// NewTokenID produces a fresh wrap/unwrap identifier: 18 random decimal
// digits (leading digit nonzero) followed by the last 5 digits of the unix
// timestamp, 23 digits total. Uniqueness is not enforced, only randomness
// plus the time-varying suffix.
func NewTokenID(rng *rand.Rand, now time.Time) *big.Int {
	var b strings.Builder
	b.WriteByte('1' + byte(rng.Intn(9)))
	for i := 1; i < identifierRandomDigits; i++ {
		b.WriteByte('0' + byte(rng.Intn(10)))
	}

	modulus := int64(1)
	for i := 0; i < identifierTimestampDigits; i++ {
		modulus *= 10
	}
	fmt.Fprintf(&b, "%0*d", identifierTimestampDigits, now.Unix()%modulus)

	id, ok := new(big.Int).SetString(b.String(), 10)
	if !ok {
		// The builder only ever holds decimal digits.
		panic("cycler: malformed token identifier " + b.String())
	}
	return id
}

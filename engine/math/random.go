package math

import (
	"sync"
	"time"

	"golang.org/x/exp/rand"
)

var seedOnce sync.Once

func ensureSeeded() {
	seedOnce.Do(func() {
		rand.Seed(uint64(time.Now().UnixNano()))
	})
}

// Seed makes the random helpers deterministic. Without it the first use
// seeds from the wall clock.
func Seed(seed uint64) {
	// Burn the once so a later helper call cannot reseed from the clock.
	seedOnce.Do(func() {})
	rand.Seed(seed)
}

// RandomInt31 returns a non-negative random int32.
func RandomInt31() int32 {
	ensureSeeded()
	return rand.Int31()
}

// RandomInRange returns a random int32 in [min, max].
func RandomInRange(min, max int32) int32 {
	ensureSeeded()
	return rand.Int31n(max-min+1) + min
}

// RandomFloat returns a random float32 in [0, 1).
func RandomFloat() float32 {
	ensureSeeded()
	return rand.Float32()
}

// RandomFloatInRange returns a random float32 in [min, max).
func RandomFloatInRange(min, max float32) float32 {
	return min + RandomFloat()*(max-min)
}

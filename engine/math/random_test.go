package math

import (
	"testing"
)

func TestRandomInRangeBounds(t *testing.T) {
	Seed(7)
	for i := 0; i < 1000; i++ {
		got := RandomInRange(-3, 5)
		if got < -3 || got > 5 {
			t.Fatalf("RandomInRange(-3, 5) = %d", got)
		}
	}
}

func TestRandomFloatBounds(t *testing.T) {
	Seed(7)
	for i := 0; i < 1000; i++ {
		if got := RandomFloat(); got < 0 || got >= 1 {
			t.Fatalf("RandomFloat() = %v", got)
		}
		if got := RandomFloatInRange(2, 4); got < 2 || got >= 4 {
			t.Fatalf("RandomFloatInRange(2, 4) = %v", got)
		}
	}
}

func TestSeedMakesSequencesRepeat(t *testing.T) {
	Seed(42)
	first := []int32{RandomInt31(), RandomInt31(), RandomInt31()}
	Seed(42)
	second := []int32{RandomInt31(), RandomInt31(), RandomInt31()}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sequence diverged at %d: %d vs %d", i, first[i], second[i])
		}
	}
}

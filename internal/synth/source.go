package synth

import (
	"math/rand"
	"sync"
	"time"
)

// Source yields uniformly distributed floats in [0, 1).
type Source interface {
	Float64() float64
}

// lockedSource makes a *rand.Rand safe for concurrent callers.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a concurrency-safe Source seeded with seed. A zero seed
// seeds from the current time.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

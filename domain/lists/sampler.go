package lists

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
)

// Sampler draws items from a list without replacement within a cycle. When
// every item has been drawn once, the pool is refilled with a fresh copy and
// drawing continues. A Sampler is safe for concurrent use.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler returns a Sampler driven by src. Tests pass a fixed-seed source.
func NewSampler(src rand.Source) *Sampler {
	return &Sampler{rng: rand.New(src)}
}

// NewRandomSampler returns a Sampler seeded from crypto/rand.
func NewRandomSampler() (*Sampler, error) {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("read sampler seed: %w", err)
	}
	src := rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:]))
	return NewSampler(src), nil
}

// Pick draws n items from items, where 0 < n <= MaxPickCount. At each step the
// index is uniform over the items remaining in the current cycle. The input
// slice is not modified.
func (s *Sampler) Pick(items []string, n int) ([]string, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("cannot pick from an empty list: %w", ErrInvalidArgument)
	}
	if err := ValidatePickCount(n); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	picked := make([]string, 0, n)
	pool := make([]string, 0, len(items))
	for range n {
		if len(pool) == 0 {
			pool = append(pool, items...)
		}
		i := s.rng.IntN(len(pool))
		picked = append(picked, pool[i])
		pool = slices.Delete(pool, i, i+1)
	}
	return picked, nil
}

// ValidatePickCount rejects counts outside 1..MaxPickCount.
func ValidatePickCount(n int) error {
	if n <= 0 {
		return fmt.Errorf("pick count must be positive, got %d: %w", n, ErrInvalidArgument)
	}
	if n > MaxPickCount {
		return fmt.Errorf("pick count %d exceeds the limit of %d: %w", n, MaxPickCount, ErrInvalidArgument)
	}
	return nil
}

package lists

import (
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSampler(seed uint64) *Sampler {
	return NewSampler(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestSampler_Pick_WithoutReplacementWithinCycle(t *testing.T) {
	// Arrange
	sampler := newTestSampler(1)
	items := []string{"a", "b", "c", "d", "e"}

	// Act
	picked, err := sampler.Pick(items, len(items))

	// Assert
	require.NoError(t, err)
	assert.ElementsMatch(t, items, picked)
}

func TestSampler_Pick_RefillBound(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		n     int
	}{
		{name: "fewer_than_items", items: []string{"a", "b", "c"}, n: 2},
		{name: "exactly_items", items: []string{"a", "b", "c"}, n: 3},
		{name: "one_refill", items: []string{"a", "b", "c"}, n: 5},
		{name: "many_refills", items: []string{"a", "b"}, n: 9},
		{name: "single_item", items: []string{"only"}, n: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampler := newTestSampler(7)

			picked, err := sampler.Pick(tt.items, tt.n)

			require.NoError(t, err)
			require.Len(t, picked, tt.n)

			bound := int(math.Ceil(float64(tt.n) / float64(len(tt.items))))
			counts := map[string]int{}
			for _, p := range picked {
				counts[p]++
				assert.Contains(t, tt.items, p)
			}
			for item, c := range counts {
				assert.LessOrEqual(t, c, bound, "item %q drawn too often", item)
			}

			// Each full cycle is a permutation of the source.
			k := len(tt.items)
			for start := 0; start+k <= tt.n; start += k {
				assert.ElementsMatch(t, tt.items, picked[start:start+k])
			}
		})
	}
}

func TestSampler_Pick_DuplicateValuesAreDistinctItems(t *testing.T) {
	sampler := newTestSampler(3)

	picked, err := sampler.Pick([]string{"x", "x", "y"}, 3)

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"x", "x", "y"}, picked)
}

func TestSampler_Pick_DoesNotModifyInput(t *testing.T) {
	sampler := newTestSampler(11)
	items := []string{"a", "b", "c"}

	_, err := sampler.Pick(items, 7)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, items)
}

func TestSampler_Pick_Uniformity(t *testing.T) {
	sampler := newTestSampler(99)
	items := []string{"a", "b", "c", "d"}
	const trials = 40000

	counts := map[string]int{}
	for range trials {
		picked, err := sampler.Pick(items, 1)
		require.NoError(t, err)
		counts[picked[0]]++
	}

	expected := float64(trials) / float64(len(items))
	for _, item := range items {
		assert.InDelta(t, expected, float64(counts[item]), expected*0.05, "item %q", item)
	}
}

func TestSampler_Pick_AtLimit(t *testing.T) {
	sampler := newTestSampler(3)

	picked, err := sampler.Pick([]string{"a", "b"}, MaxPickCount)

	require.NoError(t, err)
	assert.Len(t, picked, MaxPickCount)
}

func TestSampler_Pick_InvalidArguments(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		n     int
	}{
		{name: "empty_source", items: []string{}, n: 1},
		{name: "nil_source", items: nil, n: 1},
		{name: "zero_count", items: []string{"a"}, n: 0},
		{name: "negative_count", items: []string{"a"}, n: -2},
		{name: "count_above_limit", items: []string{"a"}, n: MaxPickCount + 1},
		{name: "huge_count", items: []string{"a"}, n: 1 << 62},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			picked, err := newTestSampler(5).Pick(tt.items, tt.n)

			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Nil(t, picked)
		})
	}
}

func TestSampler_Pick_ConcurrentUse(t *testing.T) {
	sampler, err := NewRandomSampler()
	require.NoError(t, err)
	items := []string{"a", "b", "c"}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				picked, err := sampler.Pick(items, 3)
				assert.NoError(t, err)
				assert.ElementsMatch(t, items, picked)
			}
		}()
	}
	wg.Wait()
}

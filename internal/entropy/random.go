// Package entropy provides the single seeded random source shared by a run.
// Every stochastic decision in a simulation draws from one Source so that a
// seed and a parameter set fully determine the trajectory.
package entropy

import "math/rand"

// Source is a deterministic generator. It is not safe for concurrent use;
// the engine is single-threaded.
type Source struct {
	seed int64
	rng  *rand.Rand
}

// New creates a source from a seed.
func New(seed int64) *Source {
	return &Source{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the source was created with.
func (s *Source) Seed() int64 {
	return s.seed
}

// Float returns a uniform value in [0, 1).
func (s *Source) Float() float64 {
	return s.rng.Float64()
}

// Chance runs a Bernoulli trial: one uniform draw compared against p.
// p <= 0 never succeeds, but the draw is still consumed so the stream
// does not depend on the value of p.
func (s *Source) Chance(p float64) bool {
	u := s.Float()
	return p > 0 && u <= p
}

// Intn returns a uniform integer in [0, n). n must be positive.
func (s *Source) Intn(n int) int {
	return s.rng.Intn(n)
}

// Shuffle permutes n elements in place using swap.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}

// Sample returns k distinct indices drawn from [0, n) without replacement,
// in draw order. k is clamped to n.
func (s *Source) Sample(n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	// Partial Fisher-Yates: the first k slots end up holding the sample.
	for i := 0; i < k; i++ {
		j := i + s.rng.Intn(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

// Package sample is the deterministic randomness kernel for the generation
// pipeline. Every stochastic draw in every stage flows through a single
// Source so that a given seed always produces the same dataset. Invalid
// parameters are programming-contract violations and panic immediately.
package sample

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Source wraps one seeded PRNG. It is not safe for concurrent use; the
// pipeline is single-threaded by contract.
type Source struct {
	rng *rand.Rand
}

// New creates a Source seeded once. The same seed yields the same draw
// sequence.
func New(seed uint64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Float64 returns a uniform draw in [0, 1).
func (s *Source) Float64() float64 {
	return s.rng.Float64()
}

// Bernoulli returns true with probability p.
func (s *Source) Bernoulli(p float64) bool {
	if p < 0 || p > 1 {
		panic(fmt.Sprintf("sample: bernoulli probability %v out of [0,1]", p))
	}
	return s.rng.Float64() < p
}

// IntBetween returns a uniform integer in [lo, hi] inclusive.
func (s *Source) IntBetween(lo, hi int) int {
	if hi < lo {
		panic(fmt.Sprintf("sample: empty interval [%d,%d]", lo, hi))
	}
	return lo + s.rng.Intn(hi-lo+1)
}

// TimeBetween returns a uniform instant in [start, end) at second precision.
func (s *Source) TimeBetween(start, end time.Time) time.Time {
	secs := int64(end.Sub(start) / time.Second)
	if secs <= 0 {
		panic(fmt.Sprintf("sample: empty time range [%s,%s)", start, end))
	}
	return start.Add(time.Duration(s.rng.Int63n(secs)) * time.Second)
}

// Poisson returns a Poisson-distributed count with the given mean.
func (s *Source) Poisson(mean float64) int {
	if mean <= 0 {
		panic(fmt.Sprintf("sample: poisson mean %v must be positive", mean))
	}
	return int(distuv.Poisson{Lambda: mean, Src: s.rng}.Rand())
}

// Exponential returns an exponential draw with the given mean.
func (s *Source) Exponential(mean float64) float64 {
	if mean <= 0 {
		panic(fmt.Sprintf("sample: exponential mean %v must be positive", mean))
	}
	return distuv.Exponential{Rate: 1 / mean, Src: s.rng}.Rand()
}

// LogNormal returns a log-normal draw with log-space mean mu and stddev sigma.
func (s *Source) LogNormal(mu, sigma float64) float64 {
	return distuv.LogNormal{Mu: mu, Sigma: sigma, Src: s.rng}.Rand()
}

// Normal returns a normal draw with mean mu and stddev sigma.
func (s *Source) Normal(mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: s.rng}.Rand()
}

// Perm returns a pseudo-random permutation of [0, n).
func (s *Source) Perm(n int) []int {
	return s.rng.Perm(n)
}

// UUID returns a version-4 UUID drawn from the source, so record identifiers
// are reproducible for a given seed.
func (s *Source) UUID() string {
	id, err := uuid.NewRandomFromReader(s.rng)
	if err != nil {
		// rand.Rand.Read never fails.
		panic(fmt.Sprintf("sample: uuid: %v", err))
	}
	return id.String()
}

// Weighted picks one value with probability proportional to its weight.
// Weights must be non-negative and sum to a positive total.
func Weighted[T any](s *Source, values []T, weights []float64) T {
	if len(values) == 0 || len(values) != len(weights) {
		panic(fmt.Sprintf("sample: weighted choice over %d values with %d weights", len(values), len(weights)))
	}
	total := 0.0
	for _, w := range weights {
		if w < 0 {
			panic(fmt.Sprintf("sample: negative weight %v", w))
		}
		total += w
	}
	if total <= 0 {
		panic("sample: weighted choice with zero total weight")
	}

	r := s.rng.Float64() * total
	for i, w := range weights {
		r -= w
		if r < 0 {
			return values[i]
		}
	}
	// Floating-point residue lands on the last value.
	return values[len(values)-1]
}

// Uniform picks one value with equal probability.
func Uniform[T any](s *Source, values []T) T {
	if len(values) == 0 {
		panic("sample: uniform choice over empty set")
	}
	return values[s.rng.Intn(len(values))]
}

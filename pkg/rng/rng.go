// Package rng provides the single source of randomness for the simulation
// core. Every other package routes dice rolls, percent checks, and random
// choices through an *RNG instance; nothing in the core calls math/rand
// directly, so a run is reproducible from its seed.
package rng

import "math/rand"

// RNG wraps a seeded generator. It is not safe for concurrent use, which
// matches the single-threaded cooperative model of the core (see design
// notes on concurrency).
type RNG struct {
	seed uint64
	src  *rand.Rand
}

// New creates an RNG seeded with the given value. Two RNGs created with the
// same seed produce identical sequences.
func New(seed uint64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(int64(seed))),
	}
}

// Seed returns the seed this RNG was created with.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// Dice rolls `rolls` dice of `sides` faces and returns the sum.
func (r *RNG) Dice(rolls, sides int) int {
	if rolls <= 0 || sides <= 0 {
		return 0
	}
	sum := 0
	for i := 0; i < rolls; i++ {
		sum += r.Range(1, sides)
	}
	return sum
}

// Range returns a uniform integer in [min, max], inclusive on both ends.
func (r *RNG) Range(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.src.Intn(max-min+1)
}

// OneIn returns true with probability 1/n. OneIn(1) is always true; n<=0 is
// always false.
func (r *RNG) OneIn(n int) bool {
	if n <= 0 {
		return false
	}
	if n == 1 {
		return true
	}
	return r.src.Intn(n) == 0
}

// Percent returns a uniform integer in [1, 100].
func (r *RNG) Percent() int {
	return r.Range(1, 100)
}

// Fraction returns true with probability num/den.
func (r *RNG) Fraction(num, den int) bool {
	if den <= 0 {
		return false
	}
	if num >= den {
		return true
	}
	if num <= 0 {
		return false
	}
	return r.src.Intn(den) < num
}

// CoinToss returns true or false with equal probability.
func (r *RNG) CoinToss() bool {
	return r.src.Intn(2) == 0
}

// Shuffle randomizes the order of a slice of length n in place using the
// supplied swap function, mirroring rand.Shuffle's contract.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.src.Shuffle(n, swap)
}

// IndexOf picks a uniformly random index in [0, n). Panics if n<=0, matching
// the Go standard library's Intn contract.
func (r *RNG) IndexOf(n int) int {
	return r.src.Intn(n)
}

package prime

import (
	"math/bits"
	"math/rand/v2"
	"sync"
)

// millerRabinRounds is the number of random bases tried per candidate.
// A composite survives all rounds with probability at most 4^-5.
const millerRabinRounds = 5

// RandomSource supplies Miller-Rabin bases.
//
// Contract:
//   - IntN returns a value in [0, n) for n > 0.
//   - Concurrency: the engine serializes calls only for sources it creates
//     itself (WithSeed); injected sources must be safe for concurrent use if the
//     engine is shared across goroutines.
//
// *rand.Rand from math/rand/v2 satisfies this interface.
type RandomSource interface {
	IntN(n int) int
}

// globalSource draws from the math/rand/v2 top-level generator, which is
// safe for concurrent use.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// lockedSource serializes access to a seeded generator.
type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func newSeededSource(seed uint64) *lockedSource {
	return &lockedSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// millerRabin is a probabilistic primality tester.
type millerRabin struct {
	source RandomSource
}

func (m millerRabin) primes(bound int) []int {
	primes := []int{}
	for i := 2; i <= bound; i++ {
		if m.isPrime(i) {
			primes = append(primes, i)
		}
	}
	return primes
}

func (m millerRabin) isPrime(n int) bool {
	if n == 2 || n == 3 {
		return true
	}
	if n < 2 || n%2 == 0 {
		return false
	}

	d := n - 1
	s := 0
	for d%2 == 0 {
		d /= 2
		s++
	}

	for range millerRabinRounds {
		a := m.source.IntN(n-3) + 2
		x := powMod(a, d, n)
		if x == 1 || x == n-1 {
			continue
		}
		for j := 0; j < s-1; j++ {
			x = mulMod(x, x, n)
			if x == n-1 {
				break
			}
		}
		if x != n-1 {
			return false
		}
	}
	return true
}

// powMod computes a^e mod m by square-and-multiply. m must be positive.
func powMod(a, e, m int) int {
	result := 1 % m
	a %= m
	for e > 0 {
		if e&1 == 1 {
			result = mulMod(result, a, m)
		}
		a = mulMod(a, a, m)
		e >>= 1
	}
	return result
}

// mulMod computes a*b mod m for 0 <= a, b < m without overflow.
func mulMod(a, b, m int) int {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	return int(bits.Rem64(hi, lo, uint64(m)))
}

package prime

import (
	"iter"
	"slices"
)

// naivePrimes tests every candidate against all divisors up to its square root.
func naivePrimes(bound int) []int {
	primes := []int{}
	for i := 2; i <= bound; i++ {
		isPrime := true
		// j <= i/j is j*j <= i without overflow
		for j := 2; j <= i/j; j++ {
			if i%j == 0 {
				isPrime = false
				break
			}
		}
		if isPrime {
			primes = append(primes, i)
		}
	}
	return primes
}

// defaultPrimes filters the lazy candidate sequence 2..bound with the same
// divisibility test as naivePrimes.
func defaultPrimes(bound int) []int {
	primes := slices.Collect(filter(rangeClosed(2, bound), noDivisor))
	if primes == nil {
		return []int{}
	}
	return primes
}

// noDivisor reports whether n has no divisor in 2..floor(sqrt(n)).
func noDivisor(n int) bool {
	for d := range rangeClosed(2, isqrt(n)) {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// rangeClosed yields lo..hi inclusive. It yields nothing when hi < lo.
func rangeClosed(lo, hi int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := lo; i <= hi; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

func filter(seq iter.Seq[int], keep func(int) bool) iter.Seq[int] {
	return func(yield func(int) bool) {
		for v := range seq {
			if keep(v) && !yield(v) {
				return
			}
		}
	}
}

// isqrt returns floor(sqrt(n)) for n >= 0.
func isqrt(n int) int {
	if n < 4 {
		return min(n, 1)
	}
	// Newton iteration on integers converges from above.
	x := n
	y := x/2 + 1
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}

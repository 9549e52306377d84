package prime

// sievePrimes runs the Sieve of Eratosthenes over 0..bound.
func sievePrimes(bound int) []int {
	if bound < 2 {
		return []int{}
	}

	composite := make([]bool, bound+1)
	for p := 2; p <= bound/p; p++ {
		if composite[p] {
			continue
		}
		for i := p * p; i <= bound; i += p {
			composite[i] = true
		}
	}

	primes := make([]int, 0, estimateCount(bound))
	for i := 2; i <= bound; i++ {
		if !composite[i] {
			primes = append(primes, i)
		}
	}
	return primes
}

// estimateCount is a cheap upper-ish estimate of pi(n) used for preallocation.
func estimateCount(n int) int {
	if n < 17 {
		return 6
	}
	bits := 0
	for v := n; v > 0; v >>= 1 {
		bits++
	}
	// n / ln(n) with ln(n) ~ 0.69 * bits, padded by 25%.
	return n / (bits * 69 / 100) * 5 / 4
}

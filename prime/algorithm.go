package prime

import "fmt"

// Algorithm selects the strategy used to enumerate primes.
type Algorithm int

const (
	// Default is trial division expressed as a filtered lazy sequence.
	Default Algorithm = iota
	// Naive is nested-loop trial division.
	Naive
	// Sieve is the Sieve of Eratosthenes.
	Sieve
	// MillerRabin applies a 5-round Miller-Rabin test to every candidate.
	MillerRabin

	numAlgorithms
)

// String returns the wire name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case Default:
		return "Default"
	case Naive:
		return "Naive"
	case Sieve:
		return "Sieve"
	case MillerRabin:
		return "Miller-Rabin"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// Valid reports whether a is one of the declared algorithms.
func (a Algorithm) Valid() bool {
	return a >= Default && a < numAlgorithms
}

// Algorithms returns every algorithm in declaration order.
func Algorithms() []Algorithm {
	out := make([]Algorithm, 0, numAlgorithms)
	for a := Default; a < numAlgorithms; a++ {
		out = append(out, a)
	}
	return out
}

// ParseAlgorithm maps a wire name to an Algorithm. Names are case-sensitive.
func ParseAlgorithm(name string) (Algorithm, error) {
	for _, a := range Algorithms() {
		if a.String() == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
}

// Package prime enumerates prime numbers up to an inclusive bound.
//
// It provides four interchangeable strategies selected by Algorithm: a naive
// trial division, a lazy-sequence trial division (the default), the Sieve of
// Eratosthenes, and an exhaustive Miller-Rabin probabilistic test. Every
// strategy returns the same strictly increasing list for the same bound.
//
// The engine is pure apart from Miller-Rabin, whose base selection draws from
// a RandomSource. Tests can pin that source with WithSeed or
// WithRandomSource.
package prime

// Package httpapi exposes prime lookups over HTTP.
//
//	GET /primes/{bound}?algorithmName=Sieve&readFromCache=true
//
// A successful response is JSON: {"Initial": 10, "Primes": [2,3,5,7]}.
// Invalid input answers 400 with a plain-text message, computation failures
// 500, rate limiting 429 and a saturated bulkhead 503.
package httpapi

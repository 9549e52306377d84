// Package secret resolves secret-bearing configuration values.
//
// A value is first expanded against the environment (${VAR}, strict: a
// missing variable is an error). If the result is a reference of the form
// secretref:<provider>:<ref>, the named Provider resolves it:
//
//	secretref:env:PRIMES_JWT_SECRET
//	secretref:file:/run/secrets/api_key
//
// Anything else is returned as is. Providers never log secret values.
package secret

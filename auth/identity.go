package auth

import "time"

// Method indicates how a caller authenticated.
type Method string

const (
	MethodJWT    Method = "jwt"
	MethodAPIKey Method = "api_key"
)

// Identity is an authenticated caller.
type Identity struct {
	Principal string
	Method    Method
	Claims    map[string]any
	ExpiresAt time.Time // zero means no expiry
}

// IsExpired reports whether the identity has an expiry in the past.
func (id *Identity) IsExpired() bool {
	return !id.ExpiresAt.IsZero() && time.Now().After(id.ExpiresAt)
}

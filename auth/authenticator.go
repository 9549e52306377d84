package auth

import (
	"context"
	"net/http"
)

// Authenticator validates request credentials.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: Authenticate returns one of the package sentinels (see
//     IsAuthFailure) when the caller is not authenticated; any other error is
//     internal.
type Authenticator interface {
	// Name identifies the authenticator in logs.
	Name() string

	// Supports reports whether header carries credentials this
	// authenticator understands.
	Supports(header http.Header) bool

	// Authenticate validates the credentials in header.
	Authenticate(ctx context.Context, header http.Header) (*Identity, error)
}

package auth

import (
	"context"
	"net/http"
)

// Composite tries authenticators in order. The first success wins; if all
// applicable authenticators fail, the last failure is returned.
type Composite struct {
	auths []Authenticator
}

// NewComposite creates a Composite over auths.
func NewComposite(auths ...Authenticator) *Composite {
	return &Composite{auths: auths}
}

func (c *Composite) Name() string { return "composite" }

func (c *Composite) Supports(header http.Header) bool {
	for _, a := range c.auths {
		if a.Supports(header) {
			return true
		}
	}
	return false
}

func (c *Composite) Authenticate(ctx context.Context, header http.Header) (*Identity, error) {
	lastErr := ErrMissingCredentials
	for _, a := range c.auths {
		if !a.Supports(header) {
			continue
		}
		id, err := a.Authenticate(ctx, header)
		if err == nil {
			return id, nil
		}
		if !IsAuthFailure(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

var _ Authenticator = (*Composite)(nil)

package auth

import (
	"net/http"

	"github.com/jonwraymond/primeops/observe"
)

// Middleware rejects requests that a does not authenticate. Authentication
// failures get 401 with a WWW-Authenticate challenge; internal errors get 500.
// On success the Identity is attached to the request context.
func Middleware(a Authenticator, logger observe.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = observe.NopLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			id, err := a.Authenticate(ctx, r.Header)
			if err != nil {
				if IsAuthFailure(err) {
					logger.Warn(ctx, "request not authenticated",
						observe.Field{Key: "authenticator", Value: a.Name()},
						observe.Field{Key: "error", Value: err.Error()},
					)
					w.Header().Set("WWW-Authenticate", `Bearer realm="primes"`)
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					return
				}
				logger.Error(ctx, "authentication error", observe.Field{Key: "error", Value: err.Error()})
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			logger.Debug(ctx, "request authenticated",
				observe.Field{Key: "principal", Value: id.Principal},
				observe.Field{Key: "method", Value: string(id.Method)},
			)
			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, id)))
		})
	}
}

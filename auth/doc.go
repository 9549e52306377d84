// Package auth guards the prime endpoint with optional credentials.
//
// Two authenticators are provided: API keys sent in the X-API-Key header and
// HMAC-signed JWT bearer tokens. A Composite tries each authenticator that
// recognizes the request and Middleware rejects unauthenticated requests with
// 401. The authenticated Identity is stored in the request context.
package auth

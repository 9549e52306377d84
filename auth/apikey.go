package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// APIKeyHeader is the header carrying an API key.
const APIKeyHeader = "X-API-Key"

// HashAPIKey returns the hex SHA-256 of key. Stores hold hashes only.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// APIKeyStore resolves API key hashes to principals.
type APIKeyStore interface {
	// Lookup returns the principal for keyHash, or ok=false.
	Lookup(ctx context.Context, keyHash string) (principal string, ok bool, err error)
}

// MemoryAPIKeyStore is an in-memory APIKeyStore.
type MemoryAPIKeyStore struct {
	mu   sync.RWMutex
	keys map[string]string // hash -> principal
}

// NewMemoryAPIKeyStore creates an empty store.
func NewMemoryAPIKeyStore() *MemoryAPIKeyStore {
	return &MemoryAPIKeyStore{keys: make(map[string]string)}
}

// Add registers a raw key for principal.
func (s *MemoryAPIKeyStore) Add(principal, key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty api key for %q", ErrInvalidCredentials, principal)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[HashAPIKey(key)] = principal
	return nil
}

// Remove unregisters a raw key.
func (s *MemoryAPIKeyStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, HashAPIKey(key))
}

// Len returns the number of registered keys.
func (s *MemoryAPIKeyStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

func (s *MemoryAPIKeyStore) Lookup(_ context.Context, keyHash string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.keys[keyHash]
	return p, ok, nil
}

// APIKeyAuthenticator validates the X-API-Key header against a store.
type APIKeyAuthenticator struct {
	store APIKeyStore
}

// NewAPIKeyAuthenticator creates an authenticator backed by store.
func NewAPIKeyAuthenticator(store APIKeyStore) *APIKeyAuthenticator {
	return &APIKeyAuthenticator{store: store}
}

func (a *APIKeyAuthenticator) Name() string { return string(MethodAPIKey) }

func (a *APIKeyAuthenticator) Supports(header http.Header) bool {
	return header.Get(APIKeyHeader) != ""
}

func (a *APIKeyAuthenticator) Authenticate(ctx context.Context, header http.Header) (*Identity, error) {
	key := strings.TrimSpace(header.Get(APIKeyHeader))
	if key == "" {
		return nil, ErrMissingCredentials
	}

	principal, ok, err := a.store.Lookup(ctx, HashAPIKey(key))
	if err != nil {
		return nil, fmt.Errorf("api key lookup: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return &Identity{
		Principal: principal,
		Method:    MethodAPIKey,
		Claims:    map[string]any{},
	}, nil
}

var (
	_ Authenticator = (*APIKeyAuthenticator)(nil)
	_ APIKeyStore   = (*MemoryAPIKeyStore)(nil)
)

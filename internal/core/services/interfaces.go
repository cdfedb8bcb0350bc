package services

import (
	"context"
	"time"

	"qube-panel/internal/core/domain"
)

// CredentialStore persists the upstream bearer token of a panel session in a
// durable key-value slot so a credential survives process restarts.
type CredentialStore interface {
	// Get returns the stored token for the session, or domain.ErrNoCredential.
	Get(ctx context.Context, sessionID string) (string, error)
	// Set stores the token under the session for the given lifetime.
	Set(ctx context.Context, sessionID, token string, ttl time.Duration) error
	// Delete removes the stored token. Deleting an absent slot is not an error.
	Delete(ctx context.Context, sessionID string) error
}

// IdentityResolver resolves a bearer token into the identity behind it.
// A rejected or expired token returns domain.ErrCredentialRejected.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (*domain.Identity, error)
}

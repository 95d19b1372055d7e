// Package domain defines the core domain models and types for credential storage.
// Each account stores one domain/username/password triple for exactly one tenant,
// with the password protected by client-side envelope encryption: the server only
// ever holds the ciphertext, the wrapped symmetric key, and the initialization
// vector, none of which it can open.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account represents one stored credential record.
type Account struct {
	// ID is the unique identifier assigned at creation. It never changes.
	ID uuid.UUID
	// TenantKey is the partition key derived from the caller's verified identity.
	// It is set at creation and never changes; every storage operation is scoped by it.
	TenantKey string
	// DomainName is the human-readable domain name ("www.example.com"). Storage
	// keeps the reversed form; the repository converts at the boundary.
	DomainName string
	// Username is the plaintext account username.
	Username string
	// Password is the base64-encoded ciphertext of the secret.
	Password string
	// Key is the base64-encoded symmetric key, wrapped under the tenant's public key.
	Key string
	// IV is the base64-encoded initialization vector used during encryption.
	IV string
	// CreatedAt is the UTC timestamp when the record was created. Immutable.
	CreatedAt time.Time
	// ModifiedAt is updated whenever the username or password changes.
	ModifiedAt time.Time
	// AccessedAt is updated on every successful read or list match.
	AccessedAt time.Time
}

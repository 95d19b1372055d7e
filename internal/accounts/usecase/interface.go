// Package usecase defines the interfaces and implementations for account
// management use cases. Use cases orchestrate repositories and transactions to
// implement tenant-scoped storage of encrypted credentials with read-tracking
// access timestamps.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	accountsDomain "github.com/durfee/passwords/internal/accounts/domain"
)

// AccountRepository defines the interface for account persistence operations.
// Every operation is scoped to a tenant key; rows belonging to other tenants
// behave as if they do not exist.
type AccountRepository interface {
	Create(ctx context.Context, account *accountsDomain.Account) error
	GetForUpdate(ctx context.Context, tenantKey string, id uuid.UUID) (*accountsDomain.Account, error)
	StampAccessed(ctx context.Context, tenantKey string, id uuid.UUID, at time.Time) error
	UpdateUsername(ctx context.Context, tenantKey string, id uuid.UUID, username string, at time.Time) error
	UpdatePassword(
		ctx context.Context,
		tenantKey string,
		id uuid.UUID,
		password, wrappedKey, iv string,
		at time.Time,
	) error
	Delete(ctx context.Context, tenantKey string, id uuid.UUID) error
	List(
		ctx context.Context,
		tenantKey string,
		opts *accountsDomain.ListOptions,
	) ([]*accountsDomain.Account, error)
	StampAccessedMatching(
		ctx context.Context,
		tenantKey string,
		opts *accountsDomain.ListOptions,
		at time.Time,
	) error
}

// AccountUseCase defines the interface for account management business logic.
// Reads count as access: Get, List, SetUsername, and SetPassword all advance
// the accessed-at timestamp of the accounts they touch.
type AccountUseCase interface {
	Create(
		ctx context.Context,
		tenantKey, domainName, username, password, wrappedKey, iv string,
	) (*accountsDomain.Account, error)
	Get(ctx context.Context, tenantKey, accountID string) (*accountsDomain.Account, error)
	List(
		ctx context.Context,
		tenantKey string,
		opts *accountsDomain.ListOptions,
	) ([]*accountsDomain.Account, error)
	SetPassword(
		ctx context.Context,
		tenantKey, accountID, password, wrappedKey, iv string,
	) (*accountsDomain.Account, error)
	SetUsername(ctx context.Context, tenantKey, accountID, username string) (*accountsDomain.Account, error)
	Delete(ctx context.Context, tenantKey, accountID string) error
}

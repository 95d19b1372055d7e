package usecase

import (
	"context"
	"time"

	accountsDomain "github.com/durfee/passwords/internal/accounts/domain"
	"github.com/durfee/passwords/internal/metrics"
)

// accountUseCaseWithMetrics decorates AccountUseCase with metrics instrumentation.
type accountUseCaseWithMetrics struct {
	next    AccountUseCase
	metrics metrics.BusinessMetrics
}

// NewAccountUseCaseWithMetrics wraps an AccountUseCase with metrics recording.
func NewAccountUseCaseWithMetrics(useCase AccountUseCase, m metrics.BusinessMetrics) AccountUseCase {
	return &accountUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits the operation counter and duration for one completed call.
func (a *accountUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "accounts", operation, status)
	a.metrics.RecordDuration(ctx, "accounts", operation, time.Since(start), status)
}

// Create records metrics for account creation operations.
func (a *accountUseCaseWithMetrics) Create(
	ctx context.Context,
	tenantKey, domainName, username, password, wrappedKey, iv string,
) (*accountsDomain.Account, error) {
	start := time.Now()
	account, err := a.next.Create(ctx, tenantKey, domainName, username, password, wrappedKey, iv)
	a.record(ctx, "account_create", start, err)
	return account, err
}

// Get records metrics for account retrieval operations.
func (a *accountUseCaseWithMetrics) Get(
	ctx context.Context,
	tenantKey, accountID string,
) (*accountsDomain.Account, error) {
	start := time.Now()
	account, err := a.next.Get(ctx, tenantKey, accountID)
	a.record(ctx, "account_get", start, err)
	return account, err
}

// List records metrics for account listing operations.
func (a *accountUseCaseWithMetrics) List(
	ctx context.Context,
	tenantKey string,
	opts *accountsDomain.ListOptions,
) ([]*accountsDomain.Account, error) {
	start := time.Now()
	accounts, err := a.next.List(ctx, tenantKey, opts)
	a.record(ctx, "account_list", start, err)
	return accounts, err
}

// SetPassword records metrics for password replacement operations.
func (a *accountUseCaseWithMetrics) SetPassword(
	ctx context.Context,
	tenantKey, accountID, password, wrappedKey, iv string,
) (*accountsDomain.Account, error) {
	start := time.Now()
	account, err := a.next.SetPassword(ctx, tenantKey, accountID, password, wrappedKey, iv)
	a.record(ctx, "account_set_password", start, err)
	return account, err
}

// SetUsername records metrics for username replacement operations.
func (a *accountUseCaseWithMetrics) SetUsername(
	ctx context.Context,
	tenantKey, accountID, username string,
) (*accountsDomain.Account, error) {
	start := time.Now()
	account, err := a.next.SetUsername(ctx, tenantKey, accountID, username)
	a.record(ctx, "account_set_username", start, err)
	return account, err
}

// Delete records metrics for account deletion operations.
func (a *accountUseCaseWithMetrics) Delete(ctx context.Context, tenantKey, accountID string) error {
	start := time.Now()
	err := a.next.Delete(ctx, tenantKey, accountID)
	a.record(ctx, "account_delete", start, err)
	return err
}

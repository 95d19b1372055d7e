package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	accountsDomain "github.com/durfee/passwords/internal/accounts/domain"
	"github.com/durfee/passwords/internal/database"
)

// accountUseCase implements the AccountUseCase interface for managing accounts.
type accountUseCase struct {
	txManager   database.TxManager
	accountRepo AccountRepository
	logger      *slog.Logger
}

// NewAccountUseCase creates an AccountUseCase backed by the given repository.
func NewAccountUseCase(
	txManager database.TxManager,
	accountRepo AccountRepository,
	logger *slog.Logger,
) AccountUseCase {
	return &accountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// parseAccountID parses a caller-supplied account id string.
func parseAccountID(accountID string) (uuid.UUID, error) {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return uuid.Nil, accountsDomain.ErrMalformedAccountID
	}
	return id, nil
}

// Create stores a new account. The password, wrapped key, and iv arrive
// already encrypted; this layer never sees plaintext credentials.
func (a *accountUseCase) Create(
	ctx context.Context,
	tenantKey, domainName, username, password, wrappedKey, iv string,
) (*accountsDomain.Account, error) {
	now := time.Now().UTC()
	account := &accountsDomain.Account{
		ID:         uuid.Must(uuid.NewV7()),
		TenantKey:  tenantKey,
		DomainName: domainName,
		Username:   username,
		Password:   password,
		Key:        wrappedKey,
		IV:         iv,
		CreatedAt:  now,
		ModifiedAt: now,
		AccessedAt: now,
	}

	if err := a.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// Get retrieves an account and stamps its access time. The read and the stamp
// run in one transaction so the returned snapshot is exactly the state the
// stamp was applied to.
func (a *accountUseCase) Get(
	ctx context.Context,
	tenantKey, accountID string,
) (*accountsDomain.Account, error) {
	id, err := parseAccountID(accountID)
	if err != nil {
		return nil, err
	}

	var account *accountsDomain.Account
	err = a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		var txErr error
		account, txErr = a.accountRepo.GetForUpdate(txCtx, tenantKey, id)
		if txErr != nil {
			return txErr
		}

		now := time.Now().UTC()
		if txErr := a.accountRepo.StampAccessed(txCtx, tenantKey, id, now); txErr != nil {
			return txErr
		}
		account.AccessedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// List retrieves matching accounts, then stamps their access times in bulk.
// The snapshot read and the stamp are deliberately separate statements: a
// concurrent writer may slip between them, and a stamp failure is logged
// rather than failing a successful read.
func (a *accountUseCase) List(
	ctx context.Context,
	tenantKey string,
	opts *accountsDomain.ListOptions,
) ([]*accountsDomain.Account, error) {
	accounts, err := a.accountRepo.List(ctx, tenantKey, opts)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := a.accountRepo.StampAccessedMatching(ctx, tenantKey, opts, now); err != nil {
		a.logger.Warn("failed to stamp access time for listed accounts",
			slog.Any("error", err),
		)
		return accounts, nil
	}

	for _, account := range accounts {
		account.AccessedAt = now
	}
	return accounts, nil
}

// SetPassword replaces an account's password ciphertext together with its
// wrapped key and iv, atomically with the read that returns the new state.
func (a *accountUseCase) SetPassword(
	ctx context.Context,
	tenantKey, accountID, password, wrappedKey, iv string,
) (*accountsDomain.Account, error) {
	id, err := parseAccountID(accountID)
	if err != nil {
		return nil, err
	}

	var account *accountsDomain.Account
	err = a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		var txErr error
		account, txErr = a.accountRepo.GetForUpdate(txCtx, tenantKey, id)
		if txErr != nil {
			return txErr
		}

		now := time.Now().UTC()
		if txErr := a.accountRepo.UpdatePassword(txCtx, tenantKey, id, password, wrappedKey, iv, now); txErr != nil {
			return txErr
		}

		account.Password = password
		account.Key = wrappedKey
		account.IV = iv
		account.ModifiedAt = now
		account.AccessedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// SetUsername replaces an account's username atomically with the read that
// returns the new state.
func (a *accountUseCase) SetUsername(
	ctx context.Context,
	tenantKey, accountID, username string,
) (*accountsDomain.Account, error) {
	id, err := parseAccountID(accountID)
	if err != nil {
		return nil, err
	}

	var account *accountsDomain.Account
	err = a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		var txErr error
		account, txErr = a.accountRepo.GetForUpdate(txCtx, tenantKey, id)
		if txErr != nil {
			return txErr
		}

		now := time.Now().UTC()
		if txErr := a.accountRepo.UpdateUsername(txCtx, tenantKey, id, username, now); txErr != nil {
			return txErr
		}

		account.Username = username
		account.ModifiedAt = now
		account.AccessedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// Delete removes an account within the tenant scope.
func (a *accountUseCase) Delete(ctx context.Context, tenantKey, accountID string) error {
	id, err := parseAccountID(accountID)
	if err != nil {
		return err
	}

	return a.accountRepo.Delete(ctx, tenantKey, id)
}

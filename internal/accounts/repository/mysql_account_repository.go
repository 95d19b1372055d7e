package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	accountsDomain "github.com/durfee/passwords/internal/accounts/domain"
	"github.com/durfee/passwords/internal/database"
	apperrors "github.com/durfee/passwords/internal/errors"
)

// MySQLAccountRepository implements account persistence for MySQL.
// Account ids are stored as CHAR(36) in their canonical string form.
type MySQLAccountRepository struct {
	db *sql.DB
}

// NewMySQLAccountRepository creates a new MySQL account repository instance.
func NewMySQLAccountRepository(db *sql.DB) *MySQLAccountRepository {
	return &MySQLAccountRepository{db: db}
}

// Create inserts a new account. The domain name is stored in reversed form.
func (m *MySQLAccountRepository) Create(ctx context.Context, account *accountsDomain.Account) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO accounts (id, tenant_key, domain_name, username, password, wrapped_key, iv,
			  created_at, modified_at, accessed_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		account.ID,
		account.TenantKey,
		accountsDomain.ReverseDomainName(account.DomainName),
		account.Username,
		account.Password,
		account.Key,
		account.IV,
		account.CreatedAt,
		account.ModifiedAt,
		account.AccessedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create account")
	}
	return nil
}

// GetForUpdate retrieves an account by id within the caller's tenant scope,
// locking the row when called inside a transaction so the subsequent stamp or
// field update is atomic with the read.
func (m *MySQLAccountRepository) GetForUpdate(
	ctx context.Context,
	tenantKey string,
	id uuid.UUID,
) (*accountsDomain.Account, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE id = ? AND tenant_key = ?
			  FOR UPDATE`

	account, err := scanAccount(querier.QueryRowContext(ctx, query, id, tenantKey))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, accountsDomain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account")
	}

	return account, nil
}

// StampAccessed updates accessed_at for a single account.
func (m *MySQLAccountRepository) StampAccessed(
	ctx context.Context,
	tenantKey string,
	id uuid.UUID,
	at time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE accounts SET accessed_at = ? WHERE id = ? AND tenant_key = ?`

	result, err := querier.ExecContext(ctx, query, at, id, tenantKey)
	if err != nil {
		return apperrors.Wrap(err, "failed to stamp account access time")
	}
	return requireRowAffected(result)
}

// UpdateUsername sets a new username and re-stamps modified_at and accessed_at.
func (m *MySQLAccountRepository) UpdateUsername(
	ctx context.Context,
	tenantKey string,
	id uuid.UUID,
	username string,
	at time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE accounts
			  SET username = ?, modified_at = ?, accessed_at = ?
			  WHERE id = ? AND tenant_key = ?`

	result, err := querier.ExecContext(ctx, query, username, at, at, id, tenantKey)
	if err != nil {
		return apperrors.Wrap(err, "failed to update account username")
	}
	return requireRowAffected(result)
}

// UpdatePassword sets a new ciphertext, wrapped key, and iv, and re-stamps
// modified_at and accessed_at.
func (m *MySQLAccountRepository) UpdatePassword(
	ctx context.Context,
	tenantKey string,
	id uuid.UUID,
	password, wrappedKey, iv string,
	at time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE accounts
			  SET password = ?, wrapped_key = ?, iv = ?, modified_at = ?, accessed_at = ?
			  WHERE id = ? AND tenant_key = ?`

	result, err := querier.ExecContext(ctx, query, password, wrappedKey, iv, at, at, id, tenantKey)
	if err != nil {
		return apperrors.Wrap(err, "failed to update account password")
	}
	return requireRowAffected(result)
}

// Delete removes an account scoped by id and tenant.
func (m *MySQLAccountRepository) Delete(ctx context.Context, tenantKey string, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM accounts WHERE id = ? AND tenant_key = ?`

	result, err := querier.ExecContext(ctx, query, id, tenantKey)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete account")
	}
	return requireRowAffected(result)
}

// List retrieves all accounts matching the options within the tenant scope,
// sorted per the options' sort spec.
func (m *MySQLAccountRepository) List(
	ctx context.Context,
	tenantKey string,
	opts *accountsDomain.ListOptions,
) ([]*accountsDomain.Account, error) {
	querier := database.GetTx(ctx, m.db)

	where, args := renderWhere(mysqlPlaceholders, 0, buildConditions(tenantKey, opts))
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + where + ` ` + orderByClause(opts)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list accounts")
	}
	defer rows.Close()

	var accounts []*accountsDomain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan account")
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list accounts")
	}

	return accounts, nil
}

// StampAccessedMatching bulk-updates accessed_at for every account matching
// the options within the tenant scope. Callers run this after the snapshot
// read; the two steps are deliberately not atomic.
func (m *MySQLAccountRepository) StampAccessedMatching(
	ctx context.Context,
	tenantKey string,
	opts *accountsDomain.ListOptions,
	at time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	where, args := renderWhere(mysqlPlaceholders, 1, buildConditions(tenantKey, opts))
	query := `UPDATE accounts SET accessed_at = ? WHERE ` + where

	if _, err := querier.ExecContext(ctx, query, append([]any{at}, args...)...); err != nil {
		return apperrors.Wrap(err, "failed to stamp matching accounts")
	}
	return nil
}

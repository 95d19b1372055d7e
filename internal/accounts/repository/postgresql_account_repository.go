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

// accountColumns is the select list shared by every read in this file.
const accountColumns = `id, tenant_key, domain_name, username, password, wrapped_key, iv,
	created_at, modified_at, accessed_at`

// PostgreSQLAccountRepository implements account persistence for PostgreSQL.
type PostgreSQLAccountRepository struct {
	db *sql.DB
}

// NewPostgreSQLAccountRepository creates a new PostgreSQL account repository instance.
func NewPostgreSQLAccountRepository(db *sql.DB) *PostgreSQLAccountRepository {
	return &PostgreSQLAccountRepository{db: db}
}

// Create inserts a new account. The domain name is stored in reversed form.
func (p *PostgreSQLAccountRepository) Create(ctx context.Context, account *accountsDomain.Account) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO accounts (id, tenant_key, domain_name, username, password, wrapped_key, iv,
			  created_at, modified_at, accessed_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

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
func (p *PostgreSQLAccountRepository) GetForUpdate(
	ctx context.Context,
	tenantKey string,
	id uuid.UUID,
) (*accountsDomain.Account, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE id = $1 AND tenant_key = $2
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
func (p *PostgreSQLAccountRepository) StampAccessed(
	ctx context.Context,
	tenantKey string,
	id uuid.UUID,
	at time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE accounts SET accessed_at = $1 WHERE id = $2 AND tenant_key = $3`

	result, err := querier.ExecContext(ctx, query, at, id, tenantKey)
	if err != nil {
		return apperrors.Wrap(err, "failed to stamp account access time")
	}
	return requireRowAffected(result)
}

// UpdateUsername sets a new username and re-stamps modified_at and accessed_at.
func (p *PostgreSQLAccountRepository) UpdateUsername(
	ctx context.Context,
	tenantKey string,
	id uuid.UUID,
	username string,
	at time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE accounts
			  SET username = $1, modified_at = $2, accessed_at = $2
			  WHERE id = $3 AND tenant_key = $4`

	result, err := querier.ExecContext(ctx, query, username, at, id, tenantKey)
	if err != nil {
		return apperrors.Wrap(err, "failed to update account username")
	}
	return requireRowAffected(result)
}

// UpdatePassword sets a new ciphertext, wrapped key, and iv, and re-stamps
// modified_at and accessed_at.
func (p *PostgreSQLAccountRepository) UpdatePassword(
	ctx context.Context,
	tenantKey string,
	id uuid.UUID,
	password, wrappedKey, iv string,
	at time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE accounts
			  SET password = $1, wrapped_key = $2, iv = $3, modified_at = $4, accessed_at = $4
			  WHERE id = $5 AND tenant_key = $6`

	result, err := querier.ExecContext(ctx, query, password, wrappedKey, iv, at, id, tenantKey)
	if err != nil {
		return apperrors.Wrap(err, "failed to update account password")
	}
	return requireRowAffected(result)
}

// Delete removes an account scoped by id and tenant.
func (p *PostgreSQLAccountRepository) Delete(ctx context.Context, tenantKey string, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM accounts WHERE id = $1 AND tenant_key = $2`

	result, err := querier.ExecContext(ctx, query, id, tenantKey)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete account")
	}
	return requireRowAffected(result)
}

// List retrieves all accounts matching the options within the tenant scope,
// sorted per the options' sort spec.
func (p *PostgreSQLAccountRepository) List(
	ctx context.Context,
	tenantKey string,
	opts *accountsDomain.ListOptions,
) ([]*accountsDomain.Account, error) {
	querier := database.GetTx(ctx, p.db)

	where, args := renderWhere(postgresPlaceholders, 0, buildConditions(tenantKey, opts))
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
func (p *PostgreSQLAccountRepository) StampAccessedMatching(
	ctx context.Context,
	tenantKey string,
	opts *accountsDomain.ListOptions,
	at time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	where, args := renderWhere(postgresPlaceholders, 1, buildConditions(tenantKey, opts))
	query := `UPDATE accounts SET accessed_at = $1 WHERE ` + where

	if _, err := querier.ExecContext(ctx, query, append([]any{at}, args...)...); err != nil {
		return apperrors.Wrap(err, "failed to stamp matching accounts")
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanAccount.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanAccount reads one account row, decoding the stored reversed domain name
// back to its human-readable form.
func scanAccount(row rowScanner) (*accountsDomain.Account, error) {
	var account accountsDomain.Account
	err := row.Scan(
		&account.ID,
		&account.TenantKey,
		&account.DomainName,
		&account.Username,
		&account.Password,
		&account.Key,
		&account.IV,
		&account.CreatedAt,
		&account.ModifiedAt,
		&account.AccessedAt,
	)
	if err != nil {
		return nil, err
	}

	account.DomainName = accountsDomain.ReverseDomainName(account.DomainName)
	return &account, nil
}

// requireRowAffected converts a zero-row update or delete into not-found.
func requireRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return accountsDomain.ErrAccountNotFound
	}
	return nil
}

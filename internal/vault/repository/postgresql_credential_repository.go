// Package repository implements persistence of vault credentials for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/filevault/internal/database"
	apperrors "github.com/allisson/filevault/internal/errors"
	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
)

// PostgreSQLCredentialRepository implements Credentials persistence for PostgreSQL databases.
type PostgreSQLCredentialRepository struct {
	db *sql.DB
}

// Get retrieves the credentials of an account.
func (p *PostgreSQLCredentialRepository) Get(
	ctx context.Context,
	accountID string,
) (*vaultDomain.Credentials, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT account_id, salt, verification_hash, hash_sealed, kdf_iterations, encryption_enabled, created_at, updated_at
			  FROM vault_credentials
			  WHERE account_id = $1`

	var creds vaultDomain.Credentials
	err := querier.QueryRowContext(ctx, query, accountID).Scan(
		&creds.AccountID,
		&creds.Salt,
		&creds.VerificationHash,
		&creds.HashSealed,
		&creds.KDFIterations,
		&creds.EncryptionEnabled,
		&creds.CreatedAt,
		&creds.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrCredentialsNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credentials")
	}

	return &creds, nil
}

// Create inserts the credentials of a newly set up account.
func (p *PostgreSQLCredentialRepository) Create(ctx context.Context, creds *vaultDomain.Credentials) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO vault_credentials (account_id, salt, verification_hash, hash_sealed, kdf_iterations, encryption_enabled, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		creds.AccountID,
		creds.Salt,
		creds.VerificationHash,
		creds.HashSealed,
		creds.KDFIterations,
		creds.EncryptionEnabled,
		creds.CreatedAt,
		creds.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create credentials")
	}
	return nil
}

// UpdateEncryptionEnabled stores the encryption flag of an account.
func (p *PostgreSQLCredentialRepository) UpdateEncryptionEnabled(
	ctx context.Context,
	accountID string,
	enabled bool,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE vault_credentials SET encryption_enabled = $1, updated_at = NOW() WHERE account_id = $2`

	result, err := querier.ExecContext(ctx, query, enabled, accountID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update encryption flag")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return vaultDomain.ErrCredentialsNotFound
	}
	return nil
}

// NewPostgreSQLCredentialRepository creates a new PostgreSQL credential repository.
func NewPostgreSQLCredentialRepository(db *sql.DB) *PostgreSQLCredentialRepository {
	return &PostgreSQLCredentialRepository{db: db}
}

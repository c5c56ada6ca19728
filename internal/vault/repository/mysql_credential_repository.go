package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/filevault/internal/database"
	apperrors "github.com/allisson/filevault/internal/errors"
	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
)

// MySQLCredentialRepository implements Credentials persistence for MySQL databases.
type MySQLCredentialRepository struct {
	db *sql.DB
}

// Get retrieves the credentials of an account.
func (p *MySQLCredentialRepository) Get(
	ctx context.Context,
	accountID string,
) (*vaultDomain.Credentials, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT account_id, salt, verification_hash, hash_sealed, kdf_iterations, encryption_enabled, created_at, updated_at
			  FROM vault_credentials
			  WHERE account_id = ?`

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
func (p *MySQLCredentialRepository) Create(ctx context.Context, creds *vaultDomain.Credentials) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO vault_credentials (account_id, salt, verification_hash, hash_sealed, kdf_iterations, encryption_enabled, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

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
func (p *MySQLCredentialRepository) UpdateEncryptionEnabled(
	ctx context.Context,
	accountID string,
	enabled bool,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE vault_credentials SET encryption_enabled = ?, updated_at = CURRENT_TIMESTAMP(6) WHERE account_id = ?`

	result, err := querier.ExecContext(ctx, query, enabled, accountID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update encryption flag")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows > 0 {
		return nil
	}

	// MySQL counts changed rows, not matched ones, unless clientFoundRows is set.
	var exists int
	err = querier.QueryRowContext(ctx, `SELECT 1 FROM vault_credentials WHERE account_id = ?`, accountID).
		Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return vaultDomain.ErrCredentialsNotFound
		}
		return apperrors.Wrap(err, "failed to check credentials")
	}
	return nil
}

// NewMySQLCredentialRepository creates a new MySQL credential repository.
func NewMySQLCredentialRepository(db *sql.DB) *MySQLCredentialRepository {
	return &MySQLCredentialRepository{db: db}
}

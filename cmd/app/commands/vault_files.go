package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
	vaultUsecase "github.com/allisson/filevault/internal/vault/usecase"
)

// unlockVault opens a one-shot session and returns the function that locks it again.
func unlockVault(
	ctx context.Context,
	vault vaultUsecase.VaultUseCase,
	logger *slog.Logger,
	accountID, password string,
) (func(), error) {
	unlocked, err := vault.Unlock(ctx, accountID, password)
	if err != nil {
		return nil, fmt.Errorf("failed to unlock vault: %w", err)
	}
	if !unlocked {
		return nil, vaultDomain.ErrInvalidPassword
	}

	return func() {
		if err := vault.Lock(context.Background(), accountID); err != nil {
			logger.Error("failed to lock vault", slog.String("account_id", accountID), slog.Any("error", err))
		}
	}, nil
}

// RunEncryptFile encrypts the file at inputPath under accountID's vault and stores it
// in the object store. The object ID and plaintext checksum are printed.
func RunEncryptFile(
	ctx context.Context,
	vault vaultUsecase.VaultUseCase,
	files vaultUsecase.FileUseCase,
	logger *slog.Logger,
	writer io.Writer,
	accountID, password, inputPath, format string,
) error {
	plaintext, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inputPath, err)
	}
	defer cryptoDomain.Zero(plaintext)

	lock, err := unlockVault(ctx, vault, logger, accountID, password)
	if err != nil {
		return err
	}
	defer lock()

	stored, err := files.Store(ctx, accountID, plaintext)
	if err != nil {
		return fmt.Errorf("failed to store encrypted file: %w", err)
	}

	logger.Info("file encrypted",
		slog.String("account_id", accountID),
		slog.String("object_id", stored.ObjectID),
		slog.Int64("size", stored.Size))

	if format == "json" {
		return json.NewEncoder(writer).Encode(map[string]any{
			"object_id": stored.ObjectID,
			"checksum":  stored.Checksum,
			"size":      stored.Size,
			"algorithm": stored.Metadata.Algorithm,
		})
	}

	_, _ = fmt.Fprintf(writer, "object_id: %s\n", stored.ObjectID)
	_, _ = fmt.Fprintf(writer, "checksum:  %s\n", stored.Checksum)
	_, _ = fmt.Fprintf(writer, "algorithm: %s\n", stored.Metadata.Algorithm)
	return nil
}

// RunDecryptFile loads objectID from accountID's vault, verifies its checksum and
// writes the plaintext to outputPath with owner-only permissions. "-" writes to writer.
func RunDecryptFile(
	ctx context.Context,
	vault vaultUsecase.VaultUseCase,
	files vaultUsecase.FileUseCase,
	logger *slog.Logger,
	writer io.Writer,
	accountID, password, objectID, outputPath string,
) error {
	lock, err := unlockVault(ctx, vault, logger, accountID, password)
	if err != nil {
		return err
	}
	defer lock()

	plaintext, err := files.Load(ctx, accountID, objectID)
	if err != nil {
		return fmt.Errorf("failed to load file %s: %w", objectID, err)
	}
	defer cryptoDomain.Zero(plaintext)

	if outputPath == "-" {
		_, err = writer.Write(plaintext)
		return err
	}

	if err := os.WriteFile(outputPath, plaintext, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	logger.Info("file decrypted",
		slog.String("account_id", accountID),
		slog.String("object_id", objectID))
	return nil
}

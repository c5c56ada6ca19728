package app

import (
	"context"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	keyExchangeHTTP "github.com/allisson/filevault/internal/keyexchange/http"
	keyExchangeUsecase "github.com/allisson/filevault/internal/keyexchange/usecase"
	"github.com/allisson/filevault/internal/metrics"
	"github.com/allisson/filevault/internal/storage"
	vaultHTTP "github.com/allisson/filevault/internal/vault/http"
	vaultRepository "github.com/allisson/filevault/internal/vault/repository"
	vaultUsecase "github.com/allisson/filevault/internal/vault/usecase"
)

// CredentialRepository returns the credential repository for the configured database driver.
func (c *Container) CredentialRepository() (vaultUsecase.CredentialRepository, error) {
	var err error
	c.credentialRepositoryInit.Do(func() {
		c.credentialRepository, err = c.initCredentialRepository()
		if err != nil {
			c.initErrors["credentialRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialRepository"]; exists {
		return nil, storedErr
	}
	return c.credentialRepository, nil
}

// BlobStore returns the encrypted object store opened from STORAGE_BUCKET_URL.
func (c *Container) BlobStore() (*storage.BlobStore, error) {
	var err error
	c.blobStoreInit.Do(func() {
		c.blobStore, err = c.initBlobStore()
		if err != nil {
			c.initErrors["blobStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["blobStore"]; exists {
		return nil, storedErr
	}
	return c.blobStore, nil
}

// VaultUseCase returns the session manager, wrapped with metrics.
func (c *Container) VaultUseCase() (vaultUsecase.VaultUseCase, error) {
	var err error
	c.vaultUseCaseInit.Do(func() {
		c.vaultUseCase, err = c.initVaultUseCase()
		if err != nil {
			c.initErrors["vaultUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultUseCase"]; exists {
		return nil, storedErr
	}
	return c.vaultUseCase, nil
}

// FileUseCase returns the stored file use case.
func (c *Container) FileUseCase() (vaultUsecase.FileUseCase, error) {
	var err error
	c.fileUseCaseInit.Do(func() {
		c.fileUseCase, err = c.initFileUseCase()
		if err != nil {
			c.initErrors["fileUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fileUseCase"]; exists {
		return nil, storedErr
	}
	return c.fileUseCase, nil
}

// KeyExchangeUseCase returns the RSA key exchange use case.
func (c *Container) KeyExchangeUseCase() keyExchangeUsecase.KeyExchangeUseCase {
	c.keyExchangeUseCaseInit.Do(func() {
		c.keyExchangeUseCase = c.initKeyExchangeUseCase()
	})
	return c.keyExchangeUseCase
}

// VaultHandler returns the vault HTTP handler.
func (c *Container) VaultHandler() (*vaultHTTP.VaultHandler, error) {
	var err error
	c.vaultHandlerInit.Do(func() {
		c.vaultHandler, err = c.initVaultHandler()
		if err != nil {
			c.initErrors["vaultHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultHandler"]; exists {
		return nil, storedErr
	}
	return c.vaultHandler, nil
}

// KeyExchangeHandler returns the key exchange HTTP handler.
func (c *Container) KeyExchangeHandler() *keyExchangeHTTP.KeyExchangeHandler {
	c.keyExchangeHandlerInit.Do(func() {
		c.keyExchangeHandler = keyExchangeHTTP.NewKeyExchangeHandler(c.KeyExchangeUseCase(), c.Logger())
	})
	return c.keyExchangeHandler
}

func (c *Container) initCredentialRepository() (vaultUsecase.CredentialRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for credential repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return vaultRepository.NewPostgreSQLCredentialRepository(db), nil
	case "mysql":
		return vaultRepository.NewMySQLCredentialRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initBlobStore() (*storage.BlobStore, error) {
	store, err := storage.OpenBlobStore(context.Background(), c.config.StorageBucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}
	return store, nil
}

func (c *Container) initVaultUseCase() (vaultUsecase.VaultUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for vault use case: %w", err)
	}

	repository, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for vault use case: %w", err)
	}

	keyDeriver, err := c.KeyDeriver()
	if err != nil {
		return nil, fmt.Errorf("failed to get key deriver for vault use case: %w", err)
	}

	keeper, err := c.CredentialsKeeper()
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials keeper for vault use case: %w", err)
	}

	algorithm, err := cryptoDomain.ParseAlgorithm(c.config.VaultCipherAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid VAULT_CIPHER_ALGORITHM %q: %w", c.config.VaultCipherAlgorithm, err)
	}

	manager := vaultUsecase.NewManager(&vaultUsecase.SessionConfig{
		Repository:    repository,
		TxManager:     txManager,
		KeyDeriver:    keyDeriver,
		CipherManager: c.CipherManager(),
		Keeper:        keeper,
		Algorithm:     algorithm,
		IdleTimeout:   c.config.VaultIdleTimeout,
		Logger:        c.Logger(),
	}, c.config.VaultWorkers)

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for vault use case: %w", err)
	}
	if provider != nil {
		if err := metrics.RegisterSessionGauge(provider.MeterProvider(), provider.Namespace(), manager); err != nil {
			return nil, err
		}
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for vault use case: %w", err)
	}
	return vaultUsecase.NewVaultUseCaseWithMetrics(manager, businessMetrics), nil
}

func (c *Container) initFileUseCase() (vaultUsecase.FileUseCase, error) {
	vault, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for file use case: %w", err)
	}

	store, err := c.BlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get blob store for file use case: %w", err)
	}

	baseUseCase := vaultUsecase.NewFileUseCase(vault, store, c.Logger())

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for file use case: %w", err)
	}
	return vaultUsecase.NewFileUseCaseWithMetrics(baseUseCase, businessMetrics), nil
}

func (c *Container) initKeyExchangeUseCase() keyExchangeUsecase.KeyExchangeUseCase {
	baseUseCase := keyExchangeUsecase.NewKeyExchangeUseCase(c.KeyExchange())

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		c.Logger().Warn("business metrics unavailable for key exchange", slog.Any("error", err))
		return baseUseCase
	}
	return keyExchangeUsecase.NewKeyExchangeUseCaseWithMetrics(baseUseCase, businessMetrics)
}

func (c *Container) initVaultHandler() (*vaultHTTP.VaultHandler, error) {
	vault, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for vault handler: %w", err)
	}

	files, err := c.FileUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get file use case for vault handler: %w", err)
	}

	return vaultHTTP.NewVaultHandler(vault, files, c.Logger()), nil
}

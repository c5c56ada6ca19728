package app

import (
	"context"
	"fmt"

	cryptoService "github.com/allisson/filevault/internal/crypto/service"
)

// KeyDeriver returns the PBKDF2 key deriver configured with VAULT_KDF_ITERATIONS.
func (c *Container) KeyDeriver() (cryptoService.KeyDeriver, error) {
	var err error
	c.keyDeriverInit.Do(func() {
		c.keyDeriver, err = c.initKeyDeriver()
		if err != nil {
			c.initErrors["keyDeriver"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyDeriver"]; exists {
		return nil, storedErr
	}
	return c.keyDeriver, nil
}

// CipherManager returns the cipher factory.
func (c *Container) CipherManager() cryptoService.CipherManager {
	c.cipherManagerInit.Do(func() {
		c.cipherManager = cryptoService.NewCipherManager()
	})
	return c.cipherManager
}

// KeyExchange returns the RSA-OAEP key exchange service.
func (c *Container) KeyExchange() cryptoService.KeyExchange {
	c.keyExchangeInit.Do(func() {
		c.keyExchange = cryptoService.NewRSAKeyExchange()
	})
	return c.keyExchange
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// TokenService returns the API bearer token service.
func (c *Container) TokenService() cryptoService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = cryptoService.NewTokenService()
	})
	return c.tokenService
}

// CredentialsKeeper returns the KMS keeper sealing verification hashes, or nil when
// CREDENTIALS_KMS_KEY_URI is empty.
func (c *Container) CredentialsKeeper() (cryptoService.Keeper, error) {
	var err error
	c.credentialsKeeperInit.Do(func() {
		c.credentialsKeeper, err = c.initCredentialsKeeper()
		if err != nil {
			c.initErrors["credentialsKeeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialsKeeper"]; exists {
		return nil, storedErr
	}
	return c.credentialsKeeper, nil
}

func (c *Container) initKeyDeriver() (cryptoService.KeyDeriver, error) {
	deriver, err := cryptoService.NewPBKDF2KeyDeriver(c.config.VaultKDFIterations)
	if err != nil {
		return nil, fmt.Errorf("failed to create key deriver: %w", err)
	}
	return deriver, nil
}

func (c *Container) initCredentialsKeeper() (cryptoService.Keeper, error) {
	if c.config.CredentialsKMSKeyURI == "" {
		return nil, nil
	}
	keeper, err := c.KMSService().OpenKeeper(context.Background(), c.config.CredentialsKMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open credentials keeper: %w", err)
	}
	return keeper, nil
}

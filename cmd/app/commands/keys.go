package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	cryptoService "github.com/allisson/filevault/internal/crypto/service"
	keyExchangeUsecase "github.com/allisson/filevault/internal/keyexchange/usecase"
)

// RunCreateKeyPair generates an RSA-2048 key pair for exchanging short secrets.
// Keys are printed as base64 SPKI (public) and PKCS#8 (private) DER.
func RunCreateKeyPair(
	ctx context.Context,
	keyExchange keyExchangeUsecase.KeyExchangeUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	keyPair, err := keyExchange.GenerateKeyPair(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate key pair: %w", err)
	}

	logger.Debug("key pair generated")

	if format == "json" {
		return json.NewEncoder(writer).Encode(map[string]string{
			"public_key":  keyPair.PublicKey,
			"private_key": keyPair.PrivateKey,
		})
	}

	_, _ = fmt.Fprintln(writer, "# RSA-OAEP key pair (SHA-256, 2048 bits)")
	_, _ = fmt.Fprintln(writer, "# Share the public key; keep the private key secret.")
	_, _ = fmt.Fprintf(writer, "PUBLIC_KEY=\"%s\"\n", keyPair.PublicKey)
	_, _ = fmt.Fprintf(writer, "PRIVATE_KEY=\"%s\"\n", keyPair.PrivateKey)
	return nil
}

// RunHashToken prints the Argon2id hash of an API bearer token for API_TOKEN_HASH.
// An empty token generates a random one, which is printed once.
func RunHashToken(
	tokenService cryptoService.TokenService,
	writer io.Writer,
	token string,
	format string,
) error {
	var (
		hashedToken string
		err         error
		generated   bool
	)

	if token == "" {
		token, hashedToken, err = tokenService.GenerateToken()
		generated = true
	} else {
		hashedToken, err = tokenService.HashToken(token)
	}
	if err != nil {
		return err
	}

	if format == "json" {
		out := map[string]string{"api_token_hash": hashedToken}
		if generated {
			out["api_token"] = token
		}
		return json.NewEncoder(writer).Encode(out)
	}

	if generated {
		_, _ = fmt.Fprintln(writer, "# Bearer token (shown once, give it to API clients)")
		_, _ = fmt.Fprintf(writer, "API_TOKEN=\"%s\"\n", token)
	}
	_, _ = fmt.Fprintln(writer, "# Server configuration")
	_, _ = fmt.Fprintf(writer, "API_TOKEN_HASH='%s'\n", hashedToken)
	return nil
}

// RunChecksum prints the SHA-256 checksum of path, or of reader when path is "-".
func RunChecksum(reader io.Reader, writer io.Writer, path string) error {
	source := reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		source = f
	}

	sum, err := cryptoService.ChecksumReader(source)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(writer, "%s  %s\n", sum, path)
	return nil
}

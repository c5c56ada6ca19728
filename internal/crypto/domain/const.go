package domain

// Algorithm identifies the symmetric cipher used to encrypt a file payload.
//
// The value is persisted in every EncryptionMetadata record, so it selects the
// cipher at decrypt time independently of the vault's current configuration.
//
// Supported algorithms:
//   - AESGCM: AES-256-GCM. Authenticated, so any tampering fails decryption. Default.
//   - AESCBC: AES-256-CBC with PKCS#7 padding. Unauthenticated; padding validation
//     is the only integrity signal.
type Algorithm string

const (
	// AESCBC is AES-256 in CBC mode with PKCS#7 padding and a random 16-byte IV.
	AESCBC Algorithm = "AES-CBC"

	// AESGCM is AES-256 in Galois/Counter Mode with a random 12-byte nonce.
	AESGCM Algorithm = "AES-GCM"
)

// KeyDerivationPBKDF2SHA256 names the key derivation recorded in file metadata.
const KeyDerivationPBKDF2SHA256 = "PBKDF2-SHA256"

const (
	// KeySize is the length of every symmetric key in bytes (AES-256).
	KeySize = 32

	// SaltSize is the length of a vault salt in bytes.
	SaltSize = 32

	// CBCIVSize is the AES block size used as the CBC initialization vector length.
	CBCIVSize = 16

	// MinKDFIterations is the floor for the encryption key derivation cost.
	MinKDFIterations = 100_000

	// DefaultKDFIterations is the PBKDF2 iteration count used to derive file keys.
	DefaultKDFIterations = 100_000

	// DefaultVerificationIterations is the PBKDF2 iteration count for the password
	// verification hash. Lower than the encryption cost because the hash only gates
	// unlock attempts and lives in its own salt domain.
	DefaultVerificationIterations = 10_000

	// RSAKeyBits is the modulus size for generated key pairs.
	RSAKeyBits = 2048
)

// ParseAlgorithm converts a configuration or metadata string into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESCBC:
		return AESCBC, nil
	case AESGCM:
		return AESGCM, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}

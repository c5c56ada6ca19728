package domain

// KeyPair is an RSA-OAEP key pair in interchange form.
//
// PublicKey is a base64 (standard encoding) SubjectPublicKeyInfo DER document and
// PrivateKey is a base64 PKCS#8 DER document. Key pairs are generated on demand and
// are not derived from, or protected by, the vault password.
type KeyPair struct {
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
}

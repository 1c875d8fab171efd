package keys

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// PrivateKey wraps a secp256k1 scalar and never leaves this process boundary -
// no export/import format is needed since nothing here persists to disk.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// GeneratePrivateKey draws a new random private key from crypto/rand via the
// secp256k1 package, retrying internally until the scalar is in range.
func GeneratePrivateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate private key: %w", err)
	}

	return &PrivateKey{key: key}, nil
}

// NewPrivateKeyFromBytes creates a private key from a 32-byte scalar.
func NewPrivateKeyFromBytes(data []byte) (*PrivateKey, error) {
	if len(data) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(data))
	}

	key := secp256k1.PrivKeyFromBytes(data)
	return &PrivateKey{key: key}, nil
}

// Bytes returns the private key as 32 bytes.
func (pk *PrivateKey) Bytes() []byte {
	return pk.key.Serialize()
}

// PublicKey derives the public key from the private key.
func (pk *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{
		key: pk.key.PubKey(),
	}
}

// Sign signs a 32-byte message digest, returning a DER-serializable signature.
func (pk *PrivateKey) Sign(hash []byte) (*Signature, error) {
	if len(hash) != 32 {
		return nil, fmt.Errorf("hash must be 32 bytes, got %d", len(hash))
	}

	sig := ecdsa.Sign(pk.key, hash)

	return &Signature{sig: sig}, nil
}

// String returns the hex representation. Debugging only - a real wallet would
// never print this.
func (pk *PrivateKey) String() string {
	return fmt.Sprintf("%x", pk.Bytes())
}

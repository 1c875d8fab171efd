package keys

import (
	"crypto/sha256"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// PublicKey wraps a secp256k1 curve point.
type PublicKey struct {
	key *secp256k1.PublicKey
}

// Bytes returns the serialized public key.
func (pub *PublicKey) Bytes(compressed bool) []byte {
	if compressed {
		return pub.key.SerializeCompressed()
	}
	return pub.key.SerializeUncompressed()
}

// AddressHash returns the 20-byte identifier this address is built from:
// the first 20 bytes of a single SHA-256 round over the compressed public
// key. Unlike Bitcoin's hash160 this skips RIPEMD-160 entirely - there is
// no byte-compatibility requirement here, just a fixed-width identifier.
func (pub *PublicKey) AddressHash() []byte {
	sum := sha256.Sum256(pub.Bytes(true))
	hash := make([]byte, 20)
	copy(hash, sum[:20])
	return hash
}

// String returns the hex representation of the compressed public key.
func (pub *PublicKey) String() string {
	return fmt.Sprintf("%x", pub.Bytes(true))
}

// Verify checks a signature against a 32-byte message digest.
func (pub *PublicKey) Verify(hash []byte, sig *Signature) bool {
	if len(hash) != 32 {
		return false
	}

	return sig.sig.Verify(hash, pub.key)
}

package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns the raw 32-byte SHA-256 digest of data.
//
// Every content hash in this system - transaction ids, block hashes and
// Merkle nodes - uses a single round of SHA-256. The double-hash
// construction is reserved for the Base58Check checksum in pkg/encoding.
func Digest(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// HexDigest hashes data and returns the lowercase hex encoding of the digest.
func HexDigest(data []byte) string {
	d := Digest(data)
	return hex.EncodeToString(d[:])
}

package keys

import (
	"fmt"

	"github.com/powsim/powsim/pkg/encoding"
)

// AddressVersion is the single version byte used in this network. There is
// only one address kind, so unlike Bitcoin there is no P2PKH/P2SH/testnet
// split to encode here.
const AddressVersion byte = 0x00

// Address returns the wallet address for this public key: Base58Check of
// the version byte followed by the 20-byte address hash.
func (pub *PublicKey) Address() string {
	return encoding.EncodeBase58Check(AddressVersion, pub.AddressHash())
}

// DecodeAddress validates an address string and returns its 20-byte hash.
func DecodeAddress(address string) ([]byte, error) {
	version, hash, err := encoding.DecodeBase58Check(address)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}

	if version != AddressVersion {
		return nil, fmt.Errorf("invalid address version: %#x", version)
	}

	if len(hash) != 20 {
		return nil, fmt.Errorf("invalid address hash length: %d", len(hash))
	}

	return hash, nil
}

package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/powsim/powsim/pkg/crypto"
)

func TestGeneratePrivateKeyRoundTrip(t *testing.T) {
	priv, err := GeneratePrivateKey()
	assert.NoError(t, err)

	restored, err := NewPrivateKeyFromBytes(priv.Bytes())
	assert.NoError(t, err)
	assert.Equal(t, priv.Bytes(), restored.Bytes())
}

func TestSignAndVerify(t *testing.T) {
	priv, err := GeneratePrivateKey()
	assert.NoError(t, err)

	digest := crypto.Digest([]byte("payload"))
	sig, err := priv.Sign(digest[:])
	assert.NoError(t, err)

	assert.True(t, priv.PublicKey().Verify(digest[:], sig))
}

func TestVerifyRejectsWrongMessage(t *testing.T) {
	priv, err := GeneratePrivateKey()
	assert.NoError(t, err)

	digest := crypto.Digest([]byte("payload"))
	sig, err := priv.Sign(digest[:])
	assert.NoError(t, err)

	other := crypto.Digest([]byte("different"))
	assert.False(t, priv.PublicKey().Verify(other[:], sig))
}

func TestAddressRoundTrip(t *testing.T) {
	priv, err := GeneratePrivateKey()
	assert.NoError(t, err)

	addr := priv.PublicKey().Address()
	hash, err := DecodeAddress(addr)
	assert.NoError(t, err)
	assert.Equal(t, priv.PublicKey().AddressHash(), hash)
}

func TestDecodeAddressRejectsBadChecksum(t *testing.T) {
	priv, err := GeneratePrivateKey()
	assert.NoError(t, err)

	addr := priv.PublicKey().Address()
	tampered := addr[:len(addr)-1] + "x"
	if tampered == addr {
		tampered = addr[:len(addr)-1] + "y"
	}

	_, err = DecodeAddress(tampered)
	assert.Error(t, err)
}

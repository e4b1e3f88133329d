package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccountDerivesAddress(t *testing.T) {
	w, err := GenerateAccount()
	require.NoError(t, err)
	assert.Regexp(t, "^0x[0-9a-fA-F]{40}$", w.Address)
	assert.NotEmpty(t, w.PrivateKey)

	// Re-deriving from the stored key must land on the same address.
	addr, err := AddressFromPrivKey(w.PrivateKey)
	require.NoError(t, err)
	assert.Equal(t, w.Address, addr)
}

func TestAddressFromPrivKeyRejectsBadInput(t *testing.T) {
	_, err := AddressFromPrivKey("not hex")
	assert.Error(t, err)

	_, err = AddressFromPrivKey("deadbeef")
	assert.Error(t, err)
}

package wallet

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet is a custodial account: hex private key plus derived EVM address.
type Wallet struct {
	PrivateKey string
	Address    string
}

// GenerateAccount creates a fresh keypair for a user's custodial account.
func GenerateAccount() (*Wallet, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}

	privBytes := crypto.FromECDSA(privateKey)
	address := crypto.PubkeyToAddress(privateKey.PublicKey)

	return &Wallet{
		PrivateKey: hex.EncodeToString(privBytes),
		Address:    address.Hex(),
	}, nil
}

// AddressFromPrivKey re-derives the account address from a stored key.
func AddressFromPrivKey(privKeyHex string) (string, error) {
	privBytes, err := hex.DecodeString(privKeyHex)
	if err != nil {
		return "", fmt.Errorf("failed to decode private key hex: %v", err)
	}

	privKey, err := crypto.ToECDSA(privBytes)
	if err != nil {
		return "", fmt.Errorf("failed to convert to ECDSA: %v", err)
	}

	return crypto.PubkeyToAddress(privKey.PublicKey).Hex(), nil
}

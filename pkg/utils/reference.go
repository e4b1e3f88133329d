package utils

import (
	"crypto/rand"

	"github.com/mr-tron/base58"
)

// NewReferenceCode returns a short base58 code quoted to the user on sell
// payouts so support can match a bank transfer to a transaction.
func NewReferenceCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base58.Encode(buf), nil
}

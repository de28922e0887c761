package utils

import (
	"crypto/rand"
	"math/big"
)

// Ambiguous glyphs (0/O, 1/I) are left out so locators survive being read
// over the phone.
const locatorAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// LocatorLength is the size of a booking locator.
const LocatorLength = 8

// NewLocator returns a random guest-facing booking reference.
func NewLocator() (string, error) { return randomFrom(locatorAlphabet, LocatorLength) }

// NewPIN returns a random 4-digit PIN, leading zeros included.
func NewPIN() (string, error) { return randomFrom("0123456789", 4) }

func randomFrom(alphabet string, n int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, n)
	for i := range buf {
		k, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[k.Int64()]
	}
	return string(buf), nil
}

package internal

import (
	"crypto/rand"
	"fmt"
)

// NewAccountNumberCandidate returns a random all-digit string of the given
// length, suitable as an account-number candidate. The first digit is drawn
// from 1-9 so the printed length is stable.
func NewAccountNumberCandidate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid account number length %d", length)
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	digits := make([]byte, length)
	digits[0] = '1' + buf[0]%9
	for i := 1; i < length; i++ {
		digits[i] = '0' + buf[i]%10
	}

	return string(digits), nil
}

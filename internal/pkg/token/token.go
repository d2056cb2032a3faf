// Package token generates single-use activation tokens.
package token

import (
	"crypto/rand"
)

const (
	// ActivationTokenLength is the length of client activation tokens.
	ActivationTokenLength = 32

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// maxUnbiased is the largest multiple of len(alphabet) that fits in a
	// byte; values at or above it are rejected so every character is
	// equally likely.
	maxUnbiased = 256 - 256%len(alphabet)
)

// NewActivationToken returns a 32-character alphanumeric token from
// crypto/rand. Tokens gate account activation, so a predictable source
// is not acceptable here.
func NewActivationToken() (string, error) {
	b := make([]byte, 0, ActivationTokenLength)
	buf := make([]byte, ActivationTokenLength)
	for len(b) < ActivationTokenLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, v := range buf {
			if int(v) >= maxUnbiased {
				continue
			}
			b = append(b, alphabet[int(v)%len(alphabet)])
			if len(b) == ActivationTokenLength {
				break
			}
		}
	}
	return string(b), nil
}

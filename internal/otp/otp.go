// Package otp implements one-time code generation, verification, and
// out-of-band delivery for PIN resets. The core exposes generate and verify
// only; how a code reaches the customer is the Deliverer's concern.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

// CodeLength is the number of digits in a one-time code
const CodeLength = 6

// Deliverer sends a one-time code to the customer's verified out-of-band
// channel. The code must never be written to application logs or returned
// to the interactive surface.
type Deliverer interface {
	Deliver(ctx context.Context, accountID string, code string) error
}

// Generator produces one-time codes
type Generator interface {
	Generate() (string, error)
}

// DigitGenerator generates codes of CodeLength digits, each digit drawn
// independently and uniformly from 0-9. Digits are not guaranteed distinct.
type DigitGenerator struct{}

// NewGenerator creates the default code generator
func NewGenerator() Generator {
	return DigitGenerator{}
}

// Generate returns a new random code
func (DigitGenerator) Generate() (string, error) {
	code := make([]byte, CodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate otp digit: %w", err)
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}

// Verify reports whether the submitted code exactly matches the challenge.
// The comparison is constant-time.
func Verify(challenge, submitted string) bool {
	if challenge == "" || len(challenge) != len(submitted) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(challenge), []byte(submitted)) == 1
}

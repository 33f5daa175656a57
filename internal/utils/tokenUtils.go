package utils

import (
	"crypto/rand"
	"encoding/hex"
)

const VerificationTokenBytes = 32

// GenerateVerificationToken returns a random hex string of 2*VerificationTokenBytes characters.
func GenerateVerificationToken() (string, error) {
	buffer := make([]byte, VerificationTokenBytes)
	if _, err := rand.Read(buffer); err != nil {
		return "", err
	}
	return hex.EncodeToString(buffer), nil
}

package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateTempPassword returns a URL-safe random password for new
// instructor accounts
func GenerateTempPassword() string {
	b := make([]byte, 10)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenShortID returns 8 lowercase hex characters, short enough to read
// out as a room code. Empty on entropy failure.
func GenShortID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return hex.EncodeToString(b)
}

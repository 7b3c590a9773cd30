package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// ETag returns a strong entity tag for a response body.
func ETag(body []byte) string {
	sum := sha256.Sum256(body)
	return strconv.Quote(hex.EncodeToString(sum[:16]))
}

// ShortHash returns the first n hex digits of the body's SHA-256.
func ShortHash(body []byte, n int) string {
	sum := sha256.Sum256(body)
	s := hex.EncodeToString(sum[:])
	if n <= 0 || n > len(s) {
		return s
	}
	return s[:n]
}

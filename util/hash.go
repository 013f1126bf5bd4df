package util

import (
	"crypto/sha1"
	"encoding/hex"
)

// Hash returns a printable (hex) SHA-1 hash of name.
func Hash(name string) string {
	return SHA1HexString(name)
}

// SHA1Hex returns the hex-encoded SHA-1 digest of data. Used throughout the
// bundler for content-addressed fingerprinting: manifest entry hashes
// (invariant I4) and cache-busting URLs for non-minified cacheable assets.
func SHA1Hex(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

// SHA1HexString is SHA1Hex for a string argument.
func SHA1HexString(s string) string {
	return SHA1Hex([]byte(s))
}

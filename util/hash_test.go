package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	assert.Equal(t, "4d51b43d077ed5a7b7ae4fb200aeb216b7736a96", Hash("ubuntu:14.04"))
}

func TestSHA1Hex(t *testing.T) {
	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", SHA1Hex(nil))
	assert.Equal(t, SHA1HexString("hi"), SHA1Hex([]byte("hi")))
}

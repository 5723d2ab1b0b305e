package sponge

import (
	"bytes"
	"testing"

	"golang.org/x/crypto/sha3"
)

// Test XOF stream equals SHAKE-128(seed || j || i)
func TestXOFStream(t *testing.T) {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i)
	}
	x := NewXOF(New(), seed, 2, 1)

	got := make([]byte, 0, 504)
	for len(got) < 504 {
		b0, b1, b2 := x.Read3()
		got = append(got, b0, b1, b2)
	}

	want := make([]byte, 504)
	sha3.ShakeSum128(want, append(append([]byte{}, seed...), 2, 1))
	if !bytes.Equal(got, want) {
		t.Error("XOF stream does not match SHAKE-128(seed||j||i)")
	}
}

// Test PRF equals SHAKE-256(seed || nonce)
func TestPRF(t *testing.T) {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(0xA0 + i)
	}
	got := make([]byte, 128)
	PRF(New(), seed, 5, got)

	want := make([]byte, 128)
	sha3.ShakeSum256(want, append(append([]byte{}, seed...), 5))
	if !bytes.Equal(got, want) {
		t.Error("PRF does not match SHAKE-256(seed||nonce)")
	}
}

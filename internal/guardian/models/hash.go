package models

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/mr-tron/base58"
)

// Hash is a 32-byte SHA-256 digest.
type Hash [32]byte

// HashOf returns sha256(data).
func HashOf(data []byte) Hash {
	return sha256.Sum256(data)
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) IsZero() bool {
	return h == Hash{}
}

// ParseHash decodes a 64-character hex string.
func ParseHash(s string) (Hash, error) {
	var h Hash
	raw, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("decode hash: %w", err)
	}
	if len(raw) != len(h) {
		return h, fmt.Errorf("hash must be %d bytes, got %d", len(h), len(raw))
	}
	copy(h[:], raw)
	return h, nil
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// Address is a 32-byte account address. Its text form is base58 with a
// four-byte double-SHA-256 checksum appended to the payload.
type Address [32]byte

// AddressFromPublicKey derives the address of an uncompressed secp256k1
// public key: sha256(sha256(pubkey)).
func AddressFromPublicKey(uncompressed []byte) Address {
	first := sha256.Sum256(uncompressed)
	return Address(sha256.Sum256(first[:]))
}

func (a Address) String() string {
	payload := make([]byte, 0, len(a)+4)
	payload = append(payload, a[:]...)
	payload = append(payload, checksum(a[:])...)
	return base58.Encode(payload)
}

func (a Address) IsZero() bool {
	return a == Address{}
}

// ParseAddress decodes and checksum-verifies a base58 address.
func ParseAddress(s string) (Address, error) {
	var a Address
	raw, err := base58.Decode(s)
	if err != nil {
		return a, fmt.Errorf("decode address: %w", err)
	}
	if len(raw) != len(a)+4 {
		return a, fmt.Errorf("address must decode to %d bytes, got %d", len(a)+4, len(raw))
	}
	payload, sum := raw[:len(a)], raw[len(a):]
	if !bytes.Equal(checksum(payload), sum) {
		return a, fmt.Errorf("address checksum mismatch")
	}
	copy(a[:], payload)
	return a, nil
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func checksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:4]
}

// Package solana provides chain-address helpers for Solana.
package solana

import "github.com/mr-tron/base58"

// Solana addresses are 32-byte ed25519 public keys rendered in base58
// (Bitcoin alphabet), which lands in a 32-44 character window.
const (
	minAddressLen = 32
	maxAddressLen = 44
	publicKeyLen  = 32
)

// IsValidAddress reports whether s is a syntactically valid Solana address:
// inside the length window and base58-decoding to exactly 32 bytes. It says
// nothing about the address existing on chain.
func IsValidAddress(s string) bool {
	if len(s) < minAddressLen || len(s) > maxAddressLen {
		return false
	}
	decoded, err := base58.Decode(s)
	if err != nil {
		return false
	}
	return len(decoded) == publicKeyLen
}

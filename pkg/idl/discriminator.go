package idl

import (
	"crypto/sha256"
)

// DiscriminatorLength is the size of the account discriminators Anchor derives.
const DiscriminatorLength = 8

// AccountDiscriminator derives the Anchor discriminator for an account type,
// sha256("account:<name>") truncated to DiscriminatorLength bytes.
func AccountDiscriminator(name string) []byte {
	sum := sha256.Sum256([]byte("account:" + name))
	return sum[:DiscriminatorLength]
}

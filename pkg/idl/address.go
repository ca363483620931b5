package idl

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

const anchorIDLSeed = "anchor:idl"

func idlSeed(provider Provider) (string, error) {
	switch provider {
	case ProviderAnchor:
		return anchorIDLSeed, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, string(provider))
	}
}

// IDLAddress resolves the address of the account a provider's tooling uploads
// the program IDL to. The base is the program's canonical PDA without seeds.
func IDLAddress(provider Provider, programID solana.PublicKey) (solana.PublicKey, error) {
	seed, err := idlSeed(provider)
	if err != nil {
		return solana.PublicKey{}, err
	}
	base, _, err := solana.FindProgramAddress([][]byte{}, programID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive IDL base address for %s: %w", programID, err)
	}
	addr, err := solana.CreateWithSeed(base, seed, programID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive IDL address for %s: %w", programID, err)
	}
	return addr, nil
}

// IsIDLAddress reports whether addr is where any supported provider keeps the
// IDL of programID.
func IsIDLAddress(programID, addr solana.PublicKey) bool {
	for _, provider := range Providers {
		idlAddr, err := IDLAddress(provider, programID)
		if err == nil && idlAddr.Equals(addr) {
			return true
		}
	}
	return false
}

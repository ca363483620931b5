package idl

import (
	"fmt"
	"strings"
)

// Provider is the toolchain convention an IDL document follows. It decides how
// the document is mapped and how account data is discriminated.
type Provider string

const (
	ProviderAnchor Provider = "anchor"
)

// Providers lists every supported provider in lookup order.
var Providers = []Provider{ProviderAnchor}

func (p Provider) String() string {
	return string(p)
}

// ParseProvider maps a provider tag to a Provider.
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderAnchor:
		return ProviderAnchor, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, s)
	}
}

// Parse maps raw IDL JSON into a Document according to the provider's dialect.
func Parse(programID string, raw []byte, provider Provider) (*Document, error) {
	switch provider {
	case ProviderAnchor:
		return ParseAnchor(programID, raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, string(provider))
	}
}

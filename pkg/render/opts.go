// Package render writes decoded values as JSON text.
package render

// Opts controls how values that do not fit plain JSON numbers are rendered.
type Opts struct {
	// PubkeyAsBase58 renders public keys as base58 strings instead of byte arrays.
	PubkeyAsBase58 bool
	// N64AsString renders 64-bit integers as decimal strings.
	N64AsString bool
	// N128AsString renders 128-bit integers as decimal strings.
	N128AsString bool
}

func DefaultOpts() Opts {
	return Opts{PubkeyAsBase58: true}
}

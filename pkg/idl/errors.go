package idl

import "errors"

var (
	// ErrInvalidIDL is returned when an IDL document is malformed or structurally
	// inconsistent.
	ErrInvalidIDL = errors.New("invalid IDL")
	// ErrUnsupportedProvider is returned for provider tags this package does not know.
	ErrUnsupportedProvider = errors.New("unsupported IDL provider")
	// ErrUndefinedType is returned when a defined type is referenced but never declared.
	ErrUndefinedType = errors.New("undefined type")
)

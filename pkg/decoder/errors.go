package decoder

import "errors"

var (
	// ErrUnexpectedEOF is returned when a read would go past the end of the input.
	ErrUnexpectedEOF = errors.New("unexpected end of account data")
	// ErrInvalidUTF8 is returned for string fields that are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8 string")
	// ErrUnknownEnumDiscriminant is returned when an enum tag has no declared variant.
	ErrUnknownEnumDiscriminant = errors.New("unknown enum discriminant")
	// ErrMaxDepth is returned when values nest deeper than the decoder allows.
	ErrMaxDepth = errors.New("maximum nesting depth exceeded")
	// ErrTooManyElements is returned when a value holds more sequence elements
	// than the size of the input allows.
	ErrTooManyElements = errors.New("too many elements for input size")
)

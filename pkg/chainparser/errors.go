package chainparser

import (
	"errors"

	"github.com/smartcontractkit/chainparser/pkg/decoder"
	"github.com/smartcontractkit/chainparser/pkg/discriminator"
	"github.com/smartcontractkit/chainparser/pkg/idl"
)

var (
	// ErrUnknownProgram is returned when no IDL was registered for a program id.
	ErrUnknownProgram = errors.New("no IDL registered for program")
	// ErrAccountTooLarge is returned for account data above the configured cap.
	ErrAccountTooLarge = errors.New("account data too large")
	// ErrAccountNotFound is returned by an AccountReader for addresses that hold no account.
	ErrAccountNotFound = errors.New("account not found")
	// ErrUnknownAccountName is returned when decoding by a name the IDL does not declare.
	ErrUnknownAccountName = errors.New("unknown account name")
)

var (
	ErrInvalidIDL                 = idl.ErrInvalidIDL
	ErrUnsupportedProvider        = idl.ErrUnsupportedProvider
	ErrUndefinedType              = idl.ErrUndefinedType
	ErrUnknownAccountDiscriminant = discriminator.ErrUnknownAccountDiscriminant
	ErrUnknownEnumDiscriminant    = decoder.ErrUnknownEnumDiscriminant
	ErrUnexpectedEOF              = decoder.ErrUnexpectedEOF
	ErrInvalidUTF8                = decoder.ErrInvalidUTF8
	ErrMaxDepth                   = decoder.ErrMaxDepth
	ErrTooManyElements            = decoder.ErrTooManyElements
)

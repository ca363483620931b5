// Package value holds the generic tree account data decodes into.
package value

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
)

// Value is a decoded value. The set of implementations is closed.
type Value interface {
	isValue()
}

// Int is an integer of any supported width. Big always holds the exact value.
type Int struct {
	Signed bool
	Bits   int
	Big    *big.Int
}

// Float keeps the width it was decoded from so it renders with matching precision.
type Float struct {
	Bits int
	V    float64
}

type Bool bool

type Str string

type PublicKey solana.PublicKey

type Bytes []byte

// Option is None when Some is nil.
type Option struct {
	Some Value
}

type Seq struct {
	Elems []Value
}

type Tuple struct {
	Elems []Value
}

// Set keeps elements in encoded order.
type Set struct {
	Elems []Value
}

type MapEntry struct {
	Key   Value
	Value Value
}

// Map keeps entries in encoded order.
type Map struct {
	Entries []MapEntry
}

type NamedValue struct {
	Name  string
	Value Value
}

// Struct keeps fields in declaration order.
type Struct struct {
	Fields []NamedValue
}

// Enum is a decoded variant. Payload is nil for unit variants.
type Enum struct {
	Variant string
	Payload Payload
}

type Payload interface {
	isPayload()
}

type TuplePayload struct {
	Elems []Value
}

type StructPayload struct {
	Fields []NamedValue
}

func (Int) isValue()       {}
func (Float) isValue()     {}
func (Bool) isValue()      {}
func (Str) isValue()       {}
func (PublicKey) isValue() {}
func (Bytes) isValue()     {}
func (Option) isValue()    {}
func (Seq) isValue()       {}
func (Tuple) isValue()     {}
func (Set) isValue()       {}
func (Map) isValue()       {}
func (Struct) isValue()    {}
func (Enum) isValue()      {}

func (TuplePayload) isPayload()  {}
func (StructPayload) isPayload() {}

func NewUint(bits int, v uint64) Int {
	return Int{Bits: bits, Big: new(big.Int).SetUint64(v)}
}

func NewInt(bits int, v int64) Int {
	return Int{Signed: true, Bits: bits, Big: big.NewInt(v)}
}

// Field returns the value of a struct field by name.
func (s Struct) Field(name string) (Value, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

func (o Option) IsNone() bool {
	return o.Some == nil
}

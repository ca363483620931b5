package testutils

import (
	"bytes"
	"math"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// AccountBuilder assembles little-endian Borsh account data for tests.
type AccountBuilder struct {
	buf bytes.Buffer
	enc *bin.Encoder
}

func NewAccountBuilder() *AccountBuilder {
	b := &AccountBuilder{}
	b.enc = bin.NewBorshEncoder(&b.buf)
	return b
}

func (b *AccountBuilder) check(err error) *AccountBuilder {
	if err != nil {
		panic(err)
	}
	return b
}

func (b *AccountBuilder) Raw(p ...byte) *AccountBuilder {
	return b.check(b.enc.WriteBytes(p, false))
}

func (b *AccountBuilder) U8(v uint8) *AccountBuilder { return b.check(b.enc.WriteUint8(v)) }
func (b *AccountBuilder) I8(v int8) *AccountBuilder  { return b.U8(uint8(v)) }

func (b *AccountBuilder) U16(v uint16) *AccountBuilder {
	return b.check(b.enc.WriteUint16(v, bin.LE))
}

func (b *AccountBuilder) I16(v int16) *AccountBuilder { return b.U16(uint16(v)) }

func (b *AccountBuilder) U32(v uint32) *AccountBuilder {
	return b.check(b.enc.WriteUint32(v, bin.LE))
}

func (b *AccountBuilder) I32(v int32) *AccountBuilder { return b.U32(uint32(v)) }

func (b *AccountBuilder) U64(v uint64) *AccountBuilder {
	return b.check(b.enc.WriteUint64(v, bin.LE))
}

func (b *AccountBuilder) I64(v int64) *AccountBuilder { return b.U64(uint64(v)) }

// U128 writes the low half first.
func (b *AccountBuilder) U128(lo, hi uint64) *AccountBuilder {
	return b.U64(lo).U64(hi)
}

func (b *AccountBuilder) F32(v float32) *AccountBuilder { return b.U32(math.Float32bits(v)) }
func (b *AccountBuilder) F64(v float64) *AccountBuilder { return b.U64(math.Float64bits(v)) }

func (b *AccountBuilder) Bool(v bool) *AccountBuilder {
	if v {
		return b.U8(1)
	}
	return b.U8(0)
}

func (b *AccountBuilder) String(s string) *AccountBuilder {
	return b.U32(uint32(len(s))).Raw([]byte(s)...)
}

// ByteVec writes a length-prefixed byte sequence.
func (b *AccountBuilder) ByteVec(p []byte) *AccountBuilder {
	return b.U32(uint32(len(p))).Raw(p...)
}

func (b *AccountBuilder) PublicKey(pk solana.PublicKey) *AccountBuilder {
	return b.Raw(pk[:]...)
}

func (b *AccountBuilder) Some() *AccountBuilder { return b.U8(1) }
func (b *AccountBuilder) None() *AccountBuilder { return b.U8(0) }

// Len writes a Vec, Map or Set element count.
func (b *AccountBuilder) Len(n int) *AccountBuilder { return b.U32(uint32(n)) }

func (b *AccountBuilder) Build() []byte {
	out := make([]byte, b.buf.Len())
	copy(out, b.buf.Bytes())
	return out
}

// Package decoder interprets a decoding plan over Borsh encoded account data.
package decoder

import (
	"fmt"
	"math"
	"math/big"
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/smartcontractkit/chainparser/pkg/idl"
	"github.com/smartcontractkit/chainparser/pkg/idl/plan"
	"github.com/smartcontractkit/chainparser/pkg/value"
)

// DefaultMaxDepth bounds value nesting. Types that recurse without consuming
// input would otherwise never terminate.
const DefaultMaxDepth = 256

type Decoder struct {
	plan     *plan.Plan
	maxDepth int
}

type Option func(*Decoder)

func WithMaxDepth(depth int) Option {
	return func(d *Decoder) {
		if depth > 0 {
			d.maxDepth = depth
		}
	}
}

func New(p *plan.Plan, opts ...Option) *Decoder {
	d := &Decoder{plan: p, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode reads a value of node root from c with the default options.
func Decode(p *plan.Plan, root int, c *Cursor) (value.Value, error) {
	return New(p).Decode(root, c)
}

// Decode reads a value of node root from c and leaves the cursor right after
// the bytes it consumed. Trailing bytes are not an error.
func (d *Decoder) Decode(root int, c *Cursor) (value.Value, error) {
	if root < 0 || root >= len(d.plan.Nodes) {
		return nil, fmt.Errorf("%w: plan has no node %d", idl.ErrInvalidIDL, root)
	}
	return d.decode(root, c, 0)
}

func (d *Decoder) decode(idx int, c *Cursor, depth int) (value.Value, error) {
	if depth > d.maxDepth {
		return nil, fmt.Errorf("%w: %d", ErrMaxDepth, d.maxDepth)
	}
	depth++

	switch n := d.plan.Nodes[idx].(type) {
	case plan.Prim:
		return decodePrim(n.Kind, c)
	case plan.Option:
		tag, err := c.ReadU8()
		if err != nil {
			return nil, errors.WithMessage(err, "option tag")
		}
		if tag == 0 {
			return value.Option{}, nil
		}
		v, err := d.decode(n.Elem, c, depth)
		if err != nil {
			return nil, errors.WithMessage(err, "option")
		}
		return value.Option{Some: v}, nil
	case plan.Vec:
		elems, err := d.sequence(n.Elem, c, depth, "vec")
		if err != nil {
			return nil, err
		}
		return value.Seq{Elems: elems}, nil
	case plan.Set:
		elems, err := d.sequence(n.Elem, c, depth, "set")
		if err != nil {
			return nil, err
		}
		return value.Set{Elems: elems}, nil
	case plan.Map:
		return d.decodeMap(n, c, depth)
	case plan.Array:
		return d.decodeArray(n, c, depth)
	case plan.Tuple:
		elems, err := d.list(n.Elems, c, depth, "tuple")
		if err != nil {
			return nil, err
		}
		return value.Tuple{Elems: elems}, nil
	case plan.Struct:
		fields, err := d.fields(n.Fields, c, depth)
		if err != nil {
			return nil, err
		}
		return value.Struct{Fields: fields}, nil
	case plan.Enum:
		return d.decodeEnum(n, c, depth)
	case plan.Ref:
		return d.decode(d.plan.Deref(n.Target), c, depth)
	default:
		return nil, fmt.Errorf("%w: unresolved plan node %d", idl.ErrInvalidIDL, idx)
	}
}

// checkCount rejects element counts the remaining input cannot hold. Every
// element is charged at least one byte so zero sized elements cannot inflate
// allocations.
func checkCount(count, elemMin int, c *Cursor) error {
	if count == 0 {
		return nil
	}
	unit := elemMin
	if unit < 1 {
		unit = 1
	}
	if unit > c.Remaining() || count > c.Remaining()/unit {
		return fmt.Errorf("%w: %d elements of at least %d bytes at offset %d, %d remaining",
			ErrUnexpectedEOF, count, unit, c.Position(), c.Remaining())
	}
	return nil
}

func (d *Decoder) sequence(elem int, c *Cursor, depth int, kind string) ([]value.Value, error) {
	n, err := c.ReadU32()
	if err != nil {
		return nil, errors.WithMessagef(err, "%s length", kind)
	}
	count := int(n)
	if count < 0 {
		return nil, fmt.Errorf("%w: %s length %d", ErrUnexpectedEOF, kind, n)
	}
	if err := checkCount(count, d.plan.MinSize(elem), c); err != nil {
		return nil, errors.WithMessage(err, kind)
	}
	if err := c.charge(count); err != nil {
		return nil, errors.WithMessage(err, kind)
	}
	out := make([]value.Value, 0, count)
	for i := 0; i < count; i++ {
		v, err := d.decode(elem, c, depth)
		if err != nil {
			return nil, errors.WithMessagef(err, "%s[%d]", kind, i)
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *Decoder) decodeMap(n plan.Map, c *Cursor, depth int) (value.Value, error) {
	raw, err := c.ReadU32()
	if err != nil {
		return nil, errors.WithMessage(err, "map length")
	}
	count := int(raw)
	if count < 0 {
		return nil, fmt.Errorf("%w: map length %d", ErrUnexpectedEOF, raw)
	}
	if err := checkCount(count, d.plan.MinSize(n.Key)+d.plan.MinSize(n.Value), c); err != nil {
		return nil, errors.WithMessage(err, "map")
	}
	if err := c.charge(count); err != nil {
		return nil, errors.WithMessage(err, "map")
	}
	entries := make([]value.MapEntry, 0, count)
	for i := 0; i < count; i++ {
		k, err := d.decode(n.Key, c, depth)
		if err != nil {
			return nil, errors.WithMessagef(err, "map key[%d]", i)
		}
		v, err := d.decode(n.Value, c, depth)
		if err != nil {
			return nil, errors.WithMessagef(err, "map value[%d]", i)
		}
		entries = append(entries, value.MapEntry{Key: k, Value: v})
	}
	return value.Map{Entries: entries}, nil
}

func (d *Decoder) decodeArray(n plan.Array, c *Cursor, depth int) (value.Value, error) {
	elemMin := d.plan.MinSize(n.Elem)
	if elemMin > 0 && n.Len > 0 && (elemMin > c.Remaining() || n.Len > c.Remaining()/elemMin) {
		return nil, fmt.Errorf("%w: array of %d elements of at least %d bytes at offset %d, %d remaining",
			ErrUnexpectedEOF, n.Len, elemMin, c.Position(), c.Remaining())
	}
	if err := c.charge(n.Len); err != nil {
		return nil, errors.WithMessage(err, "array")
	}
	elems := make([]value.Value, 0, n.Len)
	for i := 0; i < n.Len; i++ {
		v, err := d.decode(n.Elem, c, depth)
		if err != nil {
			return nil, errors.WithMessagef(err, "array[%d]", i)
		}
		elems = append(elems, v)
	}
	return value.Seq{Elems: elems}, nil
}

func (d *Decoder) list(types []int, c *Cursor, depth int, kind string) ([]value.Value, error) {
	out := make([]value.Value, 0, len(types))
	for i, t := range types {
		v, err := d.decode(t, c, depth)
		if err != nil {
			return nil, errors.WithMessagef(err, "%s[%d]", kind, i)
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *Decoder) fields(fields []plan.FieldPlan, c *Cursor, depth int) ([]value.NamedValue, error) {
	out := make([]value.NamedValue, 0, len(fields))
	for _, f := range fields {
		v, err := d.decode(f.Type, c, depth)
		if err != nil {
			return nil, errors.WithMessagef(err, "field '%s'", f.Name)
		}
		out = append(out, value.NamedValue{Name: f.Name, Value: v})
	}
	return out, nil
}

func (d *Decoder) decodeEnum(n plan.Enum, c *Cursor, depth int) (value.Value, error) {
	tag, err := c.ReadU8()
	if err != nil {
		return nil, errors.WithMessagef(err, "enum %s tag", n.Name)
	}
	if int(tag) >= len(n.Variants) {
		return nil, fmt.Errorf("%w: %d for enum %s with %d variants", ErrUnknownEnumDiscriminant, tag, n.Name, len(n.Variants))
	}
	variant := n.Variants[tag]
	out := value.Enum{Variant: variant.Name}

	switch variant.Payload {
	case plan.PayloadTuple:
		elems, err := d.list(variant.Elems, c, depth, "tuple")
		if err != nil {
			return nil, errors.WithMessagef(err, "variant '%s'", variant.Name)
		}
		out.Payload = value.TuplePayload{Elems: elems}
	case plan.PayloadStruct:
		fields, err := d.fields(variant.Fields, c, depth)
		if err != nil {
			return nil, errors.WithMessagef(err, "variant '%s'", variant.Name)
		}
		out.Payload = value.StructPayload{Fields: fields}
	}
	return out, nil
}

func decodePrim(kind idl.Kind, c *Cursor) (value.Value, error) {
	switch kind {
	case idl.KindBool:
		b, err := c.ReadU8()
		if err != nil {
			return nil, err
		}
		return value.Bool(b != 0), nil
	case idl.KindU8:
		v, err := c.ReadU8()
		if err != nil {
			return nil, err
		}
		return value.NewUint(8, uint64(v)), nil
	case idl.KindI8:
		v, err := c.ReadU8()
		if err != nil {
			return nil, err
		}
		return value.NewInt(8, int64(int8(v))), nil
	case idl.KindU16:
		v, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		return value.NewUint(16, uint64(v)), nil
	case idl.KindI16:
		v, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		return value.NewInt(16, int64(int16(v))), nil
	case idl.KindU32:
		v, err := c.ReadU32()
		if err != nil {
			return nil, err
		}
		return value.NewUint(32, uint64(v)), nil
	case idl.KindI32:
		v, err := c.ReadU32()
		if err != nil {
			return nil, err
		}
		return value.NewInt(32, int64(int32(v))), nil
	case idl.KindU64:
		v, err := c.ReadU64()
		if err != nil {
			return nil, err
		}
		return value.NewUint(64, v), nil
	case idl.KindI64:
		v, err := c.ReadU64()
		if err != nil {
			return nil, err
		}
		return value.NewInt(64, int64(v)), nil
	case idl.KindU128, idl.KindI128:
		return read128(c, kind == idl.KindI128)
	case idl.KindF32:
		v, err := c.ReadU32()
		if err != nil {
			return nil, err
		}
		return value.Float{Bits: 32, V: float64(math.Float32frombits(v))}, nil
	case idl.KindF64:
		v, err := c.ReadU64()
		if err != nil {
			return nil, err
		}
		return value.Float{Bits: 64, V: math.Float64frombits(v)}, nil
	case idl.KindString:
		n, err := c.ReadLength()
		if err != nil {
			return nil, errors.WithMessage(err, "string length")
		}
		raw, err := c.ReadBytes(n)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("%w: %d bytes ending at offset %d", ErrInvalidUTF8, n, c.Position())
		}
		return value.Str(raw), nil
	case idl.KindBytes:
		n, err := c.ReadLength()
		if err != nil {
			return nil, errors.WithMessage(err, "bytes length")
		}
		raw, err := c.ReadBytes(n)
		if err != nil {
			return nil, err
		}
		return value.Bytes(raw), nil
	case idl.KindPublicKey:
		raw, err := c.ReadBytes(solana.PublicKeyLength)
		if err != nil {
			return nil, errors.WithMessage(err, "public key")
		}
		return value.PublicKey(solana.PublicKeyFromBytes(raw)), nil
	default:
		return nil, fmt.Errorf("%w: unknown primitive %q", idl.ErrInvalidIDL, kind)
	}
}

var two128 = new(big.Int).Lsh(big.NewInt(1), 128)

// read128 reads a little-endian 128-bit integer as its low and high halves.
func read128(c *Cursor, signed bool) (value.Value, error) {
	if err := c.need(16); err != nil {
		return nil, err
	}
	lo, err := c.ReadU64()
	if err != nil {
		return nil, err
	}
	hi, err := c.ReadU64()
	if err != nil {
		return nil, err
	}
	v := new(big.Int).SetUint64(hi)
	v.Lsh(v, 64)
	v.Or(v, new(big.Int).SetUint64(lo))
	if signed && hi>>63 == 1 {
		v.Sub(v, two128)
	}
	return value.Int{Signed: signed, Bits: 128, Big: v}, nil
}

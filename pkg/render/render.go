package render

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/gagliardetto/solana-go"
	jsoniter "github.com/json-iterator/go"

	"github.com/smartcontractkit/chainparser/pkg/value"
)

var api = jsoniter.Config{EscapeHTML: false}.Froze()

// Write renders v as compact JSON. Nothing is written to w unless the whole
// value rendered.
func Write(w io.Writer, v value.Value, opts Opts) error {
	out, err := Marshal(v, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// ToString renders v as compact JSON text.
func ToString(v value.Value, opts Opts) (string, error) {
	out, err := Marshal(v, opts)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func Marshal(v value.Value, opts Opts) ([]byte, error) {
	stream := api.BorrowStream(nil)
	defer api.ReturnStream(stream)

	r := renderer{stream: stream, opts: opts}
	if err := r.value(v); err != nil {
		return nil, err
	}
	if stream.Error != nil {
		return nil, stream.Error
	}
	buf := stream.Buffer()
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

type renderer struct {
	stream *jsoniter.Stream
	opts   Opts
}

func (r *renderer) value(v value.Value) error {
	s := r.stream
	switch v := v.(type) {
	case value.Int:
		r.int(v)
	case value.Float:
		r.float(v)
	case value.Bool:
		s.WriteBool(bool(v))
	case value.Str:
		s.WriteString(string(v))
	case value.PublicKey:
		r.pubkey(solana.PublicKey(v))
	case value.Bytes:
		s.WriteArrayStart()
		for i, b := range v {
			if i > 0 {
				s.WriteMore()
			}
			s.WriteUint8(b)
		}
		s.WriteArrayEnd()
	case value.Option:
		if v.Some == nil {
			s.WriteNil()
			return nil
		}
		return r.value(v.Some)
	case value.Seq:
		return r.array(v.Elems)
	case value.Tuple:
		return r.array(v.Elems)
	case value.Set:
		return r.array(v.Elems)
	case value.Map:
		return r.mapping(v)
	case value.Struct:
		return r.object(v.Fields)
	case value.Enum:
		return r.enum(v)
	case nil:
		s.WriteNil()
	default:
		return fmt.Errorf("cannot render value of type %T", v)
	}
	return nil
}

func (r *renderer) int(v value.Int) {
	text := "0"
	if v.Big != nil {
		text = v.Big.String()
	}
	asString := (v.Bits == 64 && r.opts.N64AsString) || (v.Bits == 128 && r.opts.N128AsString)
	if asString {
		r.stream.WriteString(text)
		return
	}
	r.stream.WriteRaw(text)
}

// float writes finite values as shortest round-trip numbers of their width.
// JSON has no literal for NaN or the infinities, so those become strings.
func (r *renderer) float(v value.Float) {
	switch {
	case math.IsNaN(v.V):
		r.stream.WriteString("NaN")
	case math.IsInf(v.V, 1):
		r.stream.WriteString("Infinity")
	case math.IsInf(v.V, -1):
		r.stream.WriteString("-Infinity")
	default:
		bits := 64
		if v.Bits == 32 {
			bits = 32
		}
		r.stream.WriteRaw(strconv.FormatFloat(v.V, 'g', -1, bits))
	}
}

func (r *renderer) pubkey(pk solana.PublicKey) {
	if r.opts.PubkeyAsBase58 {
		r.stream.WriteString(pk.String())
		return
	}
	r.stream.WriteArrayStart()
	for i, b := range pk {
		if i > 0 {
			r.stream.WriteMore()
		}
		r.stream.WriteUint8(b)
	}
	r.stream.WriteArrayEnd()
}

func (r *renderer) array(elems []value.Value) error {
	r.stream.WriteArrayStart()
	for i, e := range elems {
		if i > 0 {
			r.stream.WriteMore()
		}
		if err := r.value(e); err != nil {
			return err
		}
	}
	r.stream.WriteArrayEnd()
	return nil
}

func (r *renderer) object(fields []value.NamedValue) error {
	r.stream.WriteObjectStart()
	for i, f := range fields {
		if i > 0 {
			r.stream.WriteMore()
		}
		r.stream.WriteObjectField(f.Name)
		if err := r.value(f.Value); err != nil {
			return err
		}
	}
	r.stream.WriteObjectEnd()
	return nil
}

// mapping renders map entries as object members. Keys that do not render as
// JSON strings are quoted from their rendered text.
func (r *renderer) mapping(m value.Map) error {
	r.stream.WriteObjectStart()
	for i, e := range m.Entries {
		if i > 0 {
			r.stream.WriteMore()
		}
		key, err := r.key(e.Key)
		if err != nil {
			return err
		}
		r.stream.WriteObjectField(key)
		if err := r.value(e.Value); err != nil {
			return err
		}
	}
	r.stream.WriteObjectEnd()
	return nil
}

func (r *renderer) key(k value.Value) (string, error) {
	switch k := k.(type) {
	case value.Str:
		return string(k), nil
	case value.PublicKey:
		if r.opts.PubkeyAsBase58 {
			return solana.PublicKey(k).String(), nil
		}
	case value.Int:
		if k.Big != nil {
			return k.Big.String(), nil
		}
	case value.Enum:
		if k.Payload == nil {
			return k.Variant, nil
		}
	}
	raw, err := Marshal(k, r.opts)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (r *renderer) enum(e value.Enum) error {
	s := r.stream
	switch p := e.Payload.(type) {
	case nil:
		s.WriteString(e.Variant)
		return nil
	case value.TuplePayload:
		s.WriteObjectStart()
		s.WriteObjectField(e.Variant)
		var err error
		if len(p.Elems) == 1 {
			err = r.value(p.Elems[0])
		} else {
			err = r.array(p.Elems)
		}
		if err != nil {
			return err
		}
		s.WriteObjectEnd()
	case value.StructPayload:
		s.WriteObjectStart()
		s.WriteObjectField(e.Variant)
		if err := r.object(p.Fields); err != nil {
			return err
		}
		s.WriteObjectEnd()
	default:
		return fmt.Errorf("cannot render enum payload of type %T", p)
	}
	return nil
}

package render_test

import (
	"bytes"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/chainparser/pkg/render"
	"github.com/smartcontractkit/chainparser/pkg/value"
)

var (
	mint         = solana.MustPublicKeyFromBase58("BrqNo3sQFTaq9JevoWYhgagJEjE3MmTgYonfaHV5Mf3E")
	candyMachine = solana.MustPublicKeyFromBase58("DpBwktkJsEPTtsRpD8kCFGwEUjwTkXARSGSTQ7MJr4kE")
)

func mustString(t *testing.T, v value.Value, opts render.Opts) string {
	t.Helper()
	out, err := render.ToString(v, opts)
	require.NoError(t, err)
	return out
}

func TestRender_Scalars(t *testing.T) {
	t.Parallel()

	maxU128, _ := new(big.Int).SetString("340282366920938463463374607431768211455", 10)
	minI128, _ := new(big.Int).SetString("-170141183460469231731687303715884105728", 10)

	cases := []struct {
		name string
		v    value.Value
		opts render.Opts
		want string
	}{
		{"u8", value.NewUint(8, 255), render.Opts{}, `255`},
		{"i32", value.NewInt(32, -7), render.Opts{}, `-7`},
		{"u32 ignores n64 flag", value.NewUint(32, 1), render.Opts{N64AsString: true, N128AsString: true}, `1`},
		{"u64 number", value.NewUint(64, math.MaxUint64), render.Opts{}, `18446744073709551615`},
		{"u64 string", value.NewUint(64, math.MaxUint64), render.Opts{N64AsString: true}, `"18446744073709551615"`},
		{"i64 string", value.NewInt(64, math.MinInt64), render.Opts{N64AsString: true}, `"-9223372036854775808"`},
		{"u64 ignores n128 flag", value.NewUint(64, 5), render.Opts{N128AsString: true}, `5`},
		{"u128 number", value.Int{Bits: 128, Big: maxU128}, render.Opts{}, `340282366920938463463374607431768211455`},
		{"i128 string", value.Int{Signed: true, Bits: 128, Big: minI128}, render.Opts{N128AsString: true}, `"-170141183460469231731687303715884105728"`},
		{"bool", value.Bool(false), render.Opts{}, `false`},
		{"string escapes", value.Str("a\"b\n<c>"), render.Opts{}, `"a\"b\n<c>"`},
		{"f64", value.Float{Bits: 64, V: 3.4028234663852886e+38}, render.Opts{}, `3.4028234663852886e+38`},
		{"f32 shortest", value.Float{Bits: 32, V: float64(float32(1.1))}, render.Opts{}, `1.1`},
		{"NaN", value.Float{Bits: 32, V: math.NaN()}, render.Opts{}, `"NaN"`},
		{"infinity", value.Float{Bits: 64, V: math.Inf(-1)}, render.Opts{}, `"-Infinity"`},
		{"bytes", value.Bytes{1, 2, 255}, render.Opts{}, `[1,2,255]`},
		{"empty bytes", value.Bytes{}, render.Opts{}, `[]`},
		{"none", value.Option{}, render.Opts{}, `null`},
		{"some", value.Option{Some: value.NewUint(16, 3)}, render.Opts{}, `3`},
		{"pubkey base58", value.PublicKey(mint), render.Opts{PubkeyAsBase58: true}, `"BrqNo3sQFTaq9JevoWYhgagJEjE3MmTgYonfaHV5Mf3E"`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, mustString(t, tc.v, tc.opts))
		})
	}
}

func TestRender_PubkeyAsArray(t *testing.T) {
	out := mustString(t, value.PublicKey(mint), render.Opts{})
	require.True(t, strings.HasPrefix(out, "["))
	parts := strings.Split(strings.Trim(out, "[]"), ",")
	assert.Len(t, parts, 32)
}

func TestRender_Composites(t *testing.T) {
	t.Parallel()

	t.Run("struct keeps declaration order", func(t *testing.T) {
		v := value.Struct{Fields: []value.NamedValue{
			{Name: "mint", Value: value.PublicKey(mint)},
			{Name: "candyMachine", Value: value.PublicKey(candyMachine)},
		}}
		assert.Equal(t,
			`{"mint":"BrqNo3sQFTaq9JevoWYhgagJEjE3MmTgYonfaHV5Mf3E","candyMachine":"DpBwktkJsEPTtsRpD8kCFGwEUjwTkXARSGSTQ7MJr4kE"}`,
			mustString(t, v, render.DefaultOpts()))
	})

	t.Run("enums", func(t *testing.T) {
		unit := value.Enum{Variant: "Scalar"}
		assert.Equal(t, `"Scalar"`, mustString(t, unit, render.Opts{}))

		single := value.Enum{Variant: "Single", Payload: value.TuplePayload{Elems: []value.Value{value.NewUint(32, 9)}}}
		assert.Equal(t, `{"Single":9}`, mustString(t, single, render.Opts{}))

		pair := value.Enum{Variant: "UnnamedFields", Payload: value.TuplePayload{Elems: []value.Value{
			value.NewUint(8, 3),
			value.Map{Entries: []value.MapEntry{{Key: value.NewUint(8, 4), Value: value.Str("four")}}},
		}}}
		assert.Equal(t, `{"UnnamedFields":[3,{"4":"four"}]}`, mustString(t, pair, render.Opts{}))

		named := value.Enum{Variant: "NamedFields", Payload: value.StructPayload{Fields: []value.NamedValue{
			{Name: "uno", Value: value.NewUint(8, 1)},
			{Name: "dos", Value: value.NewUint(8, 2)},
		}}}
		assert.Equal(t, `{"NamedFields":{"uno":1,"dos":2}}`, mustString(t, named, render.Opts{}))

		empty := value.Enum{Variant: "Empty", Payload: value.TuplePayload{}}
		assert.Equal(t, `{"Empty":[]}`, mustString(t, empty, render.Opts{}))
	})

	t.Run("sequences tuples and sets render as arrays", func(t *testing.T) {
		seq := value.Seq{Elems: []value.Value{value.NewInt(16, 1), value.NewInt(16, -3)}}
		assert.Equal(t, `[1,-3]`, mustString(t, seq, render.Opts{}))

		tuple := value.Tuple{Elems: []value.Value{value.NewUint(64, 42), value.Str("foo"), value.Option{}}}
		assert.Equal(t, `[42,"foo",null]`, mustString(t, tuple, render.Opts{}))

		set := value.Set{Elems: []value.Value{value.Str("uno"), value.Str("dos")}}
		assert.Equal(t, `["uno","dos"]`, mustString(t, set, render.Opts{}))

		assert.Equal(t, `[]`, mustString(t, value.Seq{}, render.Opts{}))
	})

	t.Run("map keys", func(t *testing.T) {
		m := value.Map{Entries: []value.MapEntry{
			{Key: value.Str("a"), Value: value.Bool(true)},
			{Key: value.NewUint(64, 7), Value: value.Bool(false)},
			{Key: value.PublicKey(mint), Value: value.Option{}},
		}}
		assert.Equal(t, `{"a":true,"7":false,"BrqNo3sQFTaq9JevoWYhgagJEjE3MmTgYonfaHV5Mf3E":null}`,
			mustString(t, m, render.DefaultOpts()))
		assert.Equal(t, `{}`, mustString(t, value.Map{}, render.Opts{}))
	})
}

func TestRender_OptionIndependence(t *testing.T) {
	v := value.Struct{Fields: []value.NamedValue{
		{Name: "key", Value: value.PublicKey(mint)},
		{Name: "n64", Value: value.NewUint(64, 1)},
		{Name: "n128", Value: value.Int{Bits: 128, Big: big.NewInt(2)}},
		{Name: "n32", Value: value.NewUint(32, 3)},
	}}

	base := render.Opts{}
	baseOut := mustString(t, v, base)

	withKeys := mustString(t, v, render.Opts{PubkeyAsBase58: true})
	assert.Equal(t, strings.Replace(baseOut, mustString(t, value.PublicKey(mint), base), `"`+mint.String()+`"`, 1), withKeys)

	with64 := mustString(t, v, render.Opts{N64AsString: true})
	assert.Equal(t, strings.Replace(baseOut, `"n64":1`, `"n64":"1"`, 1), with64)

	with128 := mustString(t, v, render.Opts{N128AsString: true})
	assert.Equal(t, strings.Replace(baseOut, `"n128":2`, `"n128":"2"`, 1), with128)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.Write(&buf, value.Str("x"), render.DefaultOpts()))
	assert.Equal(t, `"x"`, buf.String())

	buf.Reset()
	err := render.Write(&buf, value.Seq{Elems: []value.Value{value.NewUint(8, 1), unknownValue{}}}, render.DefaultOpts())
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestDefaultOpts(t *testing.T) {
	assert.Equal(t, render.Opts{PubkeyAsBase58: true}, render.DefaultOpts())
}

type unknownValue struct{ value.Struct }

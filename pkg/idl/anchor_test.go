package idl_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/chainparser/pkg/idl"
	"github.com/smartcontractkit/chainparser/internal/testutils"
)

func TestParseAnchor(t *testing.T) {
	t.Parallel()

	t.Run("legacy IDL registers inline account layouts", func(t *testing.T) {
		doc, err := idl.ParseAnchor(testutils.CandyMachineProgramID, []byte(testutils.CandyMachineIDL))
		require.NoError(t, err)

		assert.Equal(t, testutils.CandyMachineProgramID, doc.ProgramID)
		assert.Equal(t, "candy_machine", doc.Name)
		assert.Equal(t, "4.0.0", doc.Version)
		assert.Equal(t, idl.ProviderAnchor, doc.Provider)
		require.Len(t, doc.Accounts, 2)

		acc, ok := doc.Account("CollectionPDA")
		require.True(t, ok)
		assert.Equal(t, testutils.CollectionPDADiscriminator, acc.Discriminator)
		assert.Equal(t, idl.DefinedRef{Name: "CollectionPDA"}, acc.Type)

		def, ok := doc.Type("CollectionPDA")
		require.True(t, ok)
		assert.Equal(t, idl.StructDef{Fields: []idl.Field{
			{Name: "mint", Type: idl.Primitive{Kind: idl.KindPublicKey}},
			{Name: "candyMachine", Type: idl.Primitive{Kind: idl.KindPublicKey}},
		}}, def)

		def, ok = doc.Type("EndSettingType")
		require.True(t, ok)
		assert.Equal(t, idl.EnumDef{Variants: []idl.EnumVariant{{Name: "Date"}, {Name: "Amount"}}}, def)

		assert.Equal(t, []string{"CandyMachineData", "EndSettings", "Creator", "EndSettingType", "CandyMachine", "CollectionPDA"}, doc.TypeOrder)
	})

	t.Run("0.30 IDL keeps discriminators verbatim", func(t *testing.T) {
		doc, err := idl.ParseAnchor(testutils.StakeProgramID, []byte(testutils.StakeIDL))
		require.NoError(t, err)

		assert.Equal(t, "stake", doc.Name)
		assert.Equal(t, "0.1.0", doc.Version)
		acc, ok := doc.Account("EscrowHistory")
		require.True(t, ok)
		assert.Equal(t, testutils.EscrowHistoryDiscriminator, acc.Discriminator)

		def, ok := doc.Type("EscrowHistory")
		require.True(t, ok)
		fields := def.(idl.StructDef).Fields
		require.Len(t, fields, 4)
		assert.Equal(t, idl.Primitive{Kind: idl.KindPublicKey}, fields[0].Type)
		assert.Equal(t, idl.ArrayRef{Inner: idl.DefinedRef{Name: "EpochAmount"}, Len: 2}, fields[3].Type)
	})

	t.Run("maps every type shape", func(t *testing.T) {
		doc, err := idl.ParseAnchor(testutils.EverythingProgramID, []byte(testutils.EverythingIDL))
		require.NoError(t, err)

		def, ok := doc.Type("Everything")
		require.True(t, ok)
		byName := map[string]idl.TypeRef{}
		for _, f := range def.(idl.StructDef).Fields {
			byName[f.Name] = f.Type
		}
		assert.Equal(t, idl.Primitive{Kind: idl.KindBytes}, byName["blob"])
		assert.Equal(t, idl.OptionRef{Inner: idl.Primitive{Kind: idl.KindU16}}, byName["maybe"])
		assert.Equal(t, idl.VecRef{Inner: idl.Primitive{Kind: idl.KindI16}}, byName["list"])
		assert.Equal(t, idl.ArrayRef{Inner: idl.Primitive{Kind: idl.KindU8}, Len: 4}, byName["fixed"])
		assert.Equal(t, idl.TupleRef{Elems: []idl.TypeRef{idl.Primitive{Kind: idl.KindU8}, idl.Primitive{Kind: idl.KindString}}}, byName["pair"])
		assert.Equal(t, idl.MapRef{Key: idl.Primitive{Kind: idl.KindU8}, Value: idl.Primitive{Kind: idl.KindString}}, byName["lookup"])
		assert.Equal(t, idl.SetRef{Inner: idl.Primitive{Kind: idl.KindString}}, byName["tags"])
		assert.Equal(t, idl.DefinedRef{Name: "State"}, byName["state"])

		state, _ := doc.Type("State")
		variants := state.(idl.EnumDef).Variants
		require.Len(t, variants, 4)
		assert.Nil(t, variants[0].Payload)
		assert.Equal(t, idl.TuplePayload{Types: []idl.TypeRef{idl.Primitive{Kind: idl.KindU32}}}, variants[1].Payload)
		assert.Equal(t, idl.StructPayload{Fields: []idl.Field{
			{Name: "id", Type: idl.Primitive{Kind: idl.KindU8}},
			{Name: "note", Type: idl.Primitive{Kind: idl.KindString}},
		}}, variants[3].Payload)

		amount, _ := doc.Type("Amount")
		assert.Equal(t, idl.AliasDef{Target: idl.Primitive{Kind: idl.KindU64}}, amount)

		point, _ := doc.Type("Point")
		assert.Equal(t, idl.AliasDef{Target: idl.TupleRef{Elems: []idl.TypeRef{
			idl.Primitive{Kind: idl.KindI32}, idl.Primitive{Kind: idl.KindI32},
		}}}, point)

		for _, acc := range doc.Accounts {
			assert.Len(t, acc.Discriminator, idl.DiscriminatorLength, acc.Name)
		}
	})

	t.Run("undefined names are left to resolution", func(t *testing.T) {
		doc, err := idl.ParseAnchor("prog", []byte(testutils.UndefinedTypeIDL))
		require.NoError(t, err)
		_, ok := doc.Type("Missing")
		assert.False(t, ok)
	})

	t.Run("empty document has no accounts", func(t *testing.T) {
		doc, err := idl.ParseAnchor("prog", []byte(`{}`))
		require.NoError(t, err)
		assert.Empty(t, doc.Accounts)
	})
}

func TestParseAnchor_Invalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
	}{
		{"not JSON", `{"accounts": [`},
		{"not an object", `[1, 2]`},
		{"types not an array", `{"types": {}}`},
		{"account without name", `{"accounts": [{"type": {"kind": "struct", "fields": []}}]}`},
		{"type without definition", `{"types": [{"name": "A"}]}`},
		{"duplicate type", `{"types": [
			{"name": "A", "type": {"kind": "struct", "fields": []}},
			{"name": "A", "type": {"kind": "enum", "variants": []}}
		]}`},
		{"inline account clashes with type", `{
			"accounts": [{"name": "A", "type": {"kind": "struct", "fields": []}}],
			"types": [{"name": "A", "type": {"kind": "struct", "fields": []}}]
		}`},
		{"unknown primitive", `{"types": [{"name": "A", "type": {"kind": "struct", "fields": [{"name": "x", "type": "u256"}]}}]}`},
		{"unknown composite", `{"types": [{"name": "A", "type": {"kind": "struct", "fields": [{"name": "x", "type": {"list": "u8"}}]}}]}`},
		{"composite with two keys", `{"types": [{"name": "A", "type": {"kind": "struct", "fields": [{"name": "x", "type": {"vec": "u8", "option": "u8"}}]}}]}`},
		{"array without length", `{"types": [{"name": "A", "type": {"kind": "struct", "fields": [{"name": "x", "type": {"array": ["u8"]}}]}}]}`},
		{"array with negative length", `{"types": [{"name": "A", "type": {"kind": "struct", "fields": [{"name": "x", "type": {"array": ["u8", -1]}}]}}]}`},
		{"array with fractional length", `{"types": [{"name": "A", "type": {"kind": "struct", "fields": [{"name": "x", "type": {"array": ["u8", 1.5]}}]}}]}`},
		{"unknown kind", `{"types": [{"name": "A", "type": {"kind": "union"}}]}`},
		{"discriminator not bytes", `{"accounts": [{"name": "A", "discriminator": [1, 256]}], "types": [{"name": "A", "type": {"kind": "struct"}}]}`},
		{"empty discriminator", `{"accounts": [{"name": "A", "discriminator": []}], "types": [{"name": "A", "type": {"kind": "struct"}}]}`},
		{"generic defined type", `{"types": [{"name": "A", "type": {"kind": "struct", "fields": [{"name": "x", "type": {"defined": {"name": "B", "generics": [{"kind": "type", "type": "u8"}]}}}]}}]}`},
		{"field without type", `{"types": [{"name": "A", "type": {"kind": "struct", "fields": [{"name": "x"}]}}]}`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := idl.ParseAnchor("prog", []byte(tc.raw))
			require.Error(t, err)
			assert.True(t, errors.Is(err, idl.ErrInvalidIDL), err.Error())
		})
	}
}

func TestParse_Provider(t *testing.T) {
	t.Parallel()

	p, err := idl.ParseProvider(" Anchor ")
	require.NoError(t, err)
	assert.Equal(t, idl.ProviderAnchor, p)

	_, err = idl.ParseProvider("shank")
	require.ErrorIs(t, err, idl.ErrUnsupportedProvider)

	_, err = idl.Parse("prog", []byte(testutils.CandyMachineIDL), idl.Provider("codama"))
	require.ErrorIs(t, err, idl.ErrUnsupportedProvider)

	doc, err := idl.Parse("prog", []byte(testutils.CandyMachineIDL), idl.ProviderAnchor)
	require.NoError(t, err)
	assert.Len(t, doc.Accounts, 2)
}

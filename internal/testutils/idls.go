package testutils

const (
	CandyMachineProgramID = "cndy3Z4yapfJBmL3ShUp5exZKqR3z33thTzeNMm2gRZ"
	StakeProgramID        = "StakeSSzfxn391k3LvdKbZP5WVwWd6AsY1DNiXHjQfK"
	EverythingProgramID   = "Evry1hNgTqp2Hd7sDqE6SaHHQ4G8rzjuNrRxnV9Vr6e"
)

// CollectionPDADiscriminator is the Anchor account discriminator of CollectionPDA.
var CollectionPDADiscriminator = []byte{50, 183, 127, 103, 4, 213, 92, 53}

// EscrowHistoryDiscriminator is the Anchor account discriminator of EscrowHistory.
var EscrowHistoryDiscriminator = []byte{170, 160, 173, 100, 94, 119, 107, 81}

// EverythingDiscriminator is used by EverythingIDL for its main account.
var EverythingDiscriminator = []byte{85, 58, 4, 237, 108, 149, 171, 3}

// TreeDiscriminator is used by EverythingIDL for the recursive account.
var TreeDiscriminator = []byte{100, 9, 213, 154, 6, 136, 109, 55}

// CandyMachineIDL is a legacy Anchor IDL: accounts carry their layout inline
// and have no discriminator field.
const CandyMachineIDL = `{
	"version": "4.0.0",
	"name": "candy_machine",
	"accounts": [
		{
			"name": "CandyMachine",
			"type": {
				"kind": "struct",
				"fields": [
					{"name": "authority", "type": "publicKey"},
					{"name": "wallet", "type": "publicKey"},
					{"name": "tokenMint", "type": {"option": "publicKey"}},
					{"name": "itemsRedeemed", "type": "u64"},
					{"name": "data", "type": {"defined": "CandyMachineData"}}
				]
			}
		},
		{
			"name": "CollectionPDA",
			"type": {
				"kind": "struct",
				"fields": [
					{"name": "mint", "type": "publicKey"},
					{"name": "candyMachine", "type": "publicKey"}
				]
			}
		}
	],
	"types": [
		{
			"name": "CandyMachineData",
			"type": {
				"kind": "struct",
				"fields": [
					{"name": "uuid", "type": "string"},
					{"name": "price", "type": "u64"},
					{"name": "symbol", "type": "string"},
					{"name": "sellerFeeBasisPoints", "type": "u16"},
					{"name": "maxSupply", "type": "u64"},
					{"name": "isMutable", "type": "bool"},
					{"name": "retainAuthority", "type": "bool"},
					{"name": "goLiveDate", "type": {"option": "i64"}},
					{"name": "endSettings", "type": {"option": {"defined": "EndSettings"}}},
					{"name": "creators", "type": {"vec": {"defined": "Creator"}}},
					{"name": "itemsAvailable", "type": "u64"}
				]
			}
		},
		{
			"name": "EndSettings",
			"type": {
				"kind": "struct",
				"fields": [
					{"name": "endSettingType", "type": {"defined": "EndSettingType"}},
					{"name": "number", "type": "u64"}
				]
			}
		},
		{
			"name": "Creator",
			"type": {
				"kind": "struct",
				"fields": [
					{"name": "address", "type": "publicKey"},
					{"name": "verified", "type": "bool"},
					{"name": "share", "type": "u8"}
				]
			}
		},
		{
			"name": "EndSettingType",
			"type": {
				"kind": "enum",
				"variants": [
					{"name": "Date"},
					{"name": "Amount"}
				]
			}
		}
	]
}`

// StakeIDL is an Anchor 0.30 IDL: accounts reference entries of types and
// carry their discriminators.
const StakeIDL = `{
	"address": "StakeSSzfxn391k3LvdKbZP5WVwWd6AsY1DNiXHjQfK",
	"metadata": {"name": "stake", "version": "0.1.0", "spec": "0.1.0"},
	"instructions": [],
	"accounts": [
		{"name": "EscrowHistory", "discriminator": [170, 160, 173, 100, 94, 119, 107, 81]}
	],
	"types": [
		{
			"name": "EscrowHistory",
			"type": {
				"kind": "struct",
				"fields": [
					{"name": "escrow", "type": "pubkey"},
					{"name": "era", "type": "u32"},
					{"name": "lockedAmount", "type": "u64"},
					{"name": "history", "type": {"array": [{"defined": {"name": "EpochAmount"}}, 2]}}
				]
			}
		},
		{
			"name": "EpochAmount",
			"type": {
				"kind": "struct",
				"fields": [
					{"name": "epoch", "type": "u16"},
					{"name": "amount", "type": "u64"}
				]
			}
		}
	]
}`

// EverythingIDL covers every type shape the decoder understands, including a
// self-recursive type and a mutually recursive pair.
const EverythingIDL = `{
	"address": "Evry1hNgTqp2Hd7sDqE6SaHHQ4G8rzjuNrRxnV9Vr6e",
	"metadata": {"name": "everything", "version": "0.2.0"},
	"accounts": [
		{"name": "Everything", "discriminator": [85, 58, 4, 237, 108, 149, 171, 3]},
		{"name": "Tree", "discriminator": [100, 9, 213, 154, 6, 136, 109, 55]}
	],
	"types": [
		{
			"name": "Everything",
			"type": {
				"kind": "struct",
				"fields": [
					{"name": "flag", "type": "bool"},
					{"name": "small", "type": "i8"},
					{"name": "medium", "type": "u32"},
					{"name": "big", "type": "u64"},
					{"name": "signedBig", "type": "i64"},
					{"name": "huge", "type": "u128"},
					{"name": "signedHuge", "type": "i128"},
					{"name": "ratio", "type": "f64"},
					{"name": "label", "type": "string"},
					{"name": "blob", "type": "bytes"},
					{"name": "owner", "type": "pubkey"},
					{"name": "maybe", "type": {"option": "u16"}},
					{"name": "list", "type": {"vec": "i16"}},
					{"name": "fixed", "type": {"array": ["u8", 4]}},
					{"name": "pair", "type": {"tuple": ["u8", "string"]}},
					{"name": "lookup", "type": {"hashMap": ["u8", "string"]}},
					{"name": "tags", "type": {"bTreeSet": "string"}},
					{"name": "state", "type": {"defined": {"name": "State"}}},
					{"name": "amount", "type": {"defined": {"name": "Amount"}}},
					{"name": "point", "type": {"defined": {"name": "Point"}}}
				]
			}
		},
		{
			"name": "State",
			"type": {
				"kind": "enum",
				"variants": [
					{"name": "Idle"},
					{"name": "Single", "fields": ["u32"]},
					{"name": "Pair", "fields": ["u8", "u8"]},
					{"name": "Named", "fields": [{"name": "id", "type": "u8"}, {"name": "note", "type": "string"}]}
				]
			}
		},
		{
			"name": "Amount",
			"type": {"kind": "type", "alias": "u64"}
		},
		{
			"name": "Point",
			"type": {"kind": "struct", "fields": ["i32", "i32"]}
		},
		{
			"name": "Tree",
			"type": {
				"kind": "struct",
				"fields": [
					{"name": "value", "type": "u8"},
					{"name": "children", "type": {"vec": {"defined": {"name": "Tree"}}}},
					{"name": "forest", "type": {"option": {"defined": {"name": "Forest"}}}}
				]
			}
		},
		{
			"name": "Forest",
			"type": {
				"kind": "struct",
				"fields": [
					{"name": "trees", "type": {"vec": {"defined": {"name": "Tree"}}}}
				]
			}
		}
	]
}`

// NestedStructIDL is a legacy IDL with nested arrays and defined types.
const NestedStructIDL = `{
	"version": "0.1.0",
	"name": "nested_struct",
	"accounts": [
		{
			"name": "StructWithNestedStruct",
			"type": {
				"kind": "struct",
				"fields": [
					{"name": "value", "type": "u8"},
					{"name": "innerStruct", "type": {"defined": "ObjectRef1"}},
					{"name": "basicNestedArray", "type": {"array": [{"array": ["u32", 3]}, 3]}},
					{"name": "option", "type": {"option": "string"}},
					{"name": "definedArray", "type": {"array": [{"defined": "ObjectRef2"}, 2]}}
				]
			}
		}
	],
	"types": [
		{
			"name": "ObjectRef1",
			"type": {
				"kind": "struct",
				"fields": [
					{"name": "prop1", "type": "i8"},
					{"name": "prop2", "type": "string"},
					{"name": "prop3", "type": "u128"}
				]
			}
		},
		{
			"name": "ObjectRef2",
			"type": {
				"kind": "struct",
				"fields": [
					{"name": "prop1", "type": "u32"},
					{"name": "prop2", "type": "i128"}
				]
			}
		}
	]
}`

// UndefinedTypeIDL references a type that is never declared.
const UndefinedTypeIDL = `{
	"version": "0.1.0",
	"name": "broken",
	"accounts": [
		{
			"name": "Holder",
			"type": {
				"kind": "struct",
				"fields": [
					{"name": "missing", "type": {"defined": "Missing"}}
				]
			}
		}
	]
}`

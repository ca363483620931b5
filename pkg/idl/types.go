package idl

// Kind enumerates the primitive types an IDL can reference.
type Kind string

const (
	KindBool      Kind = "bool"
	KindU8        Kind = "u8"
	KindI8        Kind = "i8"
	KindU16       Kind = "u16"
	KindI16       Kind = "i16"
	KindU32       Kind = "u32"
	KindI32       Kind = "i32"
	KindU64       Kind = "u64"
	KindI64       Kind = "i64"
	KindU128      Kind = "u128"
	KindI128      Kind = "i128"
	KindF32       Kind = "f32"
	KindF64       Kind = "f64"
	KindString    Kind = "string"
	KindBytes     Kind = "bytes"
	KindPublicKey Kind = "publicKey"
)

// IntBits returns the bit width and signedness of integer kinds. ok is false for
// every other kind.
func (k Kind) IntBits() (bits int, signed bool, ok bool) {
	switch k {
	case KindU8:
		return 8, false, true
	case KindI8:
		return 8, true, true
	case KindU16:
		return 16, false, true
	case KindI16:
		return 16, true, true
	case KindU32:
		return 32, false, true
	case KindI32:
		return 32, true, true
	case KindU64:
		return 64, false, true
	case KindI64:
		return 64, true, true
	case KindU128:
		return 128, false, true
	case KindI128:
		return 128, true, true
	default:
		return 0, false, false
	}
}

// TypeRef is a reference to a type as it appears in a field, variant or account.
type TypeRef interface {
	isTypeRef()
}

type Primitive struct {
	Kind Kind
}

type OptionRef struct {
	Inner TypeRef
}

// VecRef is a u32 length-prefixed sequence.
type VecRef struct {
	Inner TypeRef
}

// ArrayRef is a sequence of exactly Len elements with no length prefix.
type ArrayRef struct {
	Inner TypeRef
	Len   int
}

// DefinedRef points at an entry of Document.Types.
type DefinedRef struct {
	Name string
}

type TupleRef struct {
	Elems []TypeRef
}

// MapRef covers both HashMap and BTreeMap, which share a wire format.
type MapRef struct {
	Key   TypeRef
	Value TypeRef
}

// SetRef covers both HashSet and BTreeSet.
type SetRef struct {
	Inner TypeRef
}

func (Primitive) isTypeRef()  {}
func (OptionRef) isTypeRef()  {}
func (VecRef) isTypeRef()     {}
func (ArrayRef) isTypeRef()   {}
func (DefinedRef) isTypeRef() {}
func (TupleRef) isTypeRef()   {}
func (MapRef) isTypeRef()     {}
func (SetRef) isTypeRef()     {}

// TypeDef is the body of a named type.
type TypeDef interface {
	isTypeDef()
}

type StructDef struct {
	Fields []Field
}

type EnumDef struct {
	Variants []EnumVariant
}

type AliasDef struct {
	Target TypeRef
}

func (StructDef) isTypeDef() {}
func (EnumDef) isTypeDef()   {}
func (AliasDef) isTypeDef()  {}

type Field struct {
	Name string
	Type TypeRef
}

// EnumVariant is a single enum variant. A nil Payload marks a unit variant.
type EnumVariant struct {
	Name    string
	Payload VariantPayload
}

type VariantPayload interface {
	isVariantPayload()
}

type TuplePayload struct {
	Types []TypeRef
}

type StructPayload struct {
	Fields []Field
}

func (TuplePayload) isVariantPayload()  {}
func (StructPayload) isVariantPayload() {}

// AccountBinding ties an account name and its discriminator to the type the
// remaining account bytes are decoded as.
type AccountBinding struct {
	Name          string
	Discriminator []byte
	Type          TypeRef
}

// Document is the typed form of a single program's IDL. It is built once and
// never mutated afterwards.
type Document struct {
	ProgramID string
	Name      string
	Version   string
	Provider  Provider

	Types map[string]TypeDef
	// TypeOrder keeps the declaration order of Types.
	TypeOrder []string
	Accounts  []AccountBinding
}

func (d *Document) Type(name string) (TypeDef, bool) {
	def, ok := d.Types[name]
	return def, ok
}

func (d *Document) Account(name string) (AccountBinding, bool) {
	for _, acc := range d.Accounts {
		if acc.Name == name {
			return acc, true
		}
	}
	return AccountBinding{}, false
}

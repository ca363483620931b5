package idl

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"
	"go.uber.org/multierr"
)

// MaxArrayLen bounds the length of fixed size arrays accepted from an IDL.
const MaxArrayLen = math.MaxInt32

var anchorPrimitives = map[string]Kind{
	"bool":      KindBool,
	"u8":        KindU8,
	"i8":        KindI8,
	"u16":       KindU16,
	"i16":       KindI16,
	"u32":       KindU32,
	"i32":       KindI32,
	"u64":       KindU64,
	"i64":       KindI64,
	"u128":      KindU128,
	"i128":      KindI128,
	"f32":       KindF32,
	"f64":       KindF64,
	"string":    KindString,
	"bytes":     KindBytes,
	"publicKey": KindPublicKey,
	"pubkey":    KindPublicKey,
}

// ParseAnchor maps an Anchor IDL into a Document. Both the legacy layout (accounts
// with inline types, "publicKey", {"defined": "Name"}) and the 0.30 layout
// (accounts with discriminators referencing "types", "pubkey",
// {"defined": {"name": "Name"}}) are understood.
func ParseAnchor(programID string, raw []byte) (*Document, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: document is not valid JSON", ErrInvalidIDL)
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: document must be a JSON object", ErrInvalidIDL)
	}

	doc := &Document{
		ProgramID: programID,
		Name:      firstString(root, "name", "metadata.name"),
		Version:   firstString(root, "version", "metadata.version"),
		Provider:  ProviderAnchor,
		Types:     map[string]TypeDef{},
	}

	var errs error

	types := root.Get("types")
	if types.Exists() && !types.IsArray() {
		errs = multierr.Append(errs, fmt.Errorf("%w: types must be an array", ErrInvalidIDL))
	}
	for i, entry := range arrayOf(types) {
		name, def, err := parseNamedTypeDef(entry)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("types[%d]: %w", i, err))
			continue
		}
		if err := doc.addType(name, def); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	accounts := root.Get("accounts")
	if accounts.Exists() && !accounts.IsArray() {
		errs = multierr.Append(errs, fmt.Errorf("%w: accounts must be an array", ErrInvalidIDL))
	}
	for i, entry := range arrayOf(accounts) {
		binding, inline, err := parseAccount(entry)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("accounts[%d]: %w", i, err))
			continue
		}
		// legacy IDLs declare the account layout inline instead of in types
		if inline != nil {
			if err := doc.addType(binding.Name, inline); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
		}
		doc.Accounts = append(doc.Accounts, binding)
	}

	if errs != nil {
		return nil, errs
	}
	return doc, nil
}

func (d *Document) addType(name string, def TypeDef) error {
	if _, exists := d.Types[name]; exists {
		return fmt.Errorf("%w: duplicate type %q", ErrInvalidIDL, name)
	}
	d.Types[name] = def
	d.TypeOrder = append(d.TypeOrder, name)
	return nil
}

func arrayOf(v gjson.Result) []gjson.Result {
	if !v.IsArray() {
		return nil
	}
	return v.Array()
}

func firstString(root gjson.Result, paths ...string) string {
	for _, path := range paths {
		if v := root.Get(path); v.Type == gjson.String {
			return v.String()
		}
	}
	return ""
}

func requireName(entry gjson.Result) (string, error) {
	name := entry.Get("name")
	if name.Type != gjson.String || name.String() == "" {
		return "", fmt.Errorf("%w: missing name", ErrInvalidIDL)
	}
	return name.String(), nil
}

func parseAccount(entry gjson.Result) (AccountBinding, TypeDef, error) {
	name, err := requireName(entry)
	if err != nil {
		return AccountBinding{}, nil, err
	}

	binding := AccountBinding{Name: name, Type: DefinedRef{Name: name}}

	disc := entry.Get("discriminator")
	if disc.Exists() {
		binding.Discriminator, err = parseByteArray(disc)
		if err != nil {
			return AccountBinding{}, nil, fmt.Errorf("account %q: %w", name, err)
		}
	} else {
		binding.Discriminator = AccountDiscriminator(name)
	}

	var inline TypeDef
	if ty := entry.Get("type"); ty.Exists() {
		inline, err = parseTypeDef(ty)
		if err != nil {
			return AccountBinding{}, nil, fmt.Errorf("account %q: %w", name, err)
		}
	}

	return binding, inline, nil
}

func parseByteArray(v gjson.Result) ([]byte, error) {
	if !v.IsArray() {
		return nil, fmt.Errorf("%w: discriminator must be an array of bytes", ErrInvalidIDL)
	}
	items := v.Array()
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: discriminator must not be empty", ErrInvalidIDL)
	}
	out := make([]byte, len(items))
	for i, item := range items {
		n, ok := wholeNumber(item)
		if !ok || n < 0 || n > math.MaxUint8 {
			return nil, fmt.Errorf("%w: discriminator byte %d is %s", ErrInvalidIDL, i, item.Raw)
		}
		out[i] = byte(n)
	}
	return out, nil
}

func wholeNumber(v gjson.Result) (int64, bool) {
	if v.Type != gjson.Number {
		return 0, false
	}
	if v.Num != math.Trunc(v.Num) {
		return 0, false
	}
	return v.Int(), true
}

func parseNamedTypeDef(entry gjson.Result) (string, TypeDef, error) {
	name, err := requireName(entry)
	if err != nil {
		return "", nil, err
	}
	ty := entry.Get("type")
	if !ty.Exists() {
		return "", nil, fmt.Errorf("%w: type %q has no definition", ErrInvalidIDL, name)
	}
	def, err := parseTypeDef(ty)
	if err != nil {
		return "", nil, fmt.Errorf("type %q: %w", name, err)
	}
	return name, def, nil
}

func parseTypeDef(ty gjson.Result) (TypeDef, error) {
	if !ty.IsObject() {
		return nil, fmt.Errorf("%w: type definition must be an object", ErrInvalidIDL)
	}
	kind := ty.Get("kind").String()
	switch kind {
	case "struct":
		fields := ty.Get("fields")
		if !fields.Exists() {
			return StructDef{}, nil
		}
		if !fields.IsArray() {
			return nil, fmt.Errorf("%w: fields must be an array", ErrInvalidIDL)
		}
		if isTupleFields(fields) {
			elems, err := parseTypeList(fields)
			if err != nil {
				return nil, err
			}
			return AliasDef{Target: TupleRef{Elems: elems}}, nil
		}
		parsed, err := parseFields(fields)
		if err != nil {
			return nil, err
		}
		return StructDef{Fields: parsed}, nil
	case "enum":
		variants := ty.Get("variants")
		if variants.Exists() && !variants.IsArray() {
			return nil, fmt.Errorf("%w: enum variants must be an array", ErrInvalidIDL)
		}
		def := EnumDef{}
		for i, v := range variants.Array() {
			variant, err := parseVariant(v)
			if err != nil {
				return nil, fmt.Errorf("variant %d: %w", i, err)
			}
			def.Variants = append(def.Variants, variant)
		}
		return def, nil
	case "type":
		target, err := parseTypeRef(ty.Get("alias"))
		if err != nil {
			return nil, err
		}
		return AliasDef{Target: target}, nil
	case "alias":
		target, err := parseTypeRef(ty.Get("value"))
		if err != nil {
			return nil, err
		}
		return AliasDef{Target: target}, nil
	default:
		return nil, fmt.Errorf("%w: unknown type kind %q", ErrInvalidIDL, kind)
	}
}

// isTupleFields reports whether a field list holds bare types rather than
// named fields, as 0.30 IDLs emit for tuple structs and tuple variants.
func isTupleFields(fields gjson.Result) bool {
	items := fields.Array()
	if len(items) == 0 {
		return false
	}
	return !(items[0].IsObject() && items[0].Get("name").Exists() && items[0].Get("type").Exists())
}

func parseFields(fields gjson.Result) ([]Field, error) {
	if !fields.IsArray() {
		return nil, fmt.Errorf("%w: fields must be an array", ErrInvalidIDL)
	}
	var out []Field
	for i, f := range fields.Array() {
		name, err := requireName(f)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		ty, err := parseTypeRef(f.Get("type"))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		out = append(out, Field{Name: name, Type: ty})
	}
	return out, nil
}

func parseVariant(v gjson.Result) (EnumVariant, error) {
	name, err := requireName(v)
	if err != nil {
		return EnumVariant{}, err
	}
	variant := EnumVariant{Name: name}

	fields := v.Get("fields")
	if !fields.Exists() || len(fields.Array()) == 0 {
		return variant, nil
	}
	if !fields.IsArray() {
		return EnumVariant{}, fmt.Errorf("%w: variant %q fields must be an array", ErrInvalidIDL, name)
	}

	if isTupleFields(fields) {
		types, err := parseTypeList(fields)
		if err != nil {
			return EnumVariant{}, fmt.Errorf("variant %q: %w", name, err)
		}
		variant.Payload = TuplePayload{Types: types}
		return variant, nil
	}

	named, err := parseFields(fields)
	if err != nil {
		return EnumVariant{}, fmt.Errorf("variant %q: %w", name, err)
	}
	variant.Payload = StructPayload{Fields: named}
	return variant, nil
}

func parseTypeList(list gjson.Result) ([]TypeRef, error) {
	var out []TypeRef
	for i, item := range list.Array() {
		ty, err := parseTypeRef(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, ty)
	}
	return out, nil
}

func parseTypeRef(v gjson.Result) (TypeRef, error) {
	switch {
	case !v.Exists():
		return nil, fmt.Errorf("%w: missing type", ErrInvalidIDL)
	case v.Type == gjson.String:
		kind, ok := anchorPrimitives[v.String()]
		if !ok {
			return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidIDL, v.String())
		}
		return Primitive{Kind: kind}, nil
	case v.IsObject():
		return parseCompositeRef(v)
	default:
		return nil, fmt.Errorf("%w: unrecognized type %s", ErrInvalidIDL, v.Raw)
	}
}

func parseCompositeRef(v gjson.Result) (TypeRef, error) {
	var (
		key   string
		inner gjson.Result
		count int
	)
	v.ForEach(func(k, val gjson.Result) bool {
		key, inner = k.String(), val
		count++
		return true
	})
	if count != 1 {
		return nil, fmt.Errorf("%w: type object must have exactly one key, got %s", ErrInvalidIDL, v.Raw)
	}

	switch key {
	case "option":
		elem, err := parseTypeRef(inner)
		if err != nil {
			return nil, err
		}
		return OptionRef{Inner: elem}, nil
	case "vec":
		elem, err := parseTypeRef(inner)
		if err != nil {
			return nil, err
		}
		return VecRef{Inner: elem}, nil
	case "hashSet", "bTreeSet":
		elem, err := parseTypeRef(inner)
		if err != nil {
			return nil, err
		}
		return SetRef{Inner: elem}, nil
	case "array":
		items := inner.Array()
		if !inner.IsArray() || len(items) != 2 {
			return nil, fmt.Errorf("%w: array must be [type, length], got %s", ErrInvalidIDL, inner.Raw)
		}
		elem, err := parseTypeRef(items[0])
		if err != nil {
			return nil, err
		}
		n, ok := wholeNumber(items[1])
		if !ok || n < 0 || n > MaxArrayLen {
			return nil, fmt.Errorf("%w: invalid array length %s", ErrInvalidIDL, items[1].Raw)
		}
		return ArrayRef{Inner: elem, Len: int(n)}, nil
	case "hashMap", "bTreeMap":
		items := inner.Array()
		if !inner.IsArray() || len(items) != 2 {
			return nil, fmt.Errorf("%w: %s must be [key, value], got %s", ErrInvalidIDL, key, inner.Raw)
		}
		k, err := parseTypeRef(items[0])
		if err != nil {
			return nil, err
		}
		val, err := parseTypeRef(items[1])
		if err != nil {
			return nil, err
		}
		return MapRef{Key: k, Value: val}, nil
	case "tuple":
		if !inner.IsArray() {
			return nil, fmt.Errorf("%w: tuple must be an array, got %s", ErrInvalidIDL, inner.Raw)
		}
		elems, err := parseTypeList(inner)
		if err != nil {
			return nil, err
		}
		return TupleRef{Elems: elems}, nil
	case "defined":
		switch {
		case inner.Type == gjson.String && inner.String() != "":
			return DefinedRef{Name: inner.String()}, nil
		case inner.IsObject() && inner.Get("name").Type == gjson.String:
			if generics := inner.Get("generics"); len(generics.Array()) > 0 {
				return nil, fmt.Errorf("%w: generic type %q is not supported", ErrInvalidIDL, inner.Get("name").String())
			}
			return DefinedRef{Name: inner.Get("name").String()}, nil
		default:
			return nil, fmt.Errorf("%w: invalid defined reference %s", ErrInvalidIDL, inner.Raw)
		}
	default:
		return nil, fmt.Errorf("%w: unrecognized type %q", ErrInvalidIDL, key)
	}
}

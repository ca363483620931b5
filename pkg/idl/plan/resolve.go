package plan

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/smartcontractkit/chainparser/pkg/idl"
)

type resolver struct {
	doc   *idl.Document
	plan  *Plan
	prims map[idl.Kind]int
}

// Resolve builds the decoding plan of every declared type and every account
// binding of doc. A defined name gets its index reserved before its body is
// resolved, so self and mutual recursion point back at the reserved index.
func Resolve(doc *idl.Document) (*Plan, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", idl.ErrInvalidIDL)
	}
	r := &resolver{
		doc:   doc,
		plan:  &Plan{ByName: make(map[string]int, len(doc.Types))},
		prims: map[idl.Kind]int{},
	}

	for _, name := range typeNames(doc) {
		if _, err := r.defined(name); err != nil {
			return nil, err
		}
	}

	for _, acc := range doc.Accounts {
		root, err := r.ref(acc.Type)
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", acc.Name, err)
		}
		r.plan.Accounts = append(r.plan.Accounts, AccountPlan{
			Name:          acc.Name,
			Discriminator: bytes.Clone(acc.Discriminator),
			Root:          root,
		})
	}

	if err := r.plan.checkAliasCycles(); err != nil {
		return nil, err
	}
	r.plan.minSizes = computeMinSizes(r.plan.Nodes)
	return r.plan, nil
}

// typeNames lists declared types in declaration order. Types missing from
// TypeOrder, as in hand built documents, follow in lexical order.
func typeNames(doc *idl.Document) []string {
	seen := make(map[string]bool, len(doc.Types))
	names := make([]string, 0, len(doc.Types))
	for _, name := range doc.TypeOrder {
		if _, ok := doc.Types[name]; ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	var rest []string
	for name := range doc.Types {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

func (r *resolver) add(n Node) int {
	r.plan.Nodes = append(r.plan.Nodes, n)
	return len(r.plan.Nodes) - 1
}

func (r *resolver) defined(name string) (int, error) {
	if idx, ok := r.plan.ByName[name]; ok {
		return idx, nil
	}
	def, ok := r.doc.Types[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", idl.ErrUndefinedType, name)
	}

	idx := r.add(nil)
	r.plan.ByName[name] = idx

	switch d := def.(type) {
	case idl.StructDef:
		fields, err := r.fields(d.Fields)
		if err != nil {
			return 0, fmt.Errorf("type %q: %w", name, err)
		}
		r.plan.Nodes[idx] = Struct{Name: name, Fields: fields}
	case idl.EnumDef:
		variants := make([]VariantPlan, 0, len(d.Variants))
		for _, v := range d.Variants {
			vp, err := r.variant(v)
			if err != nil {
				return 0, fmt.Errorf("type %q: variant %q: %w", name, v.Name, err)
			}
			variants = append(variants, vp)
		}
		r.plan.Nodes[idx] = Enum{Name: name, Variants: variants}
	case idl.AliasDef:
		target, err := r.ref(d.Target)
		if err != nil {
			return 0, fmt.Errorf("type %q: %w", name, err)
		}
		r.plan.Nodes[idx] = Ref{Name: name, Target: target}
	default:
		return 0, fmt.Errorf("%w: type %q has unsupported definition %T", idl.ErrInvalidIDL, name, def)
	}
	return idx, nil
}

func (r *resolver) fields(fields []idl.Field) ([]FieldPlan, error) {
	out := make([]FieldPlan, 0, len(fields))
	for _, f := range fields {
		idx, err := r.ref(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		out = append(out, FieldPlan{Name: f.Name, Type: idx})
	}
	return out, nil
}

func (r *resolver) variant(v idl.EnumVariant) (VariantPlan, error) {
	vp := VariantPlan{Name: v.Name}
	switch p := v.Payload.(type) {
	case nil:
		vp.Payload = PayloadNone
	case idl.TuplePayload:
		elems, err := r.refs(p.Types)
		if err != nil {
			return VariantPlan{}, err
		}
		vp.Payload, vp.Elems = PayloadTuple, elems
	case idl.StructPayload:
		fields, err := r.fields(p.Fields)
		if err != nil {
			return VariantPlan{}, err
		}
		vp.Payload, vp.Fields = PayloadStruct, fields
	default:
		return VariantPlan{}, fmt.Errorf("%w: unsupported variant payload %T", idl.ErrInvalidIDL, p)
	}
	return vp, nil
}

func (r *resolver) refs(types []idl.TypeRef) ([]int, error) {
	out := make([]int, 0, len(types))
	for i, t := range types {
		idx, err := r.ref(t)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, idx)
	}
	return out, nil
}

func (r *resolver) ref(t idl.TypeRef) (int, error) {
	switch t := t.(type) {
	case idl.Primitive:
		if !knownKind(t.Kind) {
			return 0, fmt.Errorf("%w: unknown primitive %q", idl.ErrInvalidIDL, t.Kind)
		}
		if idx, ok := r.prims[t.Kind]; ok {
			return idx, nil
		}
		idx := r.add(Prim{Kind: t.Kind})
		r.prims[t.Kind] = idx
		return idx, nil
	case idl.DefinedRef:
		return r.defined(t.Name)
	case idl.OptionRef:
		elem, err := r.ref(t.Inner)
		if err != nil {
			return 0, err
		}
		return r.add(Option{Elem: elem}), nil
	case idl.VecRef:
		elem, err := r.ref(t.Inner)
		if err != nil {
			return 0, err
		}
		return r.add(Vec{Elem: elem}), nil
	case idl.ArrayRef:
		if t.Len < 0 {
			return 0, fmt.Errorf("%w: negative array length %d", idl.ErrInvalidIDL, t.Len)
		}
		elem, err := r.ref(t.Inner)
		if err != nil {
			return 0, err
		}
		return r.add(Array{Elem: elem, Len: t.Len}), nil
	case idl.SetRef:
		elem, err := r.ref(t.Inner)
		if err != nil {
			return 0, err
		}
		return r.add(Set{Elem: elem}), nil
	case idl.MapRef:
		key, err := r.ref(t.Key)
		if err != nil {
			return 0, err
		}
		val, err := r.ref(t.Value)
		if err != nil {
			return 0, err
		}
		return r.add(Map{Key: key, Value: val}), nil
	case idl.TupleRef:
		elems, err := r.refs(t.Elems)
		if err != nil {
			return 0, err
		}
		return r.add(Tuple{Elems: elems}), nil
	case nil:
		return 0, fmt.Errorf("%w: missing type", idl.ErrInvalidIDL)
	default:
		return 0, fmt.Errorf("%w: unsupported type reference %T", idl.ErrInvalidIDL, t)
	}
}

func knownKind(k idl.Kind) bool {
	switch k {
	case idl.KindBool, idl.KindF32, idl.KindF64, idl.KindString, idl.KindBytes, idl.KindPublicKey:
		return true
	}
	_, _, ok := k.IntBits()
	return ok
}

// checkAliasCycles rejects aliases that only ever lead back to themselves.
// Such a type has no encoding.
func (p *Plan) checkAliasCycles() error {
	for idx, n := range p.Nodes {
		ref, ok := n.(Ref)
		if !ok {
			continue
		}
		seen := map[int]bool{idx: true}
		cur := ref.Target
		for {
			next, ok := p.Nodes[cur].(Ref)
			if !ok {
				break
			}
			if seen[cur] {
				return fmt.Errorf("%w: alias %q refers to itself", idl.ErrInvalidIDL, ref.Name)
			}
			seen[cur] = true
			cur = next.Target
		}
	}
	return nil
}

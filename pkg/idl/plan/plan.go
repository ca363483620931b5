// Package plan turns an IDL document into an index-addressed decoding plan.
// Every reference between nodes is an index into Plan.Nodes, so recursive type
// graphs resolve to a finite table.
package plan

import (
	"github.com/smartcontractkit/chainparser/pkg/idl"
)

// Node is a single entry of the plan table.
type Node interface {
	isNode()
}

type Prim struct {
	Kind idl.Kind
}

// Option holds a presence byte followed by Elem when present.
type Option struct {
	Elem int
}

// Vec holds a u32 count followed by that many Elem values.
type Vec struct {
	Elem int
}

type Array struct {
	Elem int
	Len  int
}

type Tuple struct {
	Elems []int
}

type Map struct {
	Key   int
	Value int
}

type Set struct {
	Elem int
}

type Struct struct {
	Name   string
	Fields []FieldPlan
}

type Enum struct {
	Name     string
	Variants []VariantPlan
}

// Ref is a named alias. Decoding it decodes Target.
type Ref struct {
	Name   string
	Target int
}

func (Prim) isNode()   {}
func (Option) isNode() {}
func (Vec) isNode()    {}
func (Array) isNode()  {}
func (Tuple) isNode()  {}
func (Map) isNode()    {}
func (Set) isNode()    {}
func (Struct) isNode() {}
func (Enum) isNode()   {}
func (Ref) isNode()    {}

type FieldPlan struct {
	Name string
	Type int
}

type PayloadKind int

const (
	PayloadNone PayloadKind = iota
	PayloadTuple
	PayloadStruct
)

// VariantPlan is one enum variant. Elems is set for tuple payloads and Fields
// for struct payloads.
type VariantPlan struct {
	Name    string
	Payload PayloadKind
	Elems   []int
	Fields  []FieldPlan
}

// AccountPlan binds an account discriminator to the plan node its data decodes as.
type AccountPlan struct {
	Name          string
	Discriminator []byte
	Root          int
}

// Plan is the resolved form of a Document. It is read-only once Resolve returns.
type Plan struct {
	Nodes []Node
	// ByName maps each declared type to its node.
	ByName   map[string]int
	Accounts []AccountPlan

	minSizes []int
}

func (p *Plan) Node(idx int) Node {
	return p.Nodes[idx]
}

func (p *Plan) Type(name string) (int, bool) {
	idx, ok := p.ByName[name]
	return idx, ok
}

func (p *Plan) Account(name string) (AccountPlan, bool) {
	for _, acc := range p.Accounts {
		if acc.Name == name {
			return acc, true
		}
	}
	return AccountPlan{}, false
}

// Deref follows alias references until it reaches a node that is not a Ref.
func (p *Plan) Deref(idx int) int {
	for i := 0; i <= len(p.Nodes); i++ {
		ref, ok := p.Nodes[idx].(Ref)
		if !ok {
			return idx
		}
		idx = ref.Target
	}
	return idx
}

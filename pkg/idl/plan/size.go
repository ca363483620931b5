package plan

import (
	"github.com/smartcontractkit/chainparser/pkg/idl"
)

// sizeCap saturates size arithmetic. Any size at or above it exceeds every
// buffer a decoder will see.
const sizeCap = 1 << 40

const lengthPrefixSize = 4

// PrimSize returns the encoded size of a primitive. Strings and bytes report
// their length prefix only.
func PrimSize(k idl.Kind) int {
	switch k {
	case idl.KindBool, idl.KindU8, idl.KindI8:
		return 1
	case idl.KindU16, idl.KindI16:
		return 2
	case idl.KindU32, idl.KindI32, idl.KindF32:
		return 4
	case idl.KindU64, idl.KindI64, idl.KindF64:
		return 8
	case idl.KindU128, idl.KindI128:
		return 16
	case idl.KindPublicKey:
		return 32
	case idl.KindString, idl.KindBytes:
		return lengthPrefixSize
	default:
		return 0
	}
}

func satAdd(a, b int) int {
	if a+b > sizeCap {
		return sizeCap
	}
	return a + b
}

func satMul(a, n int) int {
	if a == 0 || n == 0 {
		return 0
	}
	if a > sizeCap/n {
		return sizeCap
	}
	return a * n
}

// MinSize returns a lower bound of the number of bytes any value of the node
// consumes. Decoders use it to reject element counts the remaining input
// cannot hold before allocating.
func (p *Plan) MinSize(idx int) int {
	if idx < 0 || idx >= len(p.minSizes) {
		return 0
	}
	return p.minSizes[idx]
}

// computeMinSizes iterates the size equations upwards from zero. Every round
// yields a valid lower bound, and recursive types that never terminate simply
// keep growing until the round limit.
func computeMinSizes(nodes []Node) []int {
	sizes := make([]int, len(nodes))
	for round := 0; round <= len(nodes); round++ {
		changed := false
		for idx, n := range nodes {
			s := minSize(n, sizes)
			if s != sizes[idx] {
				sizes[idx] = s
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return sizes
}

func minSize(n Node, sizes []int) int {
	switch n := n.(type) {
	case Prim:
		return PrimSize(n.Kind)
	case Option:
		return 1
	case Vec, Map, Set:
		return lengthPrefixSize
	case Array:
		return satMul(sizes[n.Elem], n.Len)
	case Tuple:
		total := 0
		for _, e := range n.Elems {
			total = satAdd(total, sizes[e])
		}
		return total
	case Struct:
		total := 0
		for _, f := range n.Fields {
			total = satAdd(total, sizes[f.Type])
		}
		return total
	case Enum:
		smallest := -1
		for _, v := range n.Variants {
			s := variantSize(v, sizes)
			if smallest == -1 || s < smallest {
				smallest = s
			}
		}
		if smallest == -1 {
			smallest = 0
		}
		return satAdd(1, smallest)
	case Ref:
		return sizes[n.Target]
	default:
		return 0
	}
}

func variantSize(v VariantPlan, sizes []int) int {
	total := 0
	for _, e := range v.Elems {
		total = satAdd(total, sizes[e])
	}
	for _, f := range v.Fields {
		total = satAdd(total, sizes[f.Type])
	}
	return total
}

// FixedSize reports the exact encoded size of a node when every value of it
// has the same size. Enums qualify when all variants share one payload size.
func (p *Plan) FixedSize(idx int) (int, bool) {
	return p.fixedSize(idx, map[int]bool{})
}

func (p *Plan) fixedSize(idx int, visiting map[int]bool) (int, bool) {
	if visiting[idx] {
		return 0, false
	}
	visiting[idx] = true
	defer delete(visiting, idx)

	sum := func(elems []int) (int, bool) {
		total := 0
		for _, e := range elems {
			s, ok := p.fixedSize(e, visiting)
			if !ok {
				return 0, false
			}
			total = satAdd(total, s)
		}
		return total, true
	}
	fieldTypes := func(fields []FieldPlan) []int {
		out := make([]int, len(fields))
		for i, f := range fields {
			out[i] = f.Type
		}
		return out
	}

	switch n := p.Nodes[idx].(type) {
	case Prim:
		if n.Kind == idl.KindString || n.Kind == idl.KindBytes {
			return 0, false
		}
		return PrimSize(n.Kind), true
	case Array:
		s, ok := p.fixedSize(n.Elem, visiting)
		if !ok {
			return 0, false
		}
		return satMul(s, n.Len), true
	case Tuple:
		return sum(n.Elems)
	case Struct:
		return sum(fieldTypes(n.Fields))
	case Enum:
		size := -1
		for _, v := range n.Variants {
			s, ok := sum(append(append([]int{}, v.Elems...), fieldTypes(v.Fields)...))
			if !ok || (size != -1 && s != size) {
				return 0, false
			}
			size = s
		}
		if size == -1 {
			return 0, false
		}
		return satAdd(1, size), true
	case Ref:
		return p.fixedSize(n.Target, visiting)
	default:
		return 0, false
	}
}

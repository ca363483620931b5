package plan

import (
	"fmt"
	"io"

	"github.com/gagliardetto/treeout"
)

// Dump writes the plan of every account as an indented tree.
func (p *Plan) Dump(w io.Writer) error {
	tree := treeout.New(fmt.Sprintf("plan: %d nodes, %d accounts", len(p.Nodes), len(p.Accounts)))
	for _, acc := range p.Accounts {
		title := fmt.Sprintf("account %s discriminator=%x", acc.Name, acc.Discriminator)
		if size, ok := p.FixedSize(acc.Root); ok {
			title += fmt.Sprintf(" size=%d", size)
		} else {
			title += fmt.Sprintf(" min_size=%d", p.MinSize(acc.Root))
		}
		p.dumpNode(tree.Child(title), acc.Root, "", map[int]bool{})
	}
	_, err := io.WriteString(w, tree.String())
	return err
}

// DumpType writes the plan of a single declared type.
func (p *Plan) DumpType(w io.Writer, name string) error {
	idx, ok := p.ByName[name]
	if !ok {
		return fmt.Errorf("type %q is not part of the plan", name)
	}
	tree := treeout.New(fmt.Sprintf("type %s", name))
	p.dumpNode(tree, idx, "", map[int]bool{})
	_, err := io.WriteString(w, tree.String())
	return err
}

// branch is satisfied by both the tree root and its branches.
type branch interface {
	Child(string) treeout.Branches
}

func (p *Plan) dumpNode(parent branch, idx int, label string, path map[int]bool) {
	if path[idx] {
		parent.Child(label + p.Describe(idx) + " (recursive)")
		return
	}
	path[idx] = true
	defer delete(path, idx)

	switch n := p.Nodes[idx].(type) {
	case Prim:
		parent.Child(label + string(n.Kind))
	case Option:
		p.dumpNode(parent.Child(label+"option"), n.Elem, "", path)
	case Vec:
		p.dumpNode(parent.Child(label+"vec"), n.Elem, "", path)
	case Set:
		p.dumpNode(parent.Child(label+"set"), n.Elem, "", path)
	case Array:
		p.dumpNode(parent.Child(fmt.Sprintf("%sarray[%d]", label, n.Len)), n.Elem, "", path)
	case Map:
		b := parent.Child(label + "map")
		p.dumpNode(b, n.Key, "key: ", path)
		p.dumpNode(b, n.Value, "value: ", path)
	case Tuple:
		b := parent.Child(label + "tuple")
		for i, e := range n.Elems {
			p.dumpNode(b, e, fmt.Sprintf("%d: ", i), path)
		}
	case Struct:
		b := parent.Child(label + "struct " + n.Name)
		for _, f := range n.Fields {
			p.dumpNode(b, f.Type, f.Name+": ", path)
		}
	case Enum:
		b := parent.Child(label + "enum " + n.Name)
		for i, v := range n.Variants {
			vb := b.Child(fmt.Sprintf("%d %s", i, v.Name))
			for j, e := range v.Elems {
				p.dumpNode(vb, e, fmt.Sprintf("%d: ", j), path)
			}
			for _, f := range v.Fields {
				p.dumpNode(vb, f.Type, f.Name+": ", path)
			}
		}
	case Ref:
		p.dumpNode(parent.Child(label+"alias "+n.Name), n.Target, "", path)
	default:
		parent.Child(fmt.Sprintf("%s<unresolved %d>", label, idx))
	}
}

// Describe returns a short human readable name of a node.
func (p *Plan) Describe(idx int) string {
	if idx < 0 || idx >= len(p.Nodes) {
		return fmt.Sprintf("<node %d>", idx)
	}
	switch n := p.Nodes[idx].(type) {
	case Prim:
		return string(n.Kind)
	case Option:
		return "Option<" + p.Describe(n.Elem) + ">"
	case Vec:
		return "Vec<" + p.Describe(n.Elem) + ">"
	case Set:
		return "Set<" + p.Describe(n.Elem) + ">"
	case Array:
		return fmt.Sprintf("[%s; %d]", p.Describe(n.Elem), n.Len)
	case Map:
		return "Map<" + p.Describe(n.Key) + ", " + p.Describe(n.Value) + ">"
	case Tuple:
		return fmt.Sprintf("Tuple(%d)", len(n.Elems))
	case Struct:
		return n.Name
	case Enum:
		return n.Name
	case Ref:
		return n.Name
	default:
		return fmt.Sprintf("<node %d>", idx)
	}
}

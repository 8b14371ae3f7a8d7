package subenum

import (
	"go/ast"
	"go/token"
	"go/types"

	"github.com/signadot/subenum/syntax"
)

// Subset is a narrowed type being derived.
type Subset struct {
	// Name is the subset's type name.
	Name string

	// Pos is the position of Name in the invocation directive.
	Pos token.Pos

	// Variants are clones of the member variants, in order of appearance
	// in the original. A variant listing the subset twice appears twice.
	Variants []*syntax.Variant

	// Decl is the rendered declaration, set by Render.
	Decl *syntax.Decl
}

// Table holds the declared subsets in invocation order.
type Table struct {
	Subsets []*Subset

	index map[string]*Subset
}

// Lookup returns the subset with the given name, or nil.
func (t *Table) Lookup(name string) *Subset {
	return t.index[name]
}

// ParseArgs reads the subset names of an invocation directive on the type
// named original. Every entry must be a bare identifier, distinct from the
// others and from original.
func ParseArgs(inv *syntax.Attribute, original string) (*Table, error) {
	if inv.Form != syntax.ListForm {
		e := errorf(inv.Pos, ErrMalformedArgument, "//%s takes a parenthesized list of subset names", inv.Path)
		e.Err = inv.Err
		return nil, e
	}
	t := &Table{index: make(map[string]*Subset, len(inv.Args))}
	for i, arg := range inv.Args {
		pos := inv.ArgPos(i)
		id, ok := arg.(*ast.Ident)
		if !ok || id.Name == "_" {
			return nil, errorf(pos, ErrMalformedArgument, "%s is not a subset name", types.ExprString(arg))
		}
		if id.Name == original {
			return nil, errorf(pos, ErrDuplicateSubset, "subset %s has the name of the original type", id.Name)
		}
		if t.index[id.Name] != nil {
			return nil, errorf(pos, ErrDuplicateSubset, "subset %s is declared twice", id.Name)
		}
		s := &Subset{Name: id.Name, Pos: pos}
		t.Subsets = append(t.Subsets, s)
		t.index[s.Name] = s
	}
	return t, nil
}

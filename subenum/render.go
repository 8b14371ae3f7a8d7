package subenum

import (
	"strings"

	"github.com/signadot/subenum/naming"
	"github.com/signadot/subenum/syntax"
)

// Render derives each subset's declaration from original: same underlying
// type and inheritable directives, the subset's name, and its variants
// renamed by rules. Rendered variants keep the original name in Origin.
func Render(original *syntax.Decl, t *Table, rules *naming.Rules) error {
	for _, s := range t.Subsets {
		d := original.Clone()
		d.Name = s.Name
		d.Pos = s.Pos
		d.Attrs = inheritable(d.Attrs)
		d.Methods = nil
		d.Variants = make([]*syntax.Variant, len(s.Variants))
		for i, v := range s.Variants {
			name, err := rules.Variant(original.Name, s.Name, v.Origin)
			if err != nil {
				return &Error{Pos: s.Pos, Kind: ErrNaming, Message: "subset " + s.Name, Err: err}
			}
			c := v.Clone()
			c.Name = name
			c.Value = nil
			c.Attrs = inheritable(c.Attrs)
			d.Variants[i] = c
		}
		s.Decl = d
	}
	return nil
}

// inheritable keeps namespaced directives other than the toolchain's and
// our own. Prose-like paths without a namespace are dropped.
func inheritable(attrs []*syntax.Attribute) []*syntax.Attribute {
	var res []*syntax.Attribute
	for _, a := range attrs {
		if a.Form == syntax.InvalidForm || !strings.Contains(a.Path, ":") {
			continue
		}
		switch a.Namespace() {
		case "go", Namespace:
			continue
		}
		res = append(res, a)
	}
	return res
}

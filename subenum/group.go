package subenum

import (
	"github.com/signadot/subenum/debug"
	"github.com/signadot/subenum/syntax"
)

// Group appends a marker-free clone of every variant of d to each subset
// it requests. Requesting a subset missing from t fails.
func Group(d *syntax.Decl, t *Table) error {
	for _, v := range d.Variants {
		for ref, err := range Markers(v) {
			if err != nil {
				return err
			}
			s := t.Lookup(ref.Name)
			if s == nil {
				return errorf(ref.Pos, ErrUndeclaredSubset, "%s is not declared by //%s on %s; all subsets must be pre-declared", ref.Name, InvocationName, d.Name)
			}
			c := v.Clone()
			c.StripAttrs(MarkerName)
			s.Variants = append(s.Variants, c)
		}
	}
	if debug.Group() {
		for _, s := range t.Subsets {
			names := make([]string, len(s.Variants))
			for i, v := range s.Variants {
				names[i] = v.Name
			}
			debug.Logf("group: %s.%s = %v\n", d.Name, s.Name, names)
		}
	}
	return nil
}

// Sanitize removes the marker directives of d's variants, in place and
// from d's file, leaving the variants and their other directives as they
// are.
func Sanitize(d *syntax.Decl) {
	for _, v := range d.Variants {
		v.StripAttrs(MarkerName)
	}
}

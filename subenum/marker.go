package subenum

import (
	"go/ast"
	"go/token"
	"go/types"
	"iter"

	"github.com/signadot/subenum/syntax"
)

// Ref is a subset name requested by a marker directive.
type Ref struct {
	Name string
	Pos  token.Pos
}

// Markers returns the subset names requested by v's marker directives, in
// order. The sequence stops at the first malformed directive, yielding its
// error. Each call to the returned function rescans v.
func Markers(v *syntax.Variant) iter.Seq2[Ref, error] {
	return func(yield func(Ref, error) bool) {
		for _, a := range v.Attrs {
			if !a.Is(MarkerName) {
				continue
			}
			if a.Form != syntax.ListForm {
				e := errorf(a.Pos, ErrMalformedMarker, "//%s on %s must be a parenthesized list, not a %s", MarkerName, v.Name, a.Form)
				e.Err = a.Err
				yield(Ref{}, e)
				return
			}
			if v.Blank() {
				yield(Ref{}, errorf(a.Pos, ErrMalformedMarker, "the blank constant cannot join a subset"))
				return
			}
			for i, arg := range a.Args {
				id, ok := arg.(*ast.Ident)
				if !ok || id.Name == "_" {
					yield(Ref{}, errorf(a.ArgPos(i), ErrMalformedMarker, "%s is not a subset name", types.ExprString(arg)))
					return
				}
				if !yield(Ref{Name: id.Name, Pos: a.ArgPos(i)}, nil) {
					return
				}
			}
		}
	}
}

package subenum

import (
	"github.com/signadot/subenum/debug"
	"github.com/signadot/subenum/naming"
	"github.com/signadot/subenum/syntax"
)

// Options configure an expansion.
type Options struct {
	// Rules name the generated identifiers; nil means naming.Default().
	Rules *naming.Rules

	// Stringer adds a String method to each subset when the original
	// declares one.
	Stringer bool

	// Member adds a membership test per subset to the original.
	Member bool

	// Values adds a function listing each subset's values.
	Values bool
}

// Expansion is the result of expanding one annotated declaration.
type Expansion struct {
	// Original is the declaration with its subenum directives removed.
	Original *syntax.Decl

	// Subsets are in invocation order, each with its rendered Decl.
	Subsets []*Subset

	// Relations are in emission order.
	Relations []*Relation
}

// Expand expands d as directed by its invocation directive inv. On
// failure nothing is returned and d's file is left untouched; on success
// inv and every marker directive have been removed from d and its file.
func Expand(inv *syntax.Attribute, d *syntax.Decl, opts Options) (*Expansion, error) {
	if inv == nil {
		return nil, errorf(d.Pos, ErrMalformedArgument, "%s has no //%s directive", d.Name, InvocationName)
	}
	rules := opts.Rules
	if rules == nil {
		rules = naming.Default()
	}
	t, err := ParseArgs(inv, d.Name)
	if err != nil {
		return nil, err
	}
	if err := Validate(d); err != nil {
		return nil, err
	}
	if err := Group(d, t); err != nil {
		return nil, err
	}
	if err := Render(d, t, rules); err != nil {
		return nil, err
	}
	rels, err := Relate(d, t, rules, opts)
	if err != nil {
		return nil, err
	}
	if debug.Group() {
		debug.LogAny(rels)
	}
	// mutate only once nothing can fail
	d.StripAttrs(inv.Path)
	Sanitize(d)
	return &Expansion{
		Original:  d,
		Subsets:   t.Subsets,
		Relations: rels,
	}, nil
}

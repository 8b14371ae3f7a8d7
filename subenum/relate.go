package subenum

import (
	"fmt"

	"github.com/signadot/subenum/naming"
	"github.com/signadot/subenum/syntax"
)

// RelationKind tells which declaration a Relation renders to.
type RelationKind int

const (
	// ToOriginal is the total conversion from a subset to the original.
	ToOriginal RelationKind = iota
	// FromOriginal is the fallible conversion from the original to a
	// subset.
	FromOriginal
	// Equality is the pair of cross-type comparisons.
	Equality
	// Stringer delegates a subset's String method to the original's.
	Stringer
	// Membership reports whether an original value is in a subset.
	Membership
	// ValueList lists the values of a subset.
	ValueList
)

func (k RelationKind) String() string {
	switch k {
	case ToOriginal:
		return "to-original"
	case FromOriginal:
		return "from-original"
	case Equality:
		return "equality"
	case Stringer:
		return "stringer"
	case Membership:
		return "membership"
	case ValueList:
		return "values"
	default:
		return fmt.Sprintf("RelationKind(%d)", int(k))
	}
}

// Arm pairs a subset constant with its original constant.
type Arm struct {
	Subset   string
	Original string
}

// Relation is one generated declaration tying a subset to the original.
type Relation struct {
	Kind     RelationKind
	Subset   string
	Original string

	// Func is the declared method or function: on the subset for
	// ToOriginal, Equality and Stringer, on the original for FromOriginal
	// and Membership, package level for ValueList.
	Func string

	// Reverse is the method the declaration pairs with: the original's
	// comparison for Equality, the conversion Membership and Stringer
	// delegate to.
	Reverse string

	Arms []Arm
}

// Relate builds the relations of every subset, grouped by kind in the
// order ToOriginal, FromOriginal, Equality, then the optional kinds, each
// group in subset order.
func Relate(original *syntax.Decl, t *Table, rules *naming.Rules, opts Options) ([]*Relation, error) {
	type names struct {
		to, from, eqSub, eqOrig, member, values string
	}
	per := make([]names, len(t.Subsets))
	for i, s := range t.Subsets {
		env := naming.Env{Enum: original.Name, Subset: s.Name}
		var err error
		n := &per[i]
		for _, x := range []struct {
			rule naming.Rule
			dst  *string
		}{
			{naming.ToOriginalRule, &n.to},
			{naming.FromOriginalRule, &n.from},
			{naming.EqualSubsetRule, &n.eqSub},
			{naming.EqualOriginalRule, &n.eqOrig},
			{naming.MemberRule, &n.member},
			{naming.ValuesRule, &n.values},
		} {
			*x.dst, err = rules.Name(x.rule, env)
			if err != nil {
				return nil, &Error{Pos: s.Pos, Kind: ErrNaming, Message: "subset " + s.Name, Err: err}
			}
		}
		added := []string{n.from, n.eqOrig}
		if opts.Member {
			added = append(added, n.member)
		}
		for _, m := range added {
			if _, ok := original.Methods[m]; ok {
				return nil, errorf(s.Pos, ErrNaming, "%s already declares method %s", original.Name, m)
			}
		}
	}

	var rels []*Relation
	add := func(kind RelationKind, fn, rev func(n names) string) {
		for i, s := range t.Subsets {
			r := &Relation{
				Kind:     kind,
				Subset:   s.Name,
				Original: original.Name,
				Func:     fn(per[i]),
				Arms:     arms(s),
			}
			if rev != nil {
				r.Reverse = rev(per[i])
			}
			rels = append(rels, r)
		}
	}
	add(ToOriginal, func(n names) string { return n.to }, nil)
	add(FromOriginal, func(n names) string { return n.from }, nil)
	add(Equality, func(n names) string { return n.eqSub }, func(n names) string { return n.eqOrig })
	if opts.Stringer && original.HasStringer() {
		add(Stringer, func(names) string { return "String" }, func(n names) string { return n.to })
	}
	if opts.Member {
		add(Membership, func(n names) string { return n.member }, func(n names) string { return n.from })
	}
	if opts.Values {
		add(ValueList, func(n names) string { return n.values }, nil)
	}
	return rels, nil
}

// arms pairs the constants of s, each once even when a marker listed the
// subset twice.
func arms(s *Subset) []Arm {
	var res []Arm
	seen := map[string]bool{}
	for _, v := range s.Decl.Variants {
		if seen[v.Name] {
			continue
		}
		seen[v.Name] = true
		res = append(res, Arm{Subset: v.Name, Original: v.Origin})
	}
	return res
}

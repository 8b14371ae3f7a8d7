package subenum

import "github.com/signadot/subenum/syntax"

// Validate checks that d is an enumerated type. Variants are not
// examined.
func Validate(d *syntax.Decl) error {
	if d.Kind != syntax.EnumKind {
		return errorf(d.Pos, ErrNotEnum, "%s is a %s", d.Name, d.Kind)
	}
	return nil
}

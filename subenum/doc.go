// Package subenum derives narrowed enumerated types from an annotated one.
//
// An enumerated type lists the subsets to derive in its invocation
// directive, and each constant lists the subsets it belongs to in its
// marker directive:
//
//	//subenum:enum(Dog, Small)
//	type Canis int
//
//	const (
//		Wolf Canis = iota
//		//subenum:in(Dog)
//		Boxer
//		//subenum:in(Dog, Small)
//		Westie
//	)
//
// [Expand] turns that into the sanitized original declaration, one type
// per subset (Dog with DogBoxer and DogWestie, Small with SmallWestie) and
// the relations between each subset and the original: a total conversion
// to the original, a fallible conversion from it and equality in both
// directions. Expansion is pure apart from removing the consumed
// directives from the original's file; every failure is an [*Error]
// positioned at the offending token.
//
// # Related Packages
//
//   - github.com/signadot/subenum/syntax - reading declarations
//   - github.com/signadot/subenum/emit - printing an [Expansion]
package subenum

const (
	// Namespace prefixes every directive owned by this package.
	Namespace = "subenum"

	// InvocationName is the directive naming the subsets of a type.
	InvocationName = Namespace + ":enum"

	// MarkerName is the directive listing the subsets of a constant.
	MarkerName = Namespace + ":in"
)

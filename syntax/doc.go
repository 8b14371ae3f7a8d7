// Package syntax reads enumerated type declarations and their directive
// comments out of Go source files.
//
// A directive is a line comment with no space after the slashes, made of a
// colon separated path and optionally a parenthesized argument list or an
// assigned value:
//
//	//subenum:enum(Dog, Small)
//	type Canis int
//
//	const (
//		Wolf Canis = iota
//		//subenum:in(Dog)
//		Boxer
//	)
//
// Parsed directives are exposed as [Attribute] values attached to a [Decl]
// or a [Variant]. Declarations and variants can be deep cloned; clones are
// detached from the source [File], while edits made through an attached
// value also rewrite the file's comments so it can be printed again.
//
// # Related Packages
//
//   - github.com/signadot/subenum/subenum - the transformer
//   - github.com/signadot/subenum/emit - printing files back out
package syntax

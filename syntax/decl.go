package syntax

import (
	"go/ast"
	"go/token"
	"slices"
)

// Kind is the shape of an annotated type declaration.
type Kind int

const (
	OtherKind Kind = iota
	EnumKind
	StructKind
	InterfaceKind
	AliasKind
	GenericKind
)

func (k Kind) String() string {
	switch k {
	case EnumKind:
		return "enum"
	case StructKind:
		return "struct type"
	case InterfaceKind:
		return "interface type"
	case AliasKind:
		return "type alias"
	case GenericKind:
		return "generic type"
	default:
		return "composite type"
	}
}

// Variant is one constant of an enumerated type.
type Variant struct {
	// Name is the constant's identifier.
	Name string

	// Origin is the name of the variant this one was derived from. It is
	// equal to Name for variants read from source.
	Origin string

	// Value is the constant's initializer, nil when the value is implied by
	// repetition of the previous spec in a const group.
	Value ast.Expr

	// Attrs are the directives in the constant's doc and line comments.
	Attrs []*Attribute

	Pos token.Pos

	file *File
}

// Blank reports whether v is the blank identifier.
func (v *Variant) Blank() bool {
	return v.Name == "_"
}

// Clone returns a deep, detached copy of v.
func (v *Variant) Clone() *Variant {
	c := *v
	c.Attrs = cloneAttrs(v.Attrs)
	c.file = nil
	return &c
}

// StripAttrs removes the directives with the given path. When v is
// attached to a file, the comments are removed from the file too.
func (v *Variant) StripAttrs(path string) {
	v.Attrs = stripAttrs(v.file, v.Attrs, path)
}

// Decl is an annotated type declaration along with the constants declared
// with its type in the same file.
type Decl struct {
	// Name is the declared type name.
	Name string

	Kind Kind

	// Underlying is the type expression on the right hand side of the
	// declaration, e.g. int.
	Underlying ast.Expr

	// Attrs are the directives of the type declaration.
	Attrs []*Attribute

	// Variants lists the constants of type Name in source order.
	Variants []*Variant

	// Methods lists methods declared on Name (value or pointer receiver)
	// in the same file, mapped to their signatures.
	Methods map[string]*ast.FuncType

	Pos token.Pos

	file *File
}

// File returns the file d was read from, or nil for a clone.
func (d *Decl) File() *File {
	return d.file
}

// Attr returns the first directive with the given path, or nil.
func (d *Decl) Attr(path string) *Attribute {
	for _, a := range d.Attrs {
		if a.Is(path) {
			return a
		}
	}
	return nil
}

// StripAttrs removes the type's directives with the given path.
func (d *Decl) StripAttrs(path string) {
	d.Attrs = stripAttrs(d.file, d.Attrs, path)
}

// HasStringer reports whether the type declares String() string.
func (d *Decl) HasStringer() bool {
	ft, ok := d.Methods["String"]
	if !ok || ft.Params.NumFields() != 0 || ft.Results.NumFields() != 1 {
		return false
	}
	id, ok := ft.Results.List[0].Type.(*ast.Ident)
	return ok && id.Name == "string"
}

// Clone returns a deep, detached copy of d.
func (d *Decl) Clone() *Decl {
	c := *d
	c.Attrs = cloneAttrs(d.Attrs)
	c.Variants = make([]*Variant, len(d.Variants))
	for i, v := range d.Variants {
		c.Variants[i] = v.Clone()
	}
	if d.Methods != nil {
		c.Methods = make(map[string]*ast.FuncType, len(d.Methods))
		for k, v := range d.Methods {
			c.Methods[k] = v
		}
	}
	c.file = nil
	return &c
}

func cloneAttrs(attrs []*Attribute) []*Attribute {
	if attrs == nil {
		return nil
	}
	res := make([]*Attribute, len(attrs))
	for i, a := range attrs {
		res[i] = a.Clone()
	}
	return res
}

func stripAttrs(f *File, attrs []*Attribute, path string) []*Attribute {
	return slices.DeleteFunc(attrs, func(a *Attribute) bool {
		if !a.Is(path) {
			return false
		}
		if f != nil {
			f.DeleteAttribute(a)
		}
		return true
	})
}

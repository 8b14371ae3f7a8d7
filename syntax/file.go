package syntax

import (
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/parser"
	"go/token"
	"slices"
)

// File is a parsed Go source file.
type File struct {
	// Name is the file name used for positions.
	Name string

	Fset *token.FileSet
	AST  *ast.File

	src []byte
}

// ParseFile parses a Go source file with comments. src is the file
// content.
func ParseFile(filename string, src []byte) (*File, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %q: %w", filename, err)
	}
	return &File{
		Name: filename,
		Fset: fset,
		AST:  file,
		src:  src,
	}, nil
}

// Position resolves p.
func (f *File) Position(p token.Pos) token.Position {
	return f.Fset.Position(p)
}

// Package returns the package name.
func (f *File) Package() string {
	return f.AST.Name.Name
}

// Annotated returns the type declarations carrying a directive with the
// given path, in source order, each with its variants collected.
func (f *File) Annotated(path string) []*Decl {
	var decls []*Decl
	for _, decl := range f.AST.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			groups := []*ast.CommentGroup{ts.Doc, ts.Comment}
			if !gd.Lparen.IsValid() {
				groups = append([]*ast.CommentGroup{gd.Doc}, groups...)
			}
			attrs := parseAttributes(groups...)
			if !slices.ContainsFunc(attrs, func(a *Attribute) bool { return a.Is(path) }) {
				continue
			}
			d := &Decl{
				Name:       ts.Name.Name,
				Kind:       kindOf(ts),
				Underlying: ts.Type,
				Attrs:      attrs,
				Pos:        ts.Pos(),
				file:       f,
			}
			if d.Kind == EnumKind {
				d.Variants = f.variants(d.Name)
			}
			d.Methods = f.methods(d.Name)
			decls = append(decls, d)
		}
	}
	return decls
}

func kindOf(ts *ast.TypeSpec) Kind {
	if ts.Assign.IsValid() {
		return AliasKind
	}
	if ts.TypeParams != nil && ts.TypeParams.NumFields() > 0 {
		return GenericKind
	}
	switch ts.Type.(type) {
	case *ast.Ident, *ast.SelectorExpr:
		return EnumKind
	case *ast.StructType:
		return StructKind
	case *ast.InterfaceType:
		return InterfaceKind
	default:
		return OtherKind
	}
}

// variants collects the constants of type name. Inside a const group a
// spec without type and values repeats the previous spec's.
func (f *File) variants(name string) []*Variant {
	var res []*Variant
	for _, decl := range f.AST.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.CONST {
			continue
		}
		var typ ast.Expr
		var vals []ast.Expr
		for _, spec := range gd.Specs {
			vs := spec.(*ast.ValueSpec)
			implied := vs.Type == nil && len(vs.Values) == 0
			if !implied {
				typ, vals = vs.Type, vs.Values
			}
			groups := []*ast.CommentGroup{vs.Doc, vs.Comment}
			if !gd.Lparen.IsValid() {
				groups = append([]*ast.CommentGroup{gd.Doc}, groups...)
			}
			for i, id := range vs.Names {
				if constType(typ, vals, i) != name {
					continue
				}
				v := &Variant{
					Name:   id.Name,
					Origin: id.Name,
					Attrs:  parseAttributes(groups...),
					Pos:    id.Pos(),
					file:   f,
				}
				if !implied && i < len(vals) {
					v.Value = vals[i]
				}
				res = append(res, v)
			}
		}
	}
	return res
}

// constType names the type of the i'th constant of a spec, either from
// its explicit type or from a conversion T(x) initializer.
func constType(typ ast.Expr, vals []ast.Expr, i int) string {
	if typ != nil {
		if id, ok := typ.(*ast.Ident); ok {
			return id.Name
		}
		return ""
	}
	if i >= len(vals) {
		return ""
	}
	call, ok := ast.Unparen(vals[i]).(*ast.CallExpr)
	if !ok || len(call.Args) != 1 {
		return ""
	}
	if id, ok := call.Fun.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

func (f *File) methods(name string) map[string]*ast.FuncType {
	res := map[string]*ast.FuncType{}
	for _, decl := range f.AST.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Recv == nil || len(fd.Recv.List) != 1 {
			continue
		}
		t := fd.Recv.List[0].Type
		if st, ok := t.(*ast.StarExpr); ok {
			t = st.X
		}
		if id, ok := t.(*ast.Ident); ok && id.Name == name {
			res[fd.Name.Name] = fd.Type
		}
	}
	return res
}

// DeleteAttribute removes a's comment from the file. When the comment
// was alone on its line, the line is merged into the next one so that the
// remaining doc comment stays adjacent to its declaration. Deleting an
// attribute twice, or a detached one, is a no-op.
func (f *File) DeleteAttribute(a *Attribute) {
	if a.comment == nil {
		return
	}
	f.deleteComment(a.comment)
}

func (f *File) deleteComment(c *ast.Comment) {
	for gi, g := range f.AST.Comments {
		i := slices.Index(g.List, c)
		if i < 0 {
			continue
		}
		ownLine := f.ownLine(c)
		g.List = slices.Delete(g.List, i, i+1)
		if len(g.List) == 0 {
			f.AST.Comments = slices.Delete(f.AST.Comments, gi, gi+1)
			f.detach(g)
		}
		if ownLine {
			tf := f.Fset.File(c.Pos())
			if line := tf.Line(c.Pos()); line < tf.LineCount() {
				tf.MergeLine(line)
			}
		}
		return
	}
}

// ownLine reports whether only white space precedes c on its line.
func (f *File) ownLine(c *ast.Comment) bool {
	tf := f.Fset.File(c.Pos())
	start := tf.Offset(tf.LineStart(tf.Line(c.Pos())))
	end := tf.Offset(c.Pos())
	if f.src == nil || end > len(f.src) {
		return true
	}
	for _, b := range f.src[start:end] {
		if b != ' ' && b != '\t' {
			return false
		}
	}
	return true
}

// detach clears every reference to an emptied comment group.
func (f *File) detach(g *ast.CommentGroup) {
	if f.AST.Doc == g {
		f.AST.Doc = nil
	}
	ast.Inspect(f.AST, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.GenDecl:
			if x.Doc == g {
				x.Doc = nil
			}
		case *ast.TypeSpec:
			if x.Doc == g {
				x.Doc = nil
			}
			if x.Comment == g {
				x.Comment = nil
			}
		case *ast.ValueSpec:
			if x.Doc == g {
				x.Doc = nil
			}
			if x.Comment == g {
				x.Comment = nil
			}
		case *ast.FuncDecl:
			if x.Doc == g {
				x.Doc = nil
			}
		case *ast.Field:
			if x.Doc == g {
				x.Doc = nil
			}
			if x.Comment == g {
				x.Comment = nil
			}
		case *ast.ImportSpec:
			if x.Doc == g {
				x.Doc = nil
			}
			if x.Comment == g {
				x.Comment = nil
			}
		}
		return true
	})
}

// StripBuildTag removes the build constraint lines that consist of exactly
// tag and reports whether one was found. A constraint mentioning tag in a
// larger expression is an error, as the generated file would inherit an
// unsatisfiable condition.
func (f *File) StripBuildTag(tag string) (bool, error) {
	var del []*ast.Comment
	for _, g := range f.AST.Comments {
		if g.Pos() >= f.AST.Package {
			break
		}
		for _, c := range g.List {
			if !constraint.IsGoBuild(c.Text) && !constraint.IsPlusBuild(c.Text) {
				continue
			}
			x, err := constraint.Parse(c.Text)
			if err != nil {
				return false, fmt.Errorf("%s: %w", f.Position(c.Pos()), err)
			}
			if !mentions(x, tag) {
				continue
			}
			if te, ok := x.(*constraint.TagExpr); !ok || te.Tag != tag {
				return false, fmt.Errorf("%s: build constraint %q must be exactly //go:build %s", f.Position(c.Pos()), c.Text, tag)
			}
			del = append(del, c)
		}
	}
	for _, c := range del {
		f.deleteComment(c)
	}
	return len(del) > 0, nil
}

// HasBuildTag reports whether a build constraint of the file mentions tag
// and holds when tag is the only tag set. Files constrained by !tag are
// not selected.
func HasBuildTag(file *ast.File, tag string) bool {
	for _, g := range file.Comments {
		if g.Pos() >= file.Package {
			break
		}
		for _, c := range g.List {
			if !constraint.IsGoBuild(c.Text) && !constraint.IsPlusBuild(c.Text) {
				continue
			}
			x, err := constraint.Parse(c.Text)
			if err != nil || !mentions(x, tag) {
				continue
			}
			return x.Eval(func(t string) bool { return t == tag })
		}
	}
	return false
}

func mentions(x constraint.Expr, tag string) bool {
	found := false
	x.Eval(func(t string) bool {
		if t == tag {
			found = true
		}
		return true
	})
	return found
}

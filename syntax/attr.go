package syntax

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"
)

// AttrForm is the shape of a directive's arguments.
type AttrForm int

const (
	// PathForm is a directive with no arguments, e.g. //subenum:in
	PathForm AttrForm = iota
	// ListForm is a parenthesized list, e.g. //subenum:in(Dog, Small)
	ListForm
	// NameValueForm is an assignment, e.g. //subenum:in=Dog
	NameValueForm
	// InvalidForm marks a directive whose arguments did not parse. Err
	// holds the reason.
	InvalidForm
)

func (f AttrForm) String() string {
	switch f {
	case PathForm:
		return "path"
	case ListForm:
		return "list"
	case NameValueForm:
		return "name-value"
	default:
		return "invalid"
	}
}

// Attribute is a directive comment.
type Attribute struct {
	// Path is the directive name, e.g. "subenum:in" or "go:generate".
	Path string

	// Form tells which of Args and Value is meaningful.
	Form AttrForm

	// Args holds the entries of a ListForm directive.
	Args []ast.Expr

	// Value holds the right hand side of a NameValueForm directive.
	Value ast.Expr

	// Rest is free text following the path after a space, as in
	// "//go:generate stringer -type=T". Only set for PathForm.
	Rest string

	// Text is the comment text without the leading "//".
	Text string

	// Pos is the position of the comment.
	Pos token.Pos

	// Err is set when Form is InvalidForm.
	Err error

	argPos  []token.Pos
	comment *ast.Comment
}

// Is reports whether a has the given path.
func (a *Attribute) Is(path string) bool {
	return a.Path == path
}

// ArgPos returns the source position of the i'th list entry.
func (a *Attribute) ArgPos(i int) token.Pos {
	if i < 0 || i >= len(a.argPos) {
		return a.Pos
	}
	return a.argPos[i]
}

// Namespace returns the first path segment ("go" for "go:generate").
func (a *Attribute) Namespace() string {
	ns, _, _ := strings.Cut(a.Path, ":")
	return ns
}

// Clone returns a detached copy of a. Argument expressions are shared;
// they are never modified after parsing.
func (a *Attribute) Clone() *Attribute {
	c := *a
	c.Args = append([]ast.Expr(nil), a.Args...)
	c.argPos = append([]token.Pos(nil), a.argPos...)
	c.comment = nil
	return &c
}

// String returns the directive as it appears in source.
func (a *Attribute) String() string {
	return "//" + a.Text
}

// ParseAttribute parses c as a directive. It returns nil for comments that
// are not directives: block comments and line comments starting with a
// space or a non-letter. A directive whose arguments do not parse is
// returned with InvalidForm and Err set.
func ParseAttribute(c *ast.Comment) *Attribute {
	text, ok := strings.CutPrefix(c.Text, "//")
	if !ok {
		return nil
	}
	path, n := scanPath(text)
	if path == "" {
		return nil
	}
	a := &Attribute{
		Path:    path,
		Text:    text,
		Pos:     c.Pos(),
		comment: c,
	}
	rest := strings.TrimRightFunc(text[n:], unicode.IsSpace)
	// offset of rest[0] from the comment start
	base := c.Pos() + token.Pos(2+n)
	switch {
	case rest == "":
		a.Form = PathForm
	case rest[0] == ' ' || rest[0] == '\t':
		a.Form = PathForm
		a.Rest = strings.TrimSpace(rest)
	case rest[0] == '(':
		args, pos, err := parseList(rest, base)
		if err != nil {
			a.Form = InvalidForm
			a.Err = err
			return a
		}
		a.Form = ListForm
		a.Args = args
		a.argPos = pos
	case rest[0] == '=':
		v, err := parser.ParseExpr(rest[1:])
		if err != nil {
			a.Form = InvalidForm
			a.Err = fmt.Errorf("invalid value in //%s: %w", path, err)
			return a
		}
		a.Form = NameValueForm
		a.Value = v
	default:
		// "//TODO: x" or "//nolint" followed by punctuation: not ours to judge
		return nil
	}
	return a
}

// scanPath reads identifier segments joined by ':' and returns the path and
// its length in bytes. The first rune must be a letter.
func scanPath(text string) (string, int) {
	r, _ := utf8.DecodeRuneInString(text)
	if !unicode.IsLetter(r) {
		return "", 0
	}
	i := 0
	for i < len(text) {
		r, sz := utf8.DecodeRuneInString(text[i:])
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			i += sz
		case r == ':' && i+1 < len(text) && isIdentStart(text[i+1:]):
			i += sz
		default:
			return text[:i], i
		}
	}
	return text, i
}

func isIdentStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r) || r == '_'
}

// parseList parses "(a, b, ...)" by handing "_(a, b, ...)" to the Go
// expression parser. Entry positions are mapped back onto base, the
// position of the opening parenthesis.
func parseList(rest string, base token.Pos) ([]ast.Expr, []token.Pos, error) {
	fset := token.NewFileSet()
	src := "_" + rest
	x, err := parser.ParseExprFrom(fset, "", src, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid argument list %s: %w", rest, err)
	}
	call, ok := x.(*ast.CallExpr)
	if !ok || call.Ellipsis.IsValid() {
		return nil, nil, fmt.Errorf("invalid argument list %s", rest)
	}
	if fn, ok := call.Fun.(*ast.Ident); !ok || fn.Name != "_" {
		return nil, nil, fmt.Errorf("invalid argument list %s", rest)
	}
	pos := make([]token.Pos, len(call.Args))
	for i, arg := range call.Args {
		// src offset 1 is rest offset 0
		off := fset.Position(arg.Pos()).Offset - 1
		pos[i] = base + token.Pos(off)
	}
	return call.Args, pos, nil
}

// parseAttributes collects the directives of the given comment groups in
// order.
func parseAttributes(groups ...*ast.CommentGroup) []*Attribute {
	var attrs []*Attribute
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			if a := ParseAttribute(c); a != nil {
				attrs = append(attrs, a)
			}
		}
	}
	return attrs
}

// Package emit serializes a sanitized source file together with the
// declarations of its expansions into one formatted Go file.
package emit

import (
	"bytes"
	"fmt"
	"go/printer"
	"go/types"
	"strings"
	"text/template"

	"github.com/signadot/subenum/debug"
	"github.com/signadot/subenum/subenum"
	"github.com/signadot/subenum/syntax"
	"golang.org/x/tools/imports"
)

// Header marks every emitted file as generated.
const Header = "// Code generated by subenum. DO NOT EDIT."

// Options control emission.
type Options struct {
	// Tag, when set, excludes the emitted file from builds using the tag,
	// so that it never coexists with its input.
	Tag string
}

// File renders f, which the expansions have already sanitized, followed by
// the subset declarations and relations of each expansion.
func File(f *syntax.File, xs []*subenum.Expansion, opts Options) ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteString(Header + "\n\n")
	if opts.Tag != "" {
		fmt.Fprintf(buf, "//go:build !%s\n\n", opts.Tag)
	}
	cfg := printer.Config{Mode: printer.UseSpaces | printer.TabIndent, Tabwidth: 8}
	if err := cfg.Fprint(buf, f.Fset, f.AST); err != nil {
		return nil, fmt.Errorf("failed to print %s: %w", f.Name, err)
	}
	for _, x := range xs {
		if err := Expansion(buf, x); err != nil {
			return nil, fmt.Errorf("failed to emit %s: %w", x.Original.Name, err)
		}
	}
	src, err := imports.Process(f.Name, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		if debug.Emit() {
			debug.Logf("emit: unformatted source of %s:\n%s\n", f.Name, buf.Bytes())
		}
		return nil, fmt.Errorf("failed to format output for %s: %w", f.Name, err)
	}
	return src, nil
}

// Expansion writes the unformatted declarations of x to buf: subset types
// and their constants first, then the relations in order.
func Expansion(buf *bytes.Buffer, x *subenum.Expansion) error {
	to, from := map[string]string{}, map[string]string{}
	for _, r := range x.Relations {
		switch r.Kind {
		case subenum.ToOriginal:
			to[r.Subset] = r.Func
		case subenum.FromOriginal:
			from[r.Subset] = r.Func
		}
	}
	for _, s := range x.Subsets {
		if err := tmpl.ExecuteTemplate(buf, "subset", newSubset(x.Original.Name, s.Decl)); err != nil {
			return err
		}
	}
	for _, r := range x.Relations {
		if err := tmpl.ExecuteTemplate(buf, r.Kind.String(), relation{Relation: r, To: to[r.Subset], From: from[r.Subset]}); err != nil {
			return err
		}
	}
	return nil
}

type subsetData struct {
	Name       string
	Original   string
	Underlying string
	Directives []string
	Consts     []constData
}

type constData struct {
	Name       string
	Origin     string
	Directives []string
}

func newSubset(original string, d *syntax.Decl) subsetData {
	s := subsetData{
		Name:       d.Name,
		Original:   original,
		Underlying: types.ExprString(d.Underlying),
		Directives: directives(d.Attrs),
	}
	seen := map[string]bool{}
	for _, v := range d.Variants {
		// a variant listed twice in a marker is declared once
		if seen[v.Name] {
			continue
		}
		seen[v.Name] = true
		s.Consts = append(s.Consts, constData{
			Name:       v.Name,
			Origin:     v.Origin,
			Directives: directives(v.Attrs),
		})
	}
	return s
}

func directives(attrs []*syntax.Attribute) []string {
	var res []string
	for _, a := range attrs {
		res = append(res, a.String())
	}
	return res
}

// relation carries the names of the subset's conversions, which the
// equality and delegating templates call.
type relation struct {
	*subenum.Relation
	To   string
	From string
}

var tmpl = template.Must(template.New("emit").Funcs(template.FuncMap{
	// matches compares x with every original constant of arms. Two
	// constants may share a value, so no tagged switch is used.
	"matches": func(arms []subenum.Arm) string {
		conds := make([]string, len(arms))
		for i, a := range arms {
			conds[i] = "x == " + a.Original
		}
		return strings.Join(conds, ", ")
	},
	"subsets": func(arms []subenum.Arm) string {
		names := make([]string, len(arms))
		for i, a := range arms {
			names[i] = a.Subset
		}
		return strings.Join(names, ", ")
	},
}).Parse(templates))

const templates = `
{{- define "subset"}}

// {{.Name}} is a subset of {{.Original}}.
{{range .Directives}}{{.}}
{{end}}type {{.Name}} {{.Underlying}}
{{- if .Consts}}

const (
{{- range .Consts}}
{{- range .Directives}}
	{{.}}
{{- end}}
	{{.Name}} = {{$.Name}}({{.Origin}})
{{- end}}
)
{{- end}}
{{end}}

{{- define "to-original"}}
// {{.Func}} converts x to {{.Original}}.
func (x {{.Subset}}) {{.Func}}() {{.Original}} {
	return {{.Original}}(x)
}
{{end}}

{{- define "from-original"}}
// {{.Func}} converts x to {{.Subset}}, reporting whether x is one of its
// variants.
func (x {{.Original}}) {{.Func}}() (_ {{.Subset}}, ok bool) {
{{- if .Arms}}
	switch {
	case {{matches .Arms}}:
		return {{.Subset}}(x), true
	}
{{- end}}
	return
}
{{end}}

{{- define "equality"}}
// {{.Func}} reports whether x and v are the same variant. It is false
// when x is not one of the variants of {{.Subset}}.
func (x {{.Subset}}) {{.Func}}(v {{.Original}}) bool {
	s, ok := v.{{.From}}()
	return ok && s == x
}

// {{.Reverse}} reports whether x and v are the same variant.
func (x {{.Original}}) {{.Reverse}}(v {{.Subset}}) bool {
	return v.{{.Func}}(x)
}
{{end}}

{{- define "stringer"}}
// {{.Func}} returns the string form of x as a {{.Original}}.
func (x {{.Subset}}) {{.Func}}() string {
	return x.{{.Reverse}}().String()
}
{{end}}

{{- define "membership"}}
// {{.Func}} reports whether x is a variant of {{.Subset}}.
func (x {{.Original}}) {{.Func}}() bool {
	_, ok := x.{{.Reverse}}()
	return ok
}
{{end}}

{{- define "values"}}
// {{.Func}} returns the variants of {{.Subset}} in declaration order.
func {{.Func}}() []{{.Subset}} {
	return []{{.Subset}}{ {{- subsets .Arms -}} }
}
{{end}}
`

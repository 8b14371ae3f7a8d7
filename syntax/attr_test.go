package syntax

import (
	"go/ast"
	"go/token"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseAttribute(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantNil  bool
		wantPath string
		wantForm AttrForm
		wantArgs []string
		wantRest string
	}{
		{
			name:    "prose",
			text:    "// Canis is a canine.",
			wantNil: true,
		},
		{
			name:    "block comment",
			text:    "/* subenum:in(Dog) */",
			wantNil: true,
		},
		{
			name:     "path form",
			text:     "//subenum:in",
			wantPath: "subenum:in",
			wantForm: PathForm,
		},
		{
			name:     "list form",
			text:     "//subenum:in(Dog, Small)",
			wantPath: "subenum:in",
			wantForm: ListForm,
			wantArgs: []string{"Dog", "Small"},
		},
		{
			name:     "list form with trailing space",
			text:     "//subenum:enum(Dog) ",
			wantPath: "subenum:enum",
			wantForm: ListForm,
			wantArgs: []string{"Dog"},
		},
		{
			name:     "empty list",
			text:     "//subenum:in()",
			wantPath: "subenum:in",
			wantForm: ListForm,
		},
		{
			name:     "non identifier entries still parse",
			text:     `//subenum:in(pkg.Dog, "Small", 3)`,
			wantPath: "subenum:in",
			wantForm: ListForm,
			wantArgs: []string{"pkg.Dog", `"Small"`, "3"},
		},
		{
			name:     "name value form",
			text:     "//subenum:in=Dog",
			wantPath: "subenum:in",
			wantForm: NameValueForm,
		},
		{
			name:     "go directive with free text",
			text:     "//go:generate stringer -type=Canis",
			wantPath: "go:generate",
			wantForm: PathForm,
			wantRest: "stringer -type=Canis",
		},
		{
			name:     "unbalanced list",
			text:     "//subenum:in(Dog",
			wantPath: "subenum:in",
			wantForm: InvalidForm,
		},
		{
			name:     "garbage after list",
			text:     "//subenum:in(Dog) Small",
			wantPath: "subenum:in",
			wantForm: InvalidForm,
		},
		{
			name:    "punctuation after path",
			text:    "//TODO: something",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ParseAttribute(&ast.Comment{Slash: 100, Text: tt.text})
			if tt.wantNil {
				if a != nil {
					t.Fatalf("expected no attribute, got %+v", a)
				}
				return
			}
			if a == nil {
				t.Fatal("expected an attribute")
			}
			if a.Path != tt.wantPath {
				t.Errorf("path: expected %q, got %q", tt.wantPath, a.Path)
			}
			if a.Form != tt.wantForm {
				t.Errorf("form: expected %s, got %s (err %v)", tt.wantForm, a.Form, a.Err)
			}
			if a.Form == InvalidForm && a.Err == nil {
				t.Error("invalid form without error")
			}
			var args []string
			for _, x := range a.Args {
				args = append(args, exprString(x))
			}
			if diff := cmp.Diff(tt.wantArgs, args); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
			if a.Rest != tt.wantRest {
				t.Errorf("rest: expected %q, got %q", tt.wantRest, a.Rest)
			}
		})
	}
}

func TestParseAttribute_ArgPos(t *testing.T) {
	c := &ast.Comment{Slash: 1000, Text: "//subenum:in(Dog,  Small)"}
	a := ParseAttribute(c)
	if a == nil || a.Form != ListForm {
		t.Fatalf("expected list attribute, got %+v", a)
	}
	// "//subenum:in(" is 13 bytes
	if got, want := a.ArgPos(0), token.Pos(1013); got != want {
		t.Errorf("ArgPos(0): expected %d, got %d", want, got)
	}
	if got, want := a.ArgPos(1), token.Pos(1019); got != want {
		t.Errorf("ArgPos(1): expected %d, got %d", want, got)
	}
	if got := a.ArgPos(7); got != a.Pos {
		t.Errorf("ArgPos out of range: expected attribute position, got %d", got)
	}
}

func TestAttribute_Clone(t *testing.T) {
	a := ParseAttribute(&ast.Comment{Slash: 1, Text: "//subenum:in(Dog, Small)"})
	c := a.Clone()
	c.Args[0] = nil
	if a.Args[0] == nil {
		t.Error("clone shares its argument slice")
	}
	if c.comment != nil {
		t.Error("clone is still attached to a comment")
	}
	if c.Namespace() != "subenum" {
		t.Errorf("expected namespace subenum, got %q", c.Namespace())
	}
}

package generate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/subenum/config"
	"github.com/signadot/subenum/diag"
	"github.com/signadot/subenum/subenum"
)

const canisSrc = `//go:build subenum

package canis

//subenum:enum(Dog, Small)
type Canis int

const (
	Wolf Canis = iota
	//subenum:in(Dog)
	Boxer
	//subenum:in(Dog)
	GoldenRetriever
	Coyote
	Westie //subenum:in(Dog, Small)
)
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := New(config.Default(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return g
}

func TestRun_WriteThenCheck(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "canis.go")
	out := filepath.Join(dir, "canis_gen.go")
	writeFile(t, in, canisSrc)
	g := newGenerator(t)
	ctx := context.Background()

	err := g.Run(ctx, []string{in}, true)
	if !errors.Is(err, ErrStale) {
		t.Fatalf("expected missing output to be stale, got %v", err)
	}

	if err := g.Run(ctx, []string{in}, false); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !strings.Contains(string(data), "func (x Canis) AsDog() (_ Dog, ok bool)") {
		t.Errorf("unexpected output:\n%s", data)
	}
	if err := g.Run(ctx, []string{in}, true); err != nil {
		t.Fatalf("fresh output should check clean, got %v", err)
	}

	writeFile(t, out, strings.Replace(string(data), "DogWestie", "DogWolf", 1))
	err = g.Run(ctx, []string{in}, true)
	var stale *StaleError
	if !errors.As(err, &stale) {
		t.Fatalf("expected a StaleError, got %v", err)
	}
	if !strings.Contains(stale.Diff, "-") || !strings.Contains(stale.Diff, "+") || !strings.Contains(stale.Diff, "DogWolf") {
		t.Errorf("expected a diff mentioning the edit, got:\n%s", stale.Diff)
	}
}

func TestRun_CollectsErrors(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "canis.go")
	bad := filepath.Join(dir, "bad.go")
	writeFile(t, good, canisSrc)
	writeFile(t, bad, `//go:build subenum

package canis

//subenum:enum(Cat)
type Feline struct{}
`)
	err := newGenerator(t).Run(context.Background(), []string{bad, good}, false)
	if !errors.Is(err, subenum.ErrNotEnum) {
		t.Fatalf("expected ErrNotEnum, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "canis_gen.go")); err != nil {
		t.Errorf("a failing file must not stop the others: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "bad_gen.go")); err == nil {
		t.Error("no output expected for a failing file")
	}
}

func TestSource_Diagnostics(t *testing.T) {
	src := `//go:build subenum

package canis

//subenum:enum(Dog)
type Canis int

const (
	//subenum:in(Dog, Cat)
	Boxer Canis = iota
)

//subenum:enum(Dog)
type Feline struct{}
`
	_, err := newGenerator(t).Source("canis.go", []byte(src))
	if err == nil {
		t.Fatal("expected errors")
	}
	var got []string
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var d *diag.Diagnostic
		if !errors.As(e, &d) {
			t.Fatalf("expected a diagnostic, got %v", e)
		}
		got = append(got, d.Pos.String())
	}
	// the undeclared Cat, then the struct's name
	want := []string{"canis.go:9:20", "canis.go:14:6"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(err, subenum.ErrUndeclaredSubset) || !errors.Is(err, subenum.ErrNotEnum) {
		t.Errorf("expected both failures, got %v", err)
	}
}

func TestSource_Stray(t *testing.T) {
	src := `//go:build subenum

package canis

type Canis int

const (
	//subenum:in(Dog)
	Boxer Canis = iota
)
`
	_, err := newGenerator(t).Source("canis.go", []byte(src))
	if !errors.Is(err, subenum.ErrMalformedMarker) {
		t.Fatalf("expected a stray marker error, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "canis.go:8:2: ") {
		t.Errorf("expected the marker position, got %q", err)
	}
}

func TestSource_BuildTag(t *testing.T) {
	g := newGenerator(t)
	if _, err := g.Source("canis.go", []byte(strings.TrimPrefix(canisSrc, "//go:build subenum\n"))); err == nil {
		t.Error("expected an error without the build constraint")
	}
	src := strings.Replace(canisSrc, "//go:build subenum", "//go:build subenum && linux", 1)
	if _, err := g.Source("canis.go", []byte(src)); err == nil {
		t.Error("expected an error for a compound constraint")
	}
}

func TestSource_NoAnnotatedTypes(t *testing.T) {
	r, err := newGenerator(t).Source("plain.go", []byte("//go:build subenum\n\npackage canis\n\nconst X = 1\n"))
	if err != nil {
		t.Fatalf("Source failed: %v", err)
	}
	if len(r.Types) != 0 {
		t.Errorf("expected no types, got %v", r.Types)
	}
	if r.Output != "plain_gen.go" {
		t.Errorf("expected plain_gen.go, got %q", r.Output)
	}
}

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/subenum/naming"
)

func TestDefault(t *testing.T) {
	c := Default()
	want := &Config{
		Tag:    "subenum",
		Suffix: "_gen.go",
		Jobs:   runtime.GOMAXPROCS(0),
		Naming: naming.DefaultConfig(),
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestParse(t *testing.T) {
	src := `
tag: enumgen
jobs: 2
naming:
  from_original: '"To" + Subset'
emit:
  stringer: true
  values: true
`
	c, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := Default()
	want.Tag = "enumgen"
	want.Jobs = 2
	want.Naming.FromOriginal = `"To" + Subset`
	want.Emit = Emit{Stringer: true, Values: true}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	rules, err := c.Rules()
	if err != nil {
		t.Fatalf("Rules failed: %v", err)
	}
	name, err := rules.Name(naming.FromOriginalRule, naming.Env{Enum: "Canis", Subset: "Dog"})
	if err != nil || name != "ToDog" {
		t.Errorf("expected ToDog, got %q (%v)", name, err)
	}
	opts := c.Options(rules)
	if !opts.Stringer || opts.Member || !opts.Values || opts.Rules != rules {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		contain string
	}{
		{name: "unknown key", src: "tags: x\n", contain: "tags"},
		{name: "unknown nested key", src: "emit:\n  strings: true\n", contain: "strings"},
		{name: "bad tag", src: "tag: 'a b'\n", contain: "invalid build tag"},
		{name: "test suffix", src: "suffix: _gen_test.go\n", contain: "invalid output suffix"},
		{name: "bare suffix", src: "suffix: .go\n", contain: "invalid output suffix"},
		{name: "negative jobs", src: "jobs: -1\n", contain: "jobs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.contain) {
				t.Errorf("expected error to mention %q, got %q", tt.contain, err)
			}
		})
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	c, err := Find(dir)
	if err != nil {
		t.Fatalf("Find without a file failed: %v", err)
	}
	if diff := cmp.Diff(Default(), c); diff != "" {
		t.Errorf("expected defaults (-want +got):\n%s", diff)
	}

	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("suffix: _sub.go\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c, err = Find(dir)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if got := c.Output("/src/canis.go"); got != "/src/canis_sub.go" {
		t.Errorf("expected /src/canis_sub.go, got %q", got)
	}

	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("suffix: [\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Find(dir); err == nil {
		t.Error("expected an error for a malformed file")
	}
}

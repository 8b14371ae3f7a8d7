package libdiff

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLines(t *testing.T) {
	from := "package canis\n\ntype Dog int\n\nconst DogBoxer = Dog(Boxer)\n"
	to := "package canis\n\ntype Dog int\n\nconst DogWestie = Dog(Westie)\n"
	want := []Line{
		{Equal, "package canis"},
		{Equal, ""},
		{Equal, "type Dog int"},
		{Equal, ""},
		{Delete, "const DogBoxer = Dog(Boxer)"},
		{Insert, "const DogWestie = Dog(Westie)"},
	}
	if diff := cmp.Diff(want, Lines(from, to)); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	if got := Lines(from, from); got != nil {
		t.Errorf("expected no diff for equal text, got %v", got)
	}
}

func TestString(t *testing.T) {
	var a, b []string
	for i := range 20 {
		a = append(a, fmt.Sprintf("line %d", i))
	}
	b = append(b, a...)
	b[3] = "changed 3"
	b[5] = "changed 5"
	b[16] = "changed 16"
	from := strings.Join(a, "\n") + "\n"
	to := strings.Join(b, "\n") + "\n"

	got := String("canis_gen.go", "canis_gen.go (generated)", Lines(from, to), 1)
	want := `--- canis_gen.go
+++ canis_gen.go (generated)
@@ -3,5 +3,5 @@
 line 2
-line 3
+changed 3
 line 4
-line 5
+changed 5
 line 6
@@ -16,3 +16,3 @@
 line 15
-line 16
+changed 16
 line 17
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unified diff mismatch (-want +got):\n%s", diff)
	}
	if s := String("a", "b", nil, 3); s != "" {
		t.Errorf("expected empty output for no diff, got %q", s)
	}
}

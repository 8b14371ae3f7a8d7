// Package generate drives subenum over input files: it discovers them,
// expands their annotated types and writes or checks the outputs.
package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/signadot/subenum/config"
	"github.com/signadot/subenum/diag"
	"github.com/signadot/subenum/emit"
	"github.com/signadot/subenum/libdiff"
	"github.com/signadot/subenum/naming"
	"github.com/signadot/subenum/subenum"
	"github.com/signadot/subenum/syntax"

	"golang.org/x/sync/errgroup"
)

// ErrStale is matched by check failures of outputs that are missing or
// differ from what would be generated.
var ErrStale = errors.New("generated file is out of date")

// StaleError describes an out of date output.
type StaleError struct {
	Output string
	// Diff is a unified diff from the file on disk to the expected
	// content, empty when the file is missing.
	Diff string
}

func (e *StaleError) Error() string {
	if e.Diff == "" {
		return fmt.Sprintf("%s: missing generated file", e.Output)
	}
	return fmt.Sprintf("%s: %v:\n%s", e.Output, ErrStale, e.Diff)
}

func (e *StaleError) Is(target error) bool {
	return target == ErrStale
}

// Result is the output generated from one input file.
type Result struct {
	Input  string
	Output string
	Src    []byte

	// Types lists the expanded types in source order.
	Types []string
}

// Generator expands input files. It is safe for concurrent use; no state
// is shared between files.
type Generator struct {
	cfg   *config.Config
	log   *slog.Logger
	rules *naming.Rules
}

// New returns a Generator for cfg, compiling its naming rules.
func New(cfg *config.Config, log *slog.Logger) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rules, err := cfg.Rules()
	if err != nil {
		return nil, fmt.Errorf("failed to compile naming rules: %w", err)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Generator{cfg: cfg, log: log, rules: rules}, nil
}

// File reads and expands the input file at path.
func (g *Generator) File(path string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return g.Source(path, src)
}

// Source expands src, read from path. Every annotated type is expanded;
// failures are reported together, each anchored at its position.
func (g *Generator) Source(path string, src []byte) (*Result, error) {
	f, err := syntax.ParseFile(path, src)
	if err != nil {
		return nil, err
	}
	found, err := f.StripBuildTag(g.cfg.Tag)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%s: missing //go:build %s constraint", path, g.cfg.Tag)
	}

	res := &Result{Input: path, Output: g.cfg.Output(path)}
	opts := g.cfg.Options(g.rules)
	var xs []*subenum.Expansion
	var errs []error
	for _, d := range f.Annotated(subenum.InvocationName) {
		x, err := subenum.Expand(d.Attr(subenum.InvocationName), d, opts)
		if err != nil {
			errs = append(errs, g.anchor(f, err))
			continue
		}
		g.log.Debug("expanded", "file", path, "type", d.Name, "subsets", len(x.Subsets))
		xs = append(xs, x)
		res.Types = append(res.Types, d.Name)
	}
	if len(errs) == 0 {
		errs = g.stray(f)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if len(xs) == 0 {
		g.log.Warn("no annotated types", "file", path)
	}
	res.Src, err = emit.File(f, xs, emit.Options{Tag: g.cfg.Tag})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (g *Generator) anchor(f *syntax.File, err error) error {
	var se *subenum.Error
	if errors.As(err, &se) {
		return diag.At(f.Position(se.Pos), err)
	}
	return err
}

// stray reports subenum directives left after expansion: markers in types
// without an invocation, or directives of unknown name.
func (g *Generator) stray(f *syntax.File) []error {
	var errs []error
	for _, cg := range f.AST.Comments {
		for _, c := range cg.List {
			a := syntax.ParseAttribute(c)
			if a == nil || a.Namespace() != subenum.Namespace {
				continue
			}
			kind := subenum.ErrMalformedMarker
			msg := "//" + a.Path + " is not attached to a constant of a type with //" + subenum.InvocationName
			if !a.Is(subenum.MarkerName) {
				kind = subenum.ErrMalformedArgument
				msg = "//" + a.Path + " is not a subenum directive"
				if a.Is(subenum.InvocationName) {
					msg = "//" + a.Path + " must annotate a type declaration"
				}
			}
			errs = append(errs, diag.At(f.Position(a.Pos), &subenum.Error{Pos: a.Pos, Kind: kind, Message: msg}))
		}
	}
	return errs
}

// Write writes r's output file.
func (g *Generator) Write(r *Result) error {
	if err := os.WriteFile(r.Output, r.Src, 0644); err != nil {
		return fmt.Errorf("failed to write output file %q: %w", r.Output, err)
	}
	g.log.Info("wrote", "file", r.Output, "types", r.Types)
	return nil
}

// Check compares r with its output file on disk.
func (g *Generator) Check(r *Result) error {
	cur, err := os.ReadFile(r.Output)
	if errors.Is(err, fs.ErrNotExist) {
		return &StaleError{Output: r.Output}
	}
	if err != nil {
		return fmt.Errorf("failed to read output file %q: %w", r.Output, err)
	}
	if bytes.Equal(cur, r.Src) {
		return nil
	}
	lines := libdiff.Lines(string(cur), string(r.Src))
	return &StaleError{
		Output: r.Output,
		Diff:   libdiff.String(r.Output, r.Output+" (generated)", lines, 3),
	}
}

// Run expands files concurrently, at most cfg.Jobs at once, writing the
// outputs or, when check is set, checking them. Errors of all files are
// joined in input order.
func (g *Generator) Run(ctx context.Context, files []string, check bool) error {
	errs := make([]error, len(files))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, g.cfg.Jobs))
	var mu sync.Mutex
	n := 0
	for i, path := range files {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := g.File(path)
			if err == nil {
				if check {
					err = g.Check(r)
				} else {
					err = g.Write(r)
				}
			}
			if err != nil {
				errs[i] = err
				return nil
			}
			mu.Lock()
			n++
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	g.log.Debug("done", "files", len(files), "ok", n)
	return errors.Join(errs...)
}

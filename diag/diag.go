// Package diag reports positioned errors as file:line:col: message.
package diag

import (
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Diagnostic is an error anchored at a resolved source position.
type Diagnostic struct {
	Pos token.Position
	Err error
}

func (d *Diagnostic) Error() string {
	return d.Pos.String() + ": " + d.Err.Error()
}

func (d *Diagnostic) Unwrap() error {
	return d.Err
}

// At anchors err at pos.
func At(pos token.Position, err error) *Diagnostic {
	return &Diagnostic{Pos: pos, Err: err}
}

// Printer writes errors one per line, colouring positions and messages
// when enabled.
type Printer struct {
	w   io.Writer
	pos func(string, ...any) string
	msg func(string, ...any) string
}

// NewPrinter returns a Printer writing to w, with colours if colored.
func NewPrinter(w io.Writer, colored bool) *Printer {
	p := &Printer{w: w, pos: fmt.Sprintf, msg: fmt.Sprintf}
	if colored {
		pc := color.New(color.Bold)
		pc.EnableColor()
		mc := color.New(color.FgRed)
		mc.EnableColor()
		p.pos = pc.SprintfFunc()
		p.msg = mc.SprintfFunc()
	}
	return p
}

// ForFile returns a Printer for f, coloured when f is a terminal.
func ForFile(f *os.File) *Printer {
	return NewPrinter(f, isatty.IsTerminal(f.Fd()))
}

// Print writes every diagnostic found in err, which may join several.
// Errors without a position are printed as they are.
func (p *Printer) Print(err error) {
	if err == nil {
		return
	}
	if d, ok := err.(*Diagnostic); ok {
		p.diagnostic(d)
		return
	}
	// Only joins of diagnostics are split: other errors with several
	// causes, like a sentinel and its detail, read as one message.
	if j, ok := err.(interface{ Unwrap() []error }); ok && anyDiagnostic(j.Unwrap()) {
		for _, e := range j.Unwrap() {
			p.Print(e)
		}
		return
	}
	var d *Diagnostic
	if errors.As(err, &d) {
		p.diagnostic(d)
		return
	}
	fmt.Fprintf(p.w, "%s\n", p.msg("%s", err))
}

func (p *Printer) diagnostic(d *Diagnostic) {
	if !d.Pos.IsValid() {
		fmt.Fprintf(p.w, "%s\n", p.msg("%s", d.Err))
		return
	}
	fmt.Fprintf(p.w, "%s: %s\n", p.pos("%s", d.Pos), p.msg("%s", d.Err))
}

func anyDiagnostic(errs []error) bool {
	var d *Diagnostic
	for _, e := range errs {
		if errors.As(e, &d) {
			return true
		}
	}
	return false
}

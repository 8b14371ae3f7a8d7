// Package libdiff computes and prints line diffs of text files.
package libdiff

import (
	"fmt"
	"io"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

type Op int

const (
	Equal Op = iota
	Delete
	Insert
)

func (o Op) prefix() string {
	switch o {
	case Delete:
		return "-"
	case Insert:
		return "+"
	default:
		return " "
	}
}

// Line is one line of a diff, without its newline.
type Line struct {
	Op   Op
	Text string
}

// Lines diffs from and to line by line. It returns nil when they are
// equal.
func Lines(from, to string) []Line {
	if from == to {
		return nil
	}
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)
	var res []Line
	for _, d := range diffs {
		op := Equal
		switch d.Type {
		case diffpatch.DiffDelete:
			op = Delete
		case diffpatch.DiffInsert:
			op = Insert
		}
		for _, text := range splitLines(d.Text) {
			res = append(res, Line{Op: op, Text: text})
		}
	}
	return res
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

// Write prints diff in unified form with the given number of context
// lines around each change. fromName and toName head the output.
func Write(w io.Writer, fromName, toName string, diff []Line, context int) error {
	if len(diff) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "--- %s\n+++ %s\n", fromName, toName); err != nil {
		return err
	}
	for _, h := range hunks(diff, context) {
		if _, err := fmt.Fprintf(w, "@@ -%d,%d +%d,%d @@\n", h.fromLine, h.fromLen, h.toLine, h.toLen); err != nil {
			return err
		}
		for _, l := range diff[h.start:h.end] {
			if _, err := fmt.Fprintf(w, "%s%s\n", l.Op.prefix(), l.Text); err != nil {
				return err
			}
		}
	}
	return nil
}

// String returns diff as Write would print it.
func String(fromName, toName string, diff []Line, context int) string {
	buf := &strings.Builder{}
	Write(buf, fromName, toName, diff, context)
	return buf.String()
}

type hunk struct {
	start, end        int
	fromLine, fromLen int
	toLine, toLen     int
}

// hunks groups changed lines with their context, merging groups whose
// context overlaps.
func hunks(diff []Line, context int) []hunk {
	var res []hunk
	for i := 0; i < len(diff); i++ {
		if diff[i].Op == Equal {
			continue
		}
		start := max(0, i-context)
		end := i
		// extend while another change is within reach of the context
		for j := i; j < len(diff); j++ {
			if diff[j].Op != Equal {
				end = j + 1
				continue
			}
			if j-end >= 2*context {
				break
			}
		}
		end = min(len(diff), end+context)
		if n := len(res); n > 0 && res[n-1].end >= start {
			start = res[n-1].start
			res = res[:n-1]
		}
		res = append(res, span(diff, start, end))
		i = end - 1
	}
	return res
}

func span(diff []Line, start, end int) hunk {
	h := hunk{start: start, end: end, fromLine: 1, toLine: 1}
	for _, l := range diff[:start] {
		if l.Op != Insert {
			h.fromLine++
		}
		if l.Op != Delete {
			h.toLine++
		}
	}
	for _, l := range diff[start:end] {
		if l.Op != Insert {
			h.fromLen++
		}
		if l.Op != Delete {
			h.toLen++
		}
	}
	return h
}

package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"solfront/internal/diag"
	"solfront/internal/source"
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждой диагностики печатает
// <name>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку контекста с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, file *source.File, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeOne(w, d.Severity, d.Code, d.Message, d.Primary, file, opts)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			writeOne(w, diag.SevInfo, diag.UnknownCode, n.Msg, n.Span, file, opts)
		}
	}
}

func writeOne(w io.Writer, sev diag.Severity, code diag.Code, msg string, span source.Span, file *source.File, opts PrettyOpts) {
	start, _ := file.Resolve(span)
	label := severityLabel(sev, opts.Color)
	if code == diag.UnknownCode {
		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", file.Name, start.Line, start.Col, label, msg)
	} else {
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", file.Name, start.Line, start.Col, label, code.ID(), msg)
	}
	writeUnderline(w, span, start, file)
}

// writeUnderline prints the source line and a ^~~~ marker under the span.
// Column math goes through runewidth so wide runes keep the caret aligned.
func writeUnderline(w io.Writer, span source.Span, start source.Pos, file *source.File) {
	line := file.Line(start.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", line)
	prefixWidth := runewidth.StringWidth(line[:min(int(start.Col-1), len(line))])
	marked := file.Slice(span)
	if idx := strings.IndexByte(marked, '\n'); idx >= 0 {
		marked = marked[:idx]
	}
	markWidth := runewidth.StringWidth(marked)
	if markWidth < 1 {
		markWidth = 1
	}
	fmt.Fprintf(w, "  %s^%s\n", strings.Repeat(" ", prefixWidth), strings.Repeat("~", markWidth-1))
}

func severityLabel(sev diag.Severity, colored bool) string {
	switch sev {
	case diag.SevError:
		if colored {
			return color.New(color.FgRed, color.Bold).Sprint("error")
		}
		return "error"
	case diag.SevWarning:
		if colored {
			return color.New(color.FgYellow).Sprint("warning")
		}
		return "warning"
	default:
		if colored {
			return color.New(color.FgCyan).Sprint("note")
		}
		return "note"
	}
}

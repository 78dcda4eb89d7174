package diagfmt

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"fedcompose/internal/diag"
	"fedcompose/internal/source"
)

const tabWidth = 4

type palette struct {
	err    *color.Color
	warn   *color.Color
	code   *color.Color
	arrow  *color.Color
	gutter *color.Color
	mark   *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		code:   mk(color.Bold),
		arrow:  mk(color.FgBlue, color.Bold),
		gutter: mk(color.FgBlue),
		mark:   mk(color.FgRed, color.Bold),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	if s == diag.SevError {
		return p.err
	}
	return p.warn
}

// Pretty форматирует issues в человекочитаемый вид:
//
//	ERROR [INVALID_URL]: URL cannot be parsed
//	  --> products.graphql:3:38
//	   |
//	 3 |   @source(name: "v1", http: {baseURL: "::"})
//	   |                                      ^^^^
//
// Строка схемы печатается, только если сабграф есть в fs.
func Pretty(w io.Writer, issues []diag.Issue, fs *source.FileSet, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	var buf bytes.Buffer
	for i, it := range issues {
		if i > 0 {
			buf.WriteByte('\n')
		}
		sev := p.severity(it.Severity)
		msg := it.Message
		if opts.Width > 0 {
			msg = runewidth.Truncate(msg, int(opts.Width), "…")
		}
		if it.Code != "" {
			fmt.Fprintf(&buf, "%s %s: %s\n", sev.Sprint(it.Severity.String()), p.code.Sprint("["+it.Code+"]"), msg)
		} else {
			fmt.Fprintf(&buf, "%s: %s\n", sev.Sprint(it.Severity.String()), msg)
		}
		for _, loc := range it.Locations {
			writeLocation(&buf, p, fs, loc, opts)
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func writeLocation(buf *bytes.Buffer, p palette, fs *source.FileSet, loc diag.SourceLocation, opts PrettyOpts) {
	name, file := locationName(fs, loc.Subgraph, opts.PathMode, opts.BaseDir)
	line, col := loc.Start.OneIndexed()
	fmt.Fprintf(buf, "  %s %s:%d:%d\n", p.arrow.Sprint("-->"), name, line, col)
	if file == nil || int(loc.Start.Line) > len(file.LineIdx) {
		return
	}

	first := loc.Start.Line
	if opts.Context > 0 {
		first = loc.Start.Line - min(loc.Start.Line, uint32(opts.Context))
	}
	width := len(strconv.FormatUint(uint64(line), 10))
	pad := strings.Repeat(" ", width)

	fmt.Fprintf(buf, " %s %s\n", pad, p.gutter.Sprint("|"))
	for n := first; n <= loc.Start.Line; n++ {
		num := fmt.Sprintf("%*d", width, n+1)
		fmt.Fprintf(buf, " %s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), expandTabs(file.GetLine(n)))
	}
	offset, span := underline(file.GetLine(loc.Start.Line), loc)
	fmt.Fprintf(buf, " %s %s %s%s\n", pad, p.gutter.Sprint("|"), strings.Repeat(" ", offset), p.mark.Sprint(strings.Repeat("^", span)))
}

// underline returns the display offset and width of loc on its first line.
func underline(text string, loc diag.SourceLocation) (offset, span int) {
	runes := []rune(text)
	start := min(int(loc.Start.Column), len(runes))
	end := len(runes)
	if loc.End.Line == loc.Start.Line && int(loc.End.Column) > start {
		end = min(int(loc.End.Column), len(runes))
	}
	offset = runewidth.StringWidth(expandTabs(string(runes[:start])))
	span = runewidth.StringWidth(expandTabs(string(runes[start:end])))
	return offset, max(span, 1)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// Short печатает по одной строке на issue:
//
//	products:3:38: ERROR [INVALID_URL]: URL cannot be parsed
func Short(w io.Writer, issues []diag.Issue, fs *source.FileSet, mode PathMode, baseDir string) error {
	var buf bytes.Buffer
	for _, it := range issues {
		if len(it.Locations) > 0 {
			loc := it.Locations[0]
			name, _ := locationName(fs, loc.Subgraph, mode, baseDir)
			line, col := loc.Start.OneIndexed()
			fmt.Fprintf(&buf, "%s:%d:%d: ", name, line, col)
		}
		buf.WriteString(it.Severity.String())
		if it.Code != "" {
			buf.WriteString(" [" + it.Code + "]")
		}
		buf.WriteString(": " + it.Message + "\n")
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Summary returns "N error(s), M warning(s)" for issues.
func Summary(issues []diag.Issue) string {
	bag := diag.NewBag()
	bag.AddAll(issues)
	errs, warns := len(bag.Errors()), len(bag.Warnings())
	return fmt.Sprintf("%d %s, %d %s", errs, plural(errs, "error"), warns, plural(warns, "warning"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

package diagfmt

import (
	"encoding/json"
	"io"

	"fedcompose/internal/diag"
)

// DiagnosticsOutput представляет корневую структуру JSON вывода.
type DiagnosticsOutput struct {
	Diagnostics []diag.BuildMessage `json:"diagnostics"`
	Count       int                 `json:"count"`
	Errors      int                 `json:"errors"`
	Warnings    int                 `json:"warnings"`
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
// Counters always cover every issue, even when Max truncates the list.
func BuildDiagnosticsOutput(issues []diag.Issue, opts JSONOpts) DiagnosticsOutput {
	n := len(issues)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	bag := diag.NewBag()
	bag.AddAll(issues)
	out := DiagnosticsOutput{
		Diagnostics: make([]diag.BuildMessage, 0, n),
		Errors:      len(bag.Errors()),
		Warnings:    len(bag.Warnings()),
	}
	for _, it := range issues[:n] {
		out.Diagnostics = append(out.Diagnostics, it.ToBuildMessage())
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON форматирует issues в JSON с одноиндексными позициями.
func JSON(w io.Writer, issues []diag.Issue, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	if opts.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(BuildDiagnosticsOutput(issues, opts))
}

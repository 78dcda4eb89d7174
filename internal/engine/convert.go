package engine

import (
	"fedcompose/internal/diag"
)

// Location converts the node into a zero-indexed location. ok is false when
// any coordinate is missing or not positive; such nodes are dropped.
func (n SubgraphASTNode) Location() (diag.SourceLocation, bool) {
	if n.Loc == nil {
		return diag.SourceLocation{}, false
	}
	start, ok := tokenPoint(n.Loc.StartToken)
	if !ok {
		return diag.SourceLocation{}, false
	}
	end, ok := tokenPoint(n.Loc.EndToken)
	if !ok {
		return diag.SourceLocation{}, false
	}
	loc := diag.SourceLocation{Start: start, End: end}
	if n.Subgraph != nil {
		loc.Subgraph = *n.Subgraph
	}
	return loc, true
}

func tokenPoint(p TokenPoint) (diag.SourcePoint, bool) {
	if p.Line == nil || p.Column == nil {
		return diag.SourcePoint{}, false
	}
	return diag.PointFromOneIndexed(*p.Line, *p.Column)
}

func locations(nodes []SubgraphASTNode) []diag.SourceLocation {
	var out []diag.SourceLocation
	for _, n := range nodes {
		if loc, ok := n.Location(); ok {
			out = append(out, loc)
		}
	}
	return out
}

// Issue converts an engine error. The code is empty when extensions are absent.
func (e GraphQLError) Issue() diag.Issue {
	issue := diag.Issue{
		Message:   e.Message,
		Severity:  diag.SevError,
		Locations: locations(e.Nodes),
	}
	if e.Extensions != nil {
		issue.Code = e.Extensions.Code
	}
	return issue
}

// Issue converts an engine hint into a warning.
func (h CompositionHint) Issue() diag.Issue {
	return diag.Issue{
		Code:      h.Definition.Code,
		Message:   h.Message,
		Severity:  diag.SevWarning,
		Locations: locations(h.Nodes),
	}
}

// ErrorIssues converts errors in order.
func ErrorIssues(errs []GraphQLError) []diag.Issue {
	out := make([]diag.Issue, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Issue())
	}
	return out
}

// HintIssues converts hints in order.
func HintIssues(hints []CompositionHint) []diag.Issue {
	out := make([]diag.Issue, 0, len(hints))
	for _, h := range hints {
		out = append(out, h.Issue())
	}
	return out
}

// Issues returns all errors followed by all hints.
func (r SatisfiabilityResult) Issues() []diag.Issue {
	out := ErrorIssues(r.Errors)
	return append(out, HintIssues(r.Hints)...)
}

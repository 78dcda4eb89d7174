package engine

import (
	"encoding/json"
	"testing"

	"fedcompose/internal/diag"
)

func intp(v int) *int { return &v }

func strp(v string) *string { return &v }

func node(subgraph string, l1, c1, l2, c2 int) SubgraphASTNode {
	return SubgraphASTNode{
		Subgraph: strp(subgraph),
		Loc: &NodeLocation{
			StartToken: TokenPoint{Line: intp(l1), Column: intp(c1)},
			EndToken:   TokenPoint{Line: intp(l2), Column: intp(c2)},
		},
	}
}

func TestGraphQLErrorIssue(t *testing.T) {
	e := GraphQLError{
		Message:    "Field conflict",
		Extensions: &ErrorExtensions{Code: "FIELD_TYPE_MISMATCH"},
		Nodes: []SubgraphASTNode{
			node("a", 3, 5, 3, 12),
			{Subgraph: strp("b")},
			node("c", 0, 1, 1, 1),
		},
	}
	issue := e.Issue()
	if issue.Code != "FIELD_TYPE_MISMATCH" || issue.Severity != diag.SevError {
		t.Fatalf("unexpected issue %+v", issue)
	}
	if len(issue.Locations) != 1 {
		t.Fatalf("expected incomplete nodes to be dropped, got %+v", issue.Locations)
	}
	want := diag.SourceLocation{
		Subgraph: "a",
		Start:    diag.SourcePoint{Line: 2, Column: 4},
		End:      diag.SourcePoint{Line: 2, Column: 11},
	}
	if issue.Locations[0] != want {
		t.Fatalf("location = %+v, want %+v", issue.Locations[0], want)
	}
}

func TestGraphQLErrorWithoutExtensions(t *testing.T) {
	issue := GraphQLError{Message: "boom"}.Issue()
	if issue.Code != "" {
		t.Fatalf("code = %q, want empty", issue.Code)
	}
	if len(issue.Locations) != 0 {
		t.Fatalf("unexpected locations %+v", issue.Locations)
	}
}

func TestHintIssueMissingSubgraph(t *testing.T) {
	n := node("", 1, 1, 1, 4)
	n.Subgraph = nil
	issue := CompositionHint{
		Message:    "inconsistent description",
		Definition: HintDefinition{Code: "INCONSISTENT_DESCRIPTION"},
		Nodes:      []SubgraphASTNode{n},
	}.Issue()
	if issue.Severity != diag.SevWarning || issue.Code != "INCONSISTENT_DESCRIPTION" {
		t.Fatalf("unexpected hint issue %+v", issue)
	}
	if len(issue.Locations) != 1 || issue.Locations[0].Subgraph != "" {
		t.Fatalf("unexpected locations %+v", issue.Locations)
	}
}

func TestSatisfiabilityResultOrder(t *testing.T) {
	r := SatisfiabilityResult{
		Errors: []GraphQLError{{Message: "e1"}, {Message: "e2"}},
		Hints:  []CompositionHint{{Message: "h1"}},
	}
	issues := r.Issues()
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(issues))
	}
	for i, want := range []string{"e1", "e2", "h1"} {
		if issues[i].Message != want {
			t.Errorf("issue %d = %q, want %q", i, issues[i].Message, want)
		}
	}
	if issues[2].Severity != diag.SevWarning {
		t.Errorf("hint severity = %s", issues[2].Severity)
	}
	if got := (SatisfiabilityResult{}).Issues(); len(got) != 0 {
		t.Fatalf("empty result produced %d issues", len(got))
	}
}

func TestDecodeEngineJSON(t *testing.T) {
	raw := `{
		"errors": [{
			"message": "cannot satisfy",
			"extensions": {"code": "SATISFIABILITY_ERROR"},
			"nodes": [{"subgraph": "users", "loc": {"startToken": {"line": 4, "column": 2}, "endToken": {"line": 4, "column": 9}}}]
		}],
		"hints": null
	}`
	var r SatisfiabilityResult
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	issues := r.Issues()
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	loc := issues[0].Locations[0]
	if loc.Subgraph != "users" || loc.Start.Line != 3 || loc.Start.Column != 1 || loc.End.Column != 8 {
		t.Fatalf("unexpected location %+v", loc)
	}
}
